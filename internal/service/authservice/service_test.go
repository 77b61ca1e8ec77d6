package authservice_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"goescola/internal/domain"
	apperror "goescola/internal/errors"
	"goescola/internal/pkg/logger"
	"goescola/internal/pkg/token"
	"goescola/internal/service/authservice"
)

// MockUsuarioRepository é uma implementação mock da interface UsuarioRepository
type MockUsuarioRepository struct {
	mock.Mock
}

func (m *MockUsuarioRepository) FindByEmail(ctx context.Context, email string) (domain.Usuario, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(domain.Usuario), args.Error(1)
}

func (m *MockUsuarioRepository) Save(ctx context.Context, usuario domain.Usuario) (domain.Usuario, error) {
	args := m.Called(ctx, usuario)
	return args.Get(0).(domain.Usuario), args.Error(1)
}

// MockTokenService é uma implementação mock do serviço de tokens.
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateToken(email string, role string) (string, time.Time, error) {
	args := m.Called(email, role)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockTokenService) ValidateToken(tokenString string) (*token.CustomClaims, error) {
	args := m.Called(tokenString)
	claims, _ := args.Get(0).(*token.CustomClaims)
	return claims, args.Error(1)
}

func hashDe(senha string) string {
	hash, _ := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.MinCost)
	return string(hash)
}

// TestLogin_Success testa a autenticação com credenciais corretas.
func TestLogin_Success(t *testing.T) {
	mockRepo := new(MockUsuarioRepository)
	mockTokenSvc := new(MockTokenService)

	svc := authservice.NewService(mockRepo, mockTokenSvc, logger.NewLogger("debug"))

	expiresAt := time.Now().Add(8 * time.Hour)
	usuario := domain.Usuario{
		ID:        1,
		Email:     "admin@escola.com",
		SenhaHash: hashDe("Senha@Forte1"),
		Role:      domain.RoleAdmin,
	}

	mockRepo.On("FindByEmail", mock.Anything, "admin@escola.com").Return(usuario, nil)
	mockTokenSvc.On("GenerateToken", "admin@escola.com", domain.RoleAdmin).
		Return("token-assinado", expiresAt, nil)

	resp, err := svc.Login(context.Background(), "admin@escola.com", "Senha@Forte1")

	assert.NoError(t, err)
	assert.Equal(t, "token-assinado", resp.Token)
	assert.Equal(t, "admin@escola.com", resp.Email)
	assert.Equal(t, expiresAt, resp.ExpiresAt)
	mockRepo.AssertExpectations(t)
	mockTokenSvc.AssertExpectations(t)
}

// TestLogin_Fail_EmailDesconhecido testa que o e-mail desconhecido responde
// com a mensagem genérica de credenciais.
func TestLogin_Fail_EmailDesconhecido(t *testing.T) {
	mockRepo := new(MockUsuarioRepository)
	mockTokenSvc := new(MockTokenService)

	svc := authservice.NewService(mockRepo, mockTokenSvc, logger.NewLogger("debug"))

	mockRepo.On("FindByEmail", mock.Anything, "ninguem@escola.com").
		Return(domain.Usuario{}, apperror.NewNotFoundError("Usuário não encontrado"))

	_, err := svc.Login(context.Background(), "ninguem@escola.com", "qualquer")

	var unauthorizedErr *apperror.UnauthorizedError
	assert.True(t, errors.As(err, &unauthorizedErr))
	assert.Equal(t, "E-mail ou senha inválidos", err.Error())
	mockTokenSvc.AssertNotCalled(t, "GenerateToken", mock.Anything, mock.Anything)
}

// TestLogin_Fail_SenhaIncorreta testa que a senha incorreta responde com a
// mesma mensagem genérica do e-mail desconhecido, impedindo a enumeração de
// contas.
func TestLogin_Fail_SenhaIncorreta(t *testing.T) {
	mockRepo := new(MockUsuarioRepository)
	mockTokenSvc := new(MockTokenService)

	svc := authservice.NewService(mockRepo, mockTokenSvc, logger.NewLogger("debug"))

	usuario := domain.Usuario{
		ID:        1,
		Email:     "admin@escola.com",
		SenhaHash: hashDe("Senha@Correta1"),
		Role:      domain.RoleAdmin,
	}

	mockRepo.On("FindByEmail", mock.Anything, "admin@escola.com").Return(usuario, nil)

	_, err := svc.Login(context.Background(), "admin@escola.com", "Senha@Errada1")

	var unauthorizedErr *apperror.UnauthorizedError
	assert.True(t, errors.As(err, &unauthorizedErr))
	assert.Equal(t, "E-mail ou senha inválidos", err.Error())
	mockTokenSvc.AssertNotCalled(t, "GenerateToken", mock.Anything, mock.Anything)
}

// TestLogin_Fail_ErroAoGerarToken testa a falha interna na emissão do token.
func TestLogin_Fail_ErroAoGerarToken(t *testing.T) {
	mockRepo := new(MockUsuarioRepository)
	mockTokenSvc := new(MockTokenService)

	svc := authservice.NewService(mockRepo, mockTokenSvc, logger.NewLogger("debug"))

	usuario := domain.Usuario{
		Email:     "admin@escola.com",
		SenhaHash: hashDe("Senha@Forte1"),
		Role:      domain.RoleAdmin,
	}

	mockRepo.On("FindByEmail", mock.Anything, "admin@escola.com").Return(usuario, nil)
	mockTokenSvc.On("GenerateToken", "admin@escola.com", domain.RoleAdmin).
		Return("", time.Time{}, errors.New("falha de assinatura"))

	_, err := svc.Login(context.Background(), "admin@escola.com", "Senha@Forte1")

	var internalErr *apperror.InternalError
	assert.True(t, errors.As(err, &internalErr))
}
