package authservice

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"goescola/internal/domain"
	apperror "goescola/internal/errors"
	"goescola/internal/pkg/logger"
	"goescola/internal/pkg/token"
)

// TokenService é o contrato da camada de token (internal/pkg/token).
type TokenService interface {
	GenerateToken(email string, role string) (string, time.Time, error)
	ValidateToken(tokenString string) (*token.CustomClaims, error)
}

// Service autentica contas de administrador e emite o token de acesso.
// Nenhum estado de sessão é mantido do lado do servidor: o token é uma
// credencial bearer autocontida apresentada em cada chamada subsequente.
type Service struct {
	usuarioRepo domain.UsuarioRepository
	tokenSvc    TokenService
	logger      logger.Logger
}

// NewService cria uma nova instância do serviço de autenticação.
func NewService(usuarioRepo domain.UsuarioRepository, tokenSvc TokenService, logger logger.Logger) *Service {
	return &Service{
		usuarioRepo: usuarioRepo,
		tokenSvc:    tokenSvc,
		logger:      logger,
	}
}

// mensagem única para e-mail desconhecido e senha incorreta, para não
// permitir enumeração de contas
const msgCredenciaisInvalidas = "E-mail ou senha inválidos"

// Login verifica as credenciais e, em caso de sucesso, emite um JWT com
// validade de 8 horas contendo e-mail, role e um jti único.
func (s *Service) Login(ctx context.Context, email, senha string) (domain.LoginResponse, error) {
	// 1. Buscar a conta pelo e-mail
	usuario, err := s.usuarioRepo.FindByEmail(ctx, email)
	if err != nil {
		var notFoundErr *apperror.NotFoundError
		if errors.As(err, &notFoundErr) {
			s.logger.Debug("Tentativa de login com e-mail desconhecido.", nil)
			return domain.LoginResponse{}, apperror.NewUnauthorizedError(msgCredenciaisInvalidas)
		}
		return domain.LoginResponse{}, err
	}

	// 2. Comparar a senha com o hash salvo (comparação em tempo constante)
	if err := bcrypt.CompareHashAndPassword([]byte(usuario.SenhaHash), []byte(senha)); err != nil {
		s.logger.Debug("Tentativa de login com senha incorreta.", map[string]interface{}{"email": email})
		return domain.LoginResponse{}, apperror.NewUnauthorizedError(msgCredenciaisInvalidas)
	}

	// 3. Emitir o token
	tokenString, expiresAt, err := s.tokenSvc.GenerateToken(usuario.Email, usuario.Role)
	if err != nil {
		s.logger.Error("Falha ao gerar token de autenticação.", err)
		return domain.LoginResponse{}, apperror.NewInternalError("Falha ao gerar token de autenticação", err)
	}

	s.logger.Info("Login efetuado.", map[string]interface{}{"email": usuario.Email})
	return domain.LoginResponse{
		Token:     tokenString,
		Email:     usuario.Email,
		ExpiresAt: expiresAt,
	}, nil
}
