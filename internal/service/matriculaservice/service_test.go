package matriculaservice_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"goescola/internal/domain"
	apperror "goescola/internal/errors"
	"goescola/internal/pkg/logger"
	"goescola/internal/service/matriculaservice"
)

// MockMatriculaRepository é uma implementação mock da interface MatriculaRepository
type MockMatriculaRepository struct {
	mock.Mock
}

func (m *MockMatriculaRepository) Save(ctx context.Context, alunoID, turmaID int) (domain.Matricula, error) {
	args := m.Called(ctx, alunoID, turmaID)
	return args.Get(0).(domain.Matricula), args.Error(1)
}

func (m *MockMatriculaRepository) FindByID(ctx context.Context, id int) (domain.Matricula, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Matricula), args.Error(1)
}

func (m *MockMatriculaRepository) FindByTurma(ctx context.Context, turmaID int) ([]domain.Matricula, error) {
	args := m.Called(ctx, turmaID)
	return args.Get(0).([]domain.Matricula), args.Error(1)
}

func (m *MockMatriculaRepository) ExistsByAlunoTurma(ctx context.Context, alunoID, turmaID int) (bool, error) {
	args := m.Called(ctx, alunoID, turmaID)
	return args.Bool(0), args.Error(1)
}

func (m *MockMatriculaRepository) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAlunoRepository cobre apenas o que o serviço de matrículas usa.
type MockAlunoRepository struct {
	mock.Mock
}

func (m *MockAlunoRepository) FindAll(ctx context.Context, pageNumber, pageSize int) ([]domain.Aluno, int, error) {
	args := m.Called(ctx, pageNumber, pageSize)
	return args.Get(0).([]domain.Aluno), args.Int(1), args.Error(2)
}

func (m *MockAlunoRepository) FindByID(ctx context.Context, id int) (domain.Aluno, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Aluno), args.Error(1)
}

func (m *MockAlunoRepository) FindByNome(ctx context.Context, nome string) ([]domain.Aluno, error) {
	args := m.Called(ctx, nome)
	return args.Get(0).([]domain.Aluno), args.Error(1)
}

func (m *MockAlunoRepository) FindByCpf(ctx context.Context, cpf string) (domain.Aluno, error) {
	args := m.Called(ctx, cpf)
	return args.Get(0).(domain.Aluno), args.Error(1)
}

func (m *MockAlunoRepository) ExistsByCpf(ctx context.Context, cpf string) (bool, error) {
	args := m.Called(ctx, cpf)
	return args.Bool(0), args.Error(1)
}

func (m *MockAlunoRepository) ExistsByEmail(ctx context.Context, email string, excludeID int) (bool, error) {
	args := m.Called(ctx, email, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAlunoRepository) Save(ctx context.Context, aluno domain.Aluno) (domain.Aluno, error) {
	args := m.Called(ctx, aluno)
	return args.Get(0).(domain.Aluno), args.Error(1)
}

func (m *MockAlunoRepository) Update(ctx context.Context, aluno domain.Aluno) (domain.Aluno, error) {
	args := m.Called(ctx, aluno)
	return args.Get(0).(domain.Aluno), args.Error(1)
}

func (m *MockAlunoRepository) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTurmaRepository cobre apenas o que o serviço de matrículas usa.
type MockTurmaRepository struct {
	mock.Mock
}

func (m *MockTurmaRepository) FindAll(ctx context.Context, pageNumber, pageSize int) ([]domain.Turma, int, error) {
	args := m.Called(ctx, pageNumber, pageSize)
	return args.Get(0).([]domain.Turma), args.Int(1), args.Error(2)
}

func (m *MockTurmaRepository) FindByID(ctx context.Context, id int) (domain.Turma, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Turma), args.Error(1)
}

func (m *MockTurmaRepository) Exists(ctx context.Context, id int) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockTurmaRepository) Save(ctx context.Context, turma domain.Turma) (domain.Turma, error) {
	args := m.Called(ctx, turma)
	return args.Get(0).(domain.Turma), args.Error(1)
}

func (m *MockTurmaRepository) Update(ctx context.Context, turma domain.Turma) (domain.Turma, error) {
	args := m.Called(ctx, turma)
	return args.Get(0).(domain.Turma), args.Error(1)
}

func (m *MockTurmaRepository) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func novoServico() (*matriculaservice.Service, *MockMatriculaRepository, *MockAlunoRepository, *MockTurmaRepository) {
	mockRepo := new(MockMatriculaRepository)
	mockAlunoRepo := new(MockAlunoRepository)
	mockTurmaRepo := new(MockTurmaRepository)
	svc := matriculaservice.NewService(mockRepo, mockAlunoRepo, mockTurmaRepo, logger.NewLogger("debug"))
	return svc, mockRepo, mockAlunoRepo, mockTurmaRepo
}

// TestCreateMatricula_Success testa o caminho feliz da matrícula com os nomes
// resolvidos na resposta.
func TestCreateMatricula_Success(t *testing.T) {
	svc, mockRepo, mockAlunoRepo, mockTurmaRepo := novoServico()

	dto := domain.MatriculaCreate{AlunoID: 1, TurmaID: 2}
	esperada := domain.Matricula{
		ID:            10,
		AlunoID:       1,
		NomeAluno:     "Ana",
		TurmaID:       2,
		NomeTurma:     "Turma B",
		DataMatricula: time.Now(),
	}

	mockAlunoRepo.On("FindByID", mock.Anything, 1).Return(domain.Aluno{ID: 1, Nome: "Ana"}, nil)
	mockTurmaRepo.On("Exists", mock.Anything, 2).Return(true, nil)
	mockRepo.On("ExistsByAlunoTurma", mock.Anything, 1, 2).Return(false, nil)
	mockRepo.On("Save", mock.Anything, 1, 2).Return(esperada, nil)

	matricula, err := svc.CreateMatricula(context.Background(), dto)

	assert.NoError(t, err)
	assert.Equal(t, esperada, matricula)
	mockRepo.AssertExpectations(t)
	mockAlunoRepo.AssertExpectations(t)
	mockTurmaRepo.AssertExpectations(t)
}

// TestCreateMatricula_Fail_AlunoInexistente testa que o aluno inexistente
// interrompe a cadeia antes da consulta de turma.
func TestCreateMatricula_Fail_AlunoInexistente(t *testing.T) {
	svc, mockRepo, mockAlunoRepo, mockTurmaRepo := novoServico()

	mockAlunoRepo.On("FindByID", mock.Anything, 9).
		Return(domain.Aluno{}, apperror.NewNotFoundError("Aluno não encontrado"))

	_, err := svc.CreateMatricula(context.Background(), domain.MatriculaCreate{AlunoID: 9, TurmaID: 2})

	var validationErr *apperror.ValidationError
	assert.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "Aluno não encontrado", err.Error())
	mockTurmaRepo.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

// TestCreateMatricula_Fail_TurmaInexistente testa que a turma inexistente
// interrompe a cadeia antes da checagem de duplicidade.
func TestCreateMatricula_Fail_TurmaInexistente(t *testing.T) {
	svc, mockRepo, mockAlunoRepo, mockTurmaRepo := novoServico()

	mockAlunoRepo.On("FindByID", mock.Anything, 1).Return(domain.Aluno{ID: 1}, nil)
	mockTurmaRepo.On("Exists", mock.Anything, 8).Return(false, nil)

	_, err := svc.CreateMatricula(context.Background(), domain.MatriculaCreate{AlunoID: 1, TurmaID: 8})

	var validationErr *apperror.ValidationError
	assert.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "Turma não encontrada", err.Error())
	mockRepo.AssertNotCalled(t, "ExistsByAlunoTurma", mock.Anything, mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

// TestCreateMatricula_Fail_Duplicada testa o conflito quando o aluno já está
// matriculado na turma.
func TestCreateMatricula_Fail_Duplicada(t *testing.T) {
	svc, mockRepo, mockAlunoRepo, mockTurmaRepo := novoServico()

	mockAlunoRepo.On("FindByID", mock.Anything, 1).Return(domain.Aluno{ID: 1}, nil)
	mockTurmaRepo.On("Exists", mock.Anything, 2).Return(true, nil)
	mockRepo.On("ExistsByAlunoTurma", mock.Anything, 1, 2).Return(true, nil)

	_, err := svc.CreateMatricula(context.Background(), domain.MatriculaCreate{AlunoID: 1, TurmaID: 2})

	var conflictErr *apperror.ConflictError
	assert.True(t, errors.As(err, &conflictErr))
	assert.Equal(t, "Aluno já está matriculado nesta turma", err.Error())
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

// TestGetMatriculasByTurma_Success_TurmaDesconhecida testa que a listagem de
// uma turma desconhecida responde lista vazia, igual a uma turma sem
// matrículas, sem erro de não encontrado.
func TestGetMatriculasByTurma_Success_TurmaDesconhecida(t *testing.T) {
	svc, mockRepo, _, mockTurmaRepo := novoServico()

	mockRepo.On("FindByTurma", mock.Anything, 77).Return([]domain.Matricula(nil), nil)

	matriculas, err := svc.GetMatriculasByTurma(context.Background(), 77)

	assert.NoError(t, err)
	assert.NotNil(t, matriculas)
	assert.Len(t, matriculas, 0)
	mockTurmaRepo.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

// TestGetMatriculasByTurma_Success_Vazia testa que uma turma sem matrículas
// retorna lista vazia, nunca nil.
func TestGetMatriculasByTurma_Success_Vazia(t *testing.T) {
	svc, mockRepo, _, _ := novoServico()

	mockRepo.On("FindByTurma", mock.Anything, 2).Return([]domain.Matricula(nil), nil)

	matriculas, err := svc.GetMatriculasByTurma(context.Background(), 2)

	assert.NoError(t, err)
	assert.NotNil(t, matriculas)
	assert.Len(t, matriculas, 0)
}

// TestDeleteMatricula_Fail_NaoEncontrada testa a remoção de uma matrícula
// inexistente.
func TestDeleteMatricula_Fail_NaoEncontrada(t *testing.T) {
	svc, mockRepo, _, _ := novoServico()

	mockRepo.On("Delete", mock.Anything, 30).
		Return(apperror.NewNotFoundError("Matrícula não encontrada"))

	err := svc.DeleteMatricula(context.Background(), 30)

	var notFoundErr *apperror.NotFoundError
	assert.True(t, errors.As(err, &notFoundErr))
	mockRepo.AssertExpectations(t)
}
