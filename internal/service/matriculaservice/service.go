package matriculaservice

import (
	"context"
	"errors"

	"goescola/internal/domain"
	apperror "goescola/internal/errors"
	"goescola/internal/pkg/logger"
)

// Service é a estrutura que implementa a interface domain.MatriculaService.
// As referências cruzadas (aluno, turma) são ids com checagem explícita de
// existência na fronteira do serviço, sem navegação de grafo de objetos.
type Service struct {
	repo      domain.MatriculaRepository
	alunoRepo domain.AlunoRepository
	turmaRepo domain.TurmaRepository
	logger    logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Matrículas.
func NewService(repo domain.MatriculaRepository, alunoRepo domain.AlunoRepository, turmaRepo domain.TurmaRepository, logger logger.Logger) *Service {
	return &Service{
		repo:      repo,
		alunoRepo: alunoRepo,
		turmaRepo: turmaRepo,
		logger:    logger,
	}
}

// CreateMatricula matricula um aluno em uma turma. As checagens seguem esta
// ordem, com curto-circuito na primeira falha: aluno existe, turma existe,
// par ainda não matriculado. A pré-checagem do par é o caminho rápido; o
// índice único do banco decide a corrida entre requisições concorrentes.
func (s *Service) CreateMatricula(ctx context.Context, dto domain.MatriculaCreate) (domain.Matricula, error) {
	// 1. Verificar se o aluno existe
	if _, err := s.alunoRepo.FindByID(ctx, dto.AlunoID); err != nil {
		var notFoundErr *apperror.NotFoundError
		if errors.As(err, &notFoundErr) {
			// A referência inválida no payload responde 400, não 404
			return domain.Matricula{}, apperror.NewValidationError("Aluno não encontrado")
		}
		s.logger.Error("Falha ao verificar aluno no repositório.", err)
		return domain.Matricula{}, err
	}

	// 2. Verificar se a turma existe
	turmaExiste, err := s.turmaRepo.Exists(ctx, dto.TurmaID)
	if err != nil {
		s.logger.Error("Falha ao verificar turma no repositório.", err)
		return domain.Matricula{}, err
	}
	if !turmaExiste {
		return domain.Matricula{}, apperror.NewValidationError("Turma não encontrada")
	}

	// 3. Verificar se o aluno já está matriculado na turma
	matriculado, err := s.repo.ExistsByAlunoTurma(ctx, dto.AlunoID, dto.TurmaID)
	if err != nil {
		s.logger.Error("Falha ao verificar matrícula existente no repositório.", err)
		return domain.Matricula{}, err
	}
	if matriculado {
		return domain.Matricula{}, apperror.NewConflictError("Aluno já está matriculado nesta turma")
	}

	matricula, err := s.repo.Save(ctx, dto.AlunoID, dto.TurmaID)
	if err != nil {
		return domain.Matricula{}, err
	}

	s.logger.Info("Matrícula efetuada.",
		map[string]interface{}{"id": matricula.ID, "aluno_id": dto.AlunoID, "turma_id": dto.TurmaID})
	return matricula, nil
}

// GetMatriculaByID busca uma matrícula pelo ID.
func (s *Service) GetMatriculaByID(ctx context.Context, id int) (domain.Matricula, error) {
	matricula, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Matricula{}, err
	}
	return matricula, nil
}

// GetMatriculasByTurma retorna todas as matrículas da turma, ordenadas pelo
// nome do aluno. Uma turma desconhecida não é erro: responde lista vazia,
// igual a uma turma sem matrículas.
func (s *Service) GetMatriculasByTurma(ctx context.Context, turmaID int) ([]domain.Matricula, error) {
	matriculas, err := s.repo.FindByTurma(ctx, turmaID)
	if err != nil {
		s.logger.Error("Falha ao listar matrículas da turma no repositório.", err)
		return nil, err
	}
	if matriculas == nil {
		matriculas = []domain.Matricula{}
	}
	return matriculas, nil
}

// DeleteMatricula remove uma matrícula pelo ID.
func (s *Service) DeleteMatricula(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Matrícula removida.", map[string]interface{}{"id": id})
	return nil
}
