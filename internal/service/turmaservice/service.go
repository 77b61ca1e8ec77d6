package turmaservice

import (
	"context"

	"goescola/internal/domain"
	"goescola/internal/pkg/logger"
)

// Service é a estrutura que implementa a interface domain.TurmaService.
// A quantidade de alunos de cada turma é sempre derivada em tempo de consulta
// pelo repositório, para nunca servir um valor obsoleto.
type Service struct {
	repo   domain.TurmaRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Turmas.
func NewService(repo domain.TurmaRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// ListTurmas retorna uma página de turmas ordenada por nome, cada uma com sua
// contagem de matrículas.
func (s *Service) ListTurmas(ctx context.Context, pageNumber, pageSize int) (domain.PaginatedResponse, error) {
	if pageNumber < 1 {
		pageNumber = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	turmas, totalCount, err := s.repo.FindAll(ctx, pageNumber, pageSize)
	if err != nil {
		s.logger.Error("Falha ao listar turmas no repositório.", err)
		return domain.PaginatedResponse{}, err
	}
	if turmas == nil {
		turmas = []domain.Turma{}
	}

	return domain.NewPaginatedResponse(turmas, pageNumber, pageSize, totalCount), nil
}

// GetTurmaByID busca uma turma pelo ID, com a contagem de matrículas.
func (s *Service) GetTurmaByID(ctx context.Context, id int) (domain.Turma, error) {
	turma, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Turma{}, err
	}
	return turma, nil
}

// CreateTurma cadastra uma nova turma. Não há unicidade de nome; a contagem
// de alunos inicia em zero.
func (s *Service) CreateTurma(ctx context.Context, dto domain.TurmaCreate) (domain.Turma, error) {
	turma := domain.Turma{
		Nome:      dto.Nome,
		Descricao: dto.Descricao,
	}

	criada, err := s.repo.Save(ctx, turma)
	if err != nil {
		return domain.Turma{}, err
	}

	s.logger.Info("Turma cadastrada.", map[string]interface{}{"id": criada.ID, "nome": criada.Nome})
	return criada, nil
}

// UpdateTurma sobrescreve nome e descrição; a resposta traz a contagem de
// matrículas recalculada.
func (s *Service) UpdateTurma(ctx context.Context, id int, dto domain.TurmaUpdate) (domain.Turma, error) {
	turma := domain.Turma{
		ID:        id,
		Nome:      dto.Nome,
		Descricao: dto.Descricao,
	}

	atualizada, err := s.repo.Update(ctx, turma)
	if err != nil {
		return domain.Turma{}, err
	}

	s.logger.Info("Turma atualizada.", map[string]interface{}{"id": id})
	return atualizada, nil
}

// DeleteTurma remove uma turma pelo ID.
func (s *Service) DeleteTurma(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Turma removida.", map[string]interface{}{"id": id})
	return nil
}
