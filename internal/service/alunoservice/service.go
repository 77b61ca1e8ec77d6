package alunoservice

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"goescola/internal/domain"
	apperror "goescola/internal/errors"
	"goescola/internal/pkg/logger"
	"goescola/internal/validator"
)

// Service é a estrutura que implementa a interface domain.AlunoService.
type Service struct {
	repo   domain.AlunoRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Alunos.
func NewService(repo domain.AlunoRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// ListAlunos retorna uma página de alunos ordenada por nome. Páginas e
// tamanhos menores que 1 caem nos padrões (1, 10).
func (s *Service) ListAlunos(ctx context.Context, pageNumber, pageSize int) (domain.PaginatedResponse, error) {
	if pageNumber < 1 {
		pageNumber = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	alunos, totalCount, err := s.repo.FindAll(ctx, pageNumber, pageSize)
	if err != nil {
		s.logger.Error("Falha ao listar alunos no repositório.", err)
		return domain.PaginatedResponse{}, err
	}
	if alunos == nil {
		alunos = []domain.Aluno{}
	}

	return domain.NewPaginatedResponse(alunos, pageNumber, pageSize, totalCount), nil
}

// GetAlunoByID busca um aluno pelo ID.
func (s *Service) GetAlunoByID(ctx context.Context, id int) (domain.Aluno, error) {
	aluno, err := s.repo.FindByID(ctx, id)
	if err != nil {
		// Erros do repositório já são NotFoundError ou DBError
		return domain.Aluno{}, err
	}
	return aluno, nil
}

// SearchAlunosByNome busca alunos cujo nome contém o trecho informado.
func (s *Service) SearchAlunosByNome(ctx context.Context, nome string) ([]domain.Aluno, error) {
	alunos, err := s.repo.FindByNome(ctx, nome)
	if err != nil {
		s.logger.Error("Falha ao buscar alunos por nome no repositório.", err)
		return nil, err
	}
	if alunos == nil {
		alunos = []domain.Aluno{}
	}
	return alunos, nil
}

// SearchAlunoByCpf busca um aluno pelo CPF. Toda formatação do CPF de entrada
// é removida antes da consulta.
func (s *Service) SearchAlunoByCpf(ctx context.Context, cpf string) (domain.Aluno, error) {
	cpfLimpo := validator.StripCpf(cpf)

	aluno, err := s.repo.FindByCpf(ctx, cpfLimpo)
	if err != nil {
		return domain.Aluno{}, err
	}
	return aluno, nil
}

// CreateAluno cadastra um novo aluno. O CPF é armazenado sem formatação e a
// senha nunca é persistida em claro. As checagens de unicidade aqui são o
// caminho rápido; o índice único do banco cobre a corrida entre requisições
// concorrentes idênticas.
func (s *Service) CreateAluno(ctx context.Context, dto domain.AlunoCreate) (domain.Aluno, error) {
	cpfLimpo := validator.StripCpf(dto.Cpf)

	// 1. Verificar se o CPF já existe
	cpfExiste, err := s.repo.ExistsByCpf(ctx, cpfLimpo)
	if err != nil {
		s.logger.Error("Falha ao verificar CPF no repositório.", err)
		return domain.Aluno{}, err
	}
	if cpfExiste {
		return domain.Aluno{}, apperror.NewConflictError("CPF já cadastrado")
	}

	// 2. Verificar se o e-mail já existe
	emailExiste, err := s.repo.ExistsByEmail(ctx, dto.Email, 0)
	if err != nil {
		s.logger.Error("Falha ao verificar e-mail no repositório.", err)
		return domain.Aluno{}, err
	}
	if emailExiste {
		return domain.Aluno{}, apperror.NewConflictError("E-mail já cadastrado")
	}

	// 3. Hashing da senha
	senhaHash, err := bcrypt.GenerateFromPassword([]byte(dto.Senha), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("Falha ao gerar hash da senha.", err)
		return domain.Aluno{}, apperror.NewInternalError("Falha ao gerar hash da senha", err)
	}

	aluno := domain.Aluno{
		Nome:           dto.Nome,
		DataNascimento: dto.DataNascimento,
		Cpf:            cpfLimpo,
		Email:          dto.Email,
		SenhaHash:      string(senhaHash),
	}

	criado, err := s.repo.Save(ctx, aluno)
	if err != nil {
		return domain.Aluno{}, err
	}

	s.logger.Info("Aluno cadastrado.", map[string]interface{}{"id": criado.ID})
	return criado, nil
}

// UpdateAluno atualiza nome, data de nascimento e e-mail de um aluno. CPF e
// senha são imutáveis por este caminho. Falha com conflito se o novo e-mail
// pertencer a outro aluno; o próprio e-mail inalterado é aceito.
func (s *Service) UpdateAluno(ctx context.Context, id int, dto domain.AlunoUpdate) (domain.Aluno, error) {
	aluno, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Aluno{}, err
	}

	emailExiste, err := s.repo.ExistsByEmail(ctx, dto.Email, id)
	if err != nil {
		s.logger.Error("Falha ao verificar e-mail no repositório.", err)
		return domain.Aluno{}, err
	}
	if emailExiste {
		return domain.Aluno{}, apperror.NewConflictError("E-mail já cadastrado para outro aluno")
	}

	aluno.Nome = dto.Nome
	aluno.DataNascimento = dto.DataNascimento
	aluno.Email = dto.Email

	atualizado, err := s.repo.Update(ctx, aluno)
	if err != nil {
		return domain.Aluno{}, err
	}

	s.logger.Info("Aluno atualizado.", map[string]interface{}{"id": id})
	return atualizado, nil
}

// DeleteAluno remove fisicamente um aluno pelo ID.
func (s *Service) DeleteAluno(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Aluno removido.", map[string]interface{}{"id": id})
	return nil
}
