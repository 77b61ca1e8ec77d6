package domain

import (
	"context"
	"time"
)

// Aluno representa a entidade do aluno no sistema.
// O CPF é armazenado sempre sem formatação (11 dígitos).
type Aluno struct {
	ID             int       `json:"id"`
	Nome           string    `json:"nome"`
	DataNascimento time.Time `json:"dataNascimento"`
	Cpf            string    `json:"cpf"`
	Email          string    `json:"email"`
	SenhaHash      string    `json:"-"` // Oculta o hash da senha no JSON de resposta
	DataCadastro   time.Time `json:"dataCadastro"`
}

// AlunoCreate representa o payload de entrada para o cadastro de um aluno.
// As tags validate são avaliadas pelo pacote internal/validator.
type AlunoCreate struct {
	Nome           string    `json:"nome" validate:"required,min=3,max=100"`
	DataNascimento time.Time `json:"dataNascimento" validate:"required,datanasc"`
	Cpf            string    `json:"cpf" validate:"required,cpf"`
	Email          string    `json:"email" validate:"required,email,max=100"`
	Senha          string    `json:"senha" validate:"required,min=8,senhaforte"`
}

// AlunoUpdate representa o payload de atualização de um aluno.
// CPF e senha são imutáveis por este caminho.
type AlunoUpdate struct {
	Nome           string    `json:"nome" validate:"required,min=3,max=100"`
	DataNascimento time.Time `json:"dataNascimento" validate:"required,datanasc"`
	Email          string    `json:"email" validate:"required,email,max=100"`
}

// AlunoRepository define o contrato de persistência para a entidade Aluno.
type AlunoRepository interface {
	FindAll(ctx context.Context, pageNumber, pageSize int) ([]Aluno, int, error)
	FindByID(ctx context.Context, id int) (Aluno, error)
	FindByNome(ctx context.Context, nome string) ([]Aluno, error)
	FindByCpf(ctx context.Context, cpf string) (Aluno, error)
	ExistsByCpf(ctx context.Context, cpf string) (bool, error)
	ExistsByEmail(ctx context.Context, email string, excludeID int) (bool, error)
	Save(ctx context.Context, aluno Aluno) (Aluno, error)
	Update(ctx context.Context, aluno Aluno) (Aluno, error)
	Delete(ctx context.Context, id int) error
}

// AlunoService define o contrato de lógica de negócio para a entidade Aluno.
type AlunoService interface {
	ListAlunos(ctx context.Context, pageNumber, pageSize int) (PaginatedResponse, error)
	GetAlunoByID(ctx context.Context, id int) (Aluno, error)
	SearchAlunosByNome(ctx context.Context, nome string) ([]Aluno, error)
	SearchAlunoByCpf(ctx context.Context, cpf string) (Aluno, error)
	CreateAluno(ctx context.Context, dto AlunoCreate) (Aluno, error)
	UpdateAluno(ctx context.Context, id int, dto AlunoUpdate) (Aluno, error)
	DeleteAluno(ctx context.Context, id int) error
}
