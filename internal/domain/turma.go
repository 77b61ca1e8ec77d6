package domain

import (
	"context"
	"time"
)

// Turma representa uma turma (classe) do sistema.
// QuantidadeAlunos é derivada em tempo de consulta a partir das matrículas,
// nunca armazenada na tabela.
type Turma struct {
	ID               int       `json:"id"`
	Nome             string    `json:"nome"`
	Descricao        string    `json:"descricao"`
	QuantidadeAlunos int       `json:"quantidadeAlunos"`
	DataCadastro     time.Time `json:"dataCadastro"`
}

// TurmaCreate representa o payload de entrada para o cadastro de uma turma.
type TurmaCreate struct {
	Nome      string `json:"nome" validate:"required,min=3,max=100"`
	Descricao string `json:"descricao" validate:"required,min=10,max=250"`
}

// TurmaUpdate representa o payload de atualização de uma turma.
type TurmaUpdate struct {
	Nome      string `json:"nome" validate:"required,min=3,max=100"`
	Descricao string `json:"descricao" validate:"required,min=10,max=250"`
}

// TurmaRepository define o contrato de persistência para a entidade Turma.
type TurmaRepository interface {
	FindAll(ctx context.Context, pageNumber, pageSize int) ([]Turma, int, error)
	FindByID(ctx context.Context, id int) (Turma, error)
	Exists(ctx context.Context, id int) (bool, error)
	Save(ctx context.Context, turma Turma) (Turma, error)
	Update(ctx context.Context, turma Turma) (Turma, error)
	Delete(ctx context.Context, id int) error
}

// TurmaService define o contrato de lógica de negócio para a entidade Turma.
type TurmaService interface {
	ListTurmas(ctx context.Context, pageNumber, pageSize int) (PaginatedResponse, error)
	GetTurmaByID(ctx context.Context, id int) (Turma, error)
	CreateTurma(ctx context.Context, dto TurmaCreate) (Turma, error)
	UpdateTurma(ctx context.Context, id int, dto TurmaUpdate) (Turma, error)
	DeleteTurma(ctx context.Context, id int) error
}
