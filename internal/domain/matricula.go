package domain

import (
	"context"
	"time"
)

// Matricula representa o vínculo de um aluno com uma turma.
// NomeAluno e NomeTurma são resolvidos por join no momento da leitura/escrita,
// para que a resposta seja autocontida sem navegação de objetos entre serviços.
type Matricula struct {
	ID            int       `json:"id"`
	AlunoID       int       `json:"alunoId"`
	NomeAluno     string    `json:"nomeAluno"`
	TurmaID       int       `json:"turmaId"`
	NomeTurma     string    `json:"nomeTurma"`
	DataMatricula time.Time `json:"dataMatricula"`
}

// MatriculaCreate representa o payload de entrada para matricular um aluno.
type MatriculaCreate struct {
	AlunoID int `json:"alunoId" validate:"required,gt=0"`
	TurmaID int `json:"turmaId" validate:"required,gt=0"`
}

// MatriculaRepository define o contrato de persistência para a entidade Matricula.
type MatriculaRepository interface {
	Save(ctx context.Context, alunoID, turmaID int) (Matricula, error)
	FindByID(ctx context.Context, id int) (Matricula, error)
	FindByTurma(ctx context.Context, turmaID int) ([]Matricula, error)
	ExistsByAlunoTurma(ctx context.Context, alunoID, turmaID int) (bool, error)
	Delete(ctx context.Context, id int) error
}

// MatriculaService define o contrato de lógica de negócio para matrículas.
type MatriculaService interface {
	CreateMatricula(ctx context.Context, dto MatriculaCreate) (Matricula, error)
	GetMatriculaByID(ctx context.Context, id int) (Matricula, error)
	GetMatriculasByTurma(ctx context.Context, turmaID int) ([]Matricula, error)
	DeleteMatricula(ctx context.Context, id int) error
}
