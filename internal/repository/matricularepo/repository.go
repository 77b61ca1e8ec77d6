package matricularepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"goescola/internal/domain"
	apperror "goescola/internal/errors"
	"goescola/internal/pkg/logger"
)

// MatriculaRepository implementa a interface domain.MatriculaRepository sobre
// o PostgreSQL. As leituras fazem join com alunos e turmas para que a resposta
// carregue os nomes de exibição.
type MatriculaRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewMatriculaRepository cria e retorna uma nova instância do Repositório de Matrículas.
func NewMatriculaRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *MatriculaRepository {
	return &MatriculaRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// Save persiste a matrícula e resolve os nomes do aluno e da turma no momento
// da escrita. O índice único (aluno_id, turma_id) é o guardião autoritativo
// contra matrículas duplicadas sob requisições concorrentes idênticas.
func (r *MatriculaRepository) Save(ctx context.Context, alunoID, turmaID int) (domain.Matricula, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        WITH inserida AS (
            INSERT INTO matriculas (aluno_id, turma_id)
            VALUES ($1, $2)
            RETURNING id, aluno_id, turma_id, data_matricula
        )
        SELECT i.id, i.aluno_id, a.nome, i.turma_id, t.nome, i.data_matricula
        FROM inserida i
        JOIN alunos a ON a.id = i.aluno_id
        JOIN turmas t ON t.id = i.turma_id`

	var m domain.Matricula
	err := r.DB.QueryRowContext(ctxTimeout, query, alunoID, turmaID).Scan(
		&m.ID, &m.AlunoID, &m.NomeAluno, &m.TurmaID, &m.NomeTurma, &m.DataMatricula,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			r.logger.Warn("Matrícula duplicada barrada pelo índice único.",
				map[string]interface{}{"aluno_id": alunoID, "turma_id": turmaID})
			return domain.Matricula{}, apperror.NewConflictError("Aluno já está matriculado nesta turma")
		}
		r.logger.Error("Falha ao inserir matrícula no DB.", err)
		return domain.Matricula{}, apperror.NewDBError("Falha ao criar matrícula", err)
	}

	r.logger.Info("Matrícula criada com sucesso.",
		map[string]interface{}{"id": m.ID, "aluno_id": alunoID, "turma_id": turmaID})
	return m, nil
}

// FindByID busca uma matrícula pelo ID, com os nomes de aluno e turma.
func (r *MatriculaRepository) FindByID(ctx context.Context, id int) (domain.Matricula, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT m.id, m.aluno_id, a.nome, m.turma_id, t.nome, m.data_matricula
        FROM matriculas m
        JOIN alunos a ON a.id = m.aluno_id
        JOIN turmas t ON t.id = m.turma_id
        WHERE m.id = $1`

	var m domain.Matricula
	err := r.DB.QueryRowContext(ctxTimeout, query, id).Scan(
		&m.ID, &m.AlunoID, &m.NomeAluno, &m.TurmaID, &m.NomeTurma, &m.DataMatricula,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Matricula{}, apperror.NewNotFoundError("Matrícula não encontrada")
	}
	if err != nil {
		r.logger.Error("Falha ao buscar matrícula no DB.", err)
		return domain.Matricula{}, apperror.NewDBError("Falha ao buscar matrícula", err)
	}

	return m, nil
}

// FindByTurma retorna todas as matrículas da turma, ordenadas pelo nome do aluno.
func (r *MatriculaRepository) FindByTurma(ctx context.Context, turmaID int) ([]domain.Matricula, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT m.id, m.aluno_id, a.nome, m.turma_id, t.nome, m.data_matricula
        FROM matriculas m
        JOIN alunos a ON a.id = m.aluno_id
        JOIN turmas t ON t.id = m.turma_id
        WHERE m.turma_id = $1
        ORDER BY a.nome`

	rows, err := r.DB.QueryContext(ctxTimeout, query, turmaID)
	if err != nil {
		r.logger.Error("Falha ao buscar matrículas da turma no DB.", err)
		return nil, apperror.NewDBError("Falha ao buscar matrículas da turma", err)
	}
	defer rows.Close()

	var matriculas []domain.Matricula
	for rows.Next() {
		var m domain.Matricula
		err := rows.Scan(&m.ID, &m.AlunoID, &m.NomeAluno, &m.TurmaID, &m.NomeTurma, &m.DataMatricula)
		if err != nil {
			r.logger.Error("Falha ao mapear matrícula na iteração de FindByTurma.", err)
			return nil, apperror.NewDBError("Falha ao mapear matrículas do DB", err)
		}
		matriculas = append(matriculas, m)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Erro após iteração das linhas de matrículas.", err)
		return nil, apperror.NewDBError("Erro após iteração de matrículas", err)
	}

	return matriculas, nil
}

// ExistsByAlunoTurma verifica se o par (aluno, turma) já está matriculado.
func (r *MatriculaRepository) ExistsByAlunoTurma(ctx context.Context, alunoID, turmaID int) (bool, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var exists bool
	err := r.DB.QueryRowContext(ctxTimeout,
		`SELECT EXISTS(SELECT 1 FROM matriculas WHERE aluno_id = $1 AND turma_id = $2)`,
		alunoID, turmaID).Scan(&exists)
	if err != nil {
		r.logger.Error("Falha ao verificar existência de matrícula no DB.", err)
		return false, apperror.NewDBError("Falha ao verificar matrícula", err)
	}
	return exists, nil
}

// Delete remove a matrícula pelo ID.
func (r *MatriculaRepository) Delete(ctx context.Context, id int) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM matriculas WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao deletar matrícula do DB.", err)
		return apperror.NewDBError("Falha ao deletar matrícula", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.logger.Error("Falha ao verificar linhas afetadas após Delete de matrícula.", err)
		return apperror.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return apperror.NewNotFoundError("Matrícula não encontrada")
	}

	r.logger.Info("Matrícula deletada com sucesso.", map[string]interface{}{"id": id})
	return nil
}
