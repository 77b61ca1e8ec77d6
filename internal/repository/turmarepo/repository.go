package turmarepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"goescola/internal/domain"
	apperror "goescola/internal/errors"
	"goescola/internal/pkg/logger"
)

// TurmaRepository implementa a interface domain.TurmaRepository sobre o
// PostgreSQL. A quantidade de alunos é sempre agregada em tempo de consulta
// sobre a tabela de matrículas, nunca materializada na turma.
type TurmaRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewTurmaRepository cria e retorna uma nova instância do Repositório de Turmas.
func NewTurmaRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *TurmaRepository {
	return &TurmaRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// FindAll retorna uma página de turmas ordenada por nome, com a contagem de
// matrículas de cada turma, e o total de registros.
func (r *TurmaRepository) FindAll(ctx context.Context, pageNumber, pageSize int) ([]domain.Turma, int, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var totalCount int
	if err := r.DB.QueryRowContext(ctxTimeout, `SELECT COUNT(*) FROM turmas`).Scan(&totalCount); err != nil {
		r.logger.Error("Falha ao contar turmas no DB.", err)
		return nil, 0, apperror.NewDBError("Falha ao contar turmas", err)
	}

	query := `
        SELECT t.id, t.nome, t.descricao, COUNT(m.id), t.data_cadastro
        FROM turmas t
        LEFT JOIN matriculas m ON m.turma_id = t.id
        GROUP BY t.id
        ORDER BY t.nome
        LIMIT $1 OFFSET $2`

	offset := (pageNumber - 1) * pageSize
	rows, err := r.DB.QueryContext(ctxTimeout, query, pageSize, offset)
	if err != nil {
		r.logger.Error("Falha ao executar FindAll de turmas.", err)
		return nil, 0, apperror.NewDBError("Falha ao buscar turmas", err)
	}
	defer rows.Close()

	var turmas []domain.Turma
	for rows.Next() {
		var turma domain.Turma
		err := rows.Scan(&turma.ID, &turma.Nome, &turma.Descricao, &turma.QuantidadeAlunos, &turma.DataCadastro)
		if err != nil {
			r.logger.Error("Falha ao mapear turma na iteração de FindAll.", err)
			return nil, 0, apperror.NewDBError("Falha ao mapear turmas do DB", err)
		}
		turmas = append(turmas, turma)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Erro após iteração das linhas de turmas.", err)
		return nil, 0, apperror.NewDBError("Erro após iteração de turmas", err)
	}

	r.logger.Debug("FindAll de turmas concluído.", map[string]interface{}{"total": totalCount, "page": pageNumber})
	return turmas, totalCount, nil
}

// FindByID busca uma turma pelo ID, com a contagem de matrículas derivada.
func (r *TurmaRepository) FindByID(ctx context.Context, id int) (domain.Turma, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT t.id, t.nome, t.descricao, COUNT(m.id), t.data_cadastro
        FROM turmas t
        LEFT JOIN matriculas m ON m.turma_id = t.id
        WHERE t.id = $1
        GROUP BY t.id`

	var turma domain.Turma
	err := r.DB.QueryRowContext(ctxTimeout, query, id).Scan(
		&turma.ID, &turma.Nome, &turma.Descricao, &turma.QuantidadeAlunos, &turma.DataCadastro,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Turma{}, apperror.NewNotFoundError("Turma não encontrada")
	}
	if err != nil {
		r.logger.Error("Falha ao buscar turma no DB.", err)
		return domain.Turma{}, apperror.NewDBError("Falha ao buscar turma", err)
	}

	return turma, nil
}

// Exists verifica se a turma existe.
func (r *TurmaRepository) Exists(ctx context.Context, id int) (bool, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var exists bool
	err := r.DB.QueryRowContext(ctxTimeout,
		`SELECT EXISTS(SELECT 1 FROM turmas WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		r.logger.Error("Falha ao verificar existência de turma no DB.", err)
		return false, apperror.NewDBError("Falha ao verificar turma", err)
	}
	return exists, nil
}

// Save insere uma nova turma. A contagem de alunos de uma turma recém-criada
// é sempre zero.
func (r *TurmaRepository) Save(ctx context.Context, turma domain.Turma) (domain.Turma, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        INSERT INTO turmas (nome, descricao)
        VALUES ($1, $2)
        RETURNING id, data_cadastro`

	err := r.DB.QueryRowContext(ctxTimeout, query, turma.Nome, turma.Descricao).
		Scan(&turma.ID, &turma.DataCadastro)
	if err != nil {
		r.logger.Error("Falha ao inserir turma no DB.", err)
		return domain.Turma{}, apperror.NewDBError("Falha ao criar turma", err)
	}

	turma.QuantidadeAlunos = 0

	r.logger.Info("Turma criada com sucesso.", map[string]interface{}{"id": turma.ID, "nome": turma.Nome})
	return turma, nil
}

// Update sobrescreve nome e descrição da turma e recarrega a contagem de
// matrículas para a resposta.
func (r *TurmaRepository) Update(ctx context.Context, turma domain.Turma) (domain.Turma, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        UPDATE turmas
        SET nome = $1, descricao = $2
        WHERE id = $3
        RETURNING id, nome, descricao, data_cadastro,
            (SELECT COUNT(*) FROM matriculas m WHERE m.turma_id = turmas.id)`

	err := r.DB.QueryRowContext(ctxTimeout, query, turma.Nome, turma.Descricao, turma.ID).Scan(
		&turma.ID, &turma.Nome, &turma.Descricao, &turma.DataCadastro, &turma.QuantidadeAlunos,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Turma{}, apperror.NewNotFoundError("Turma não encontrada")
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar turma no DB.", err)
		return domain.Turma{}, apperror.NewDBError("Falha ao atualizar turma", err)
	}

	r.logger.Info("Turma atualizada com sucesso.", map[string]interface{}{"id": turma.ID, "nome": turma.Nome})
	return turma, nil
}

// Delete remove a turma pelo ID. As matrículas associadas são removidas em
// cascata pela foreign key.
func (r *TurmaRepository) Delete(ctx context.Context, id int) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM turmas WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao deletar turma do DB.", err)
		return apperror.NewDBError("Falha ao deletar turma", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.logger.Error("Falha ao verificar linhas afetadas após Delete de turma.", err)
		return apperror.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return apperror.NewNotFoundError("Turma não encontrada")
	}

	r.logger.Info("Turma deletada com sucesso.", map[string]interface{}{"id": id})
	return nil
}
