package alunorepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"goescola/internal/domain"
	apperror "goescola/internal/errors"
	"goescola/internal/pkg/cache"
	"goescola/internal/pkg/logger"
)

// Chave de cache para alunos buscados por ID (estratégia Cache-Aside).
const alunoCacheKey = "aluno:%d"

const alunoCacheTTL = 5 * time.Minute

// AlunoRepository implementa a interface domain.AlunoRepository sobre o
// PostgreSQL, com cache Redis nas leituras por ID.
type AlunoRepository struct {
	DB        *sql.DB
	Cache     cache.Client
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewAlunoRepository cria e retorna uma nova instância do Repositório de Alunos.
func NewAlunoRepository(db *sql.DB, cacheClient cache.Client, dbTimeout time.Duration, logger logger.Logger) *AlunoRepository {
	return &AlunoRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// uniqueConstraintMessage traduz a violação de índice único do PostgreSQL
// (código 23505) para a mensagem de conflito de negócio. É a garantia
// autoritativa das invariantes de unicidade: a pré-checagem no serviço é
// apenas um caminho rápido e pode perder a corrida entre requisições iguais.
func uniqueConstraintMessage(err error) (string, bool) {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != "23505" {
		return "", false
	}
	switch pqErr.Constraint {
	case "ux_alunos_cpf":
		return "CPF já cadastrado", true
	case "ux_alunos_email":
		return "E-mail já cadastrado", true
	}
	return "Registro duplicado", true
}

// FindAll retorna uma página de alunos ordenada por nome e o total de registros.
func (r *AlunoRepository) FindAll(ctx context.Context, pageNumber, pageSize int) ([]domain.Aluno, int, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var totalCount int
	if err := r.DB.QueryRowContext(ctxTimeout, `SELECT COUNT(*) FROM alunos`).Scan(&totalCount); err != nil {
		r.logger.Error("Falha ao contar alunos no DB.", err)
		return nil, 0, apperror.NewDBError("Falha ao contar alunos", err)
	}

	query := `
        SELECT id, nome, data_nascimento, cpf, email, senha_hash, data_cadastro
        FROM alunos
        ORDER BY nome
        LIMIT $1 OFFSET $2`

	offset := (pageNumber - 1) * pageSize
	rows, err := r.DB.QueryContext(ctxTimeout, query, pageSize, offset)
	if err != nil {
		r.logger.Error("Falha ao executar FindAll de alunos.", err)
		return nil, 0, apperror.NewDBError("Falha ao buscar alunos", err)
	}
	defer rows.Close()

	alunos, err := scanAlunos(rows)
	if err != nil {
		r.logger.Error("Falha ao mapear alunos do DB.", err)
		return nil, 0, apperror.NewDBError("Falha ao mapear alunos do DB", err)
	}

	r.logger.Debug("FindAll de alunos concluído.", map[string]interface{}{"total": totalCount, "page": pageNumber})
	return alunos, totalCount, nil
}

// FindByID busca um aluno pelo ID, utilizando a estratégia Cache-Aside.
func (r *AlunoRepository) FindByID(ctx context.Context, id int) (domain.Aluno, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	key := fmt.Sprintf(alunoCacheKey, id)
	var aluno domain.Aluno

	// 1. Tentar obter do Cache (Redis)
	cachedData, err := r.Cache.Get(ctxTimeout, key)
	if err == nil {
		if json.Unmarshal([]byte(cachedData), &aluno) == nil {
			return aluno, nil
		}
		// Se a desserialização falhar, segue para o DB
	}

	// 2. Busca no Banco de Dados (PostgreSQL)
	query := `
        SELECT id, nome, data_nascimento, cpf, email, senha_hash, data_cadastro
        FROM alunos
        WHERE id = $1`

	row := r.DB.QueryRowContext(ctxTimeout, query, id)
	if err := scanAluno(row, &aluno); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Aluno{}, apperror.NewNotFoundError("Aluno não encontrado")
		}
		r.logger.Error("Falha ao buscar aluno por ID no DB.", err)
		return domain.Aluno{}, apperror.NewDBError("Falha ao buscar aluno", err)
	}

	// 3. Popular o cache para futuras requisições
	if alunoJSON, marshalErr := json.Marshal(aluno); marshalErr == nil {
		r.Cache.Set(ctxTimeout, key, alunoJSON, alunoCacheTTL)
	}

	return aluno, nil
}

// FindByNome busca alunos cujo nome contém o trecho informado, ordenados por nome.
func (r *AlunoRepository) FindByNome(ctx context.Context, nome string) ([]domain.Aluno, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT id, nome, data_nascimento, cpf, email, senha_hash, data_cadastro
        FROM alunos
        WHERE nome ILIKE '%' || $1 || '%'
        ORDER BY nome`

	rows, err := r.DB.QueryContext(ctxTimeout, query, nome)
	if err != nil {
		r.logger.Error("Falha ao buscar alunos por nome no DB.", err)
		return nil, apperror.NewDBError("Falha ao buscar alunos por nome", err)
	}
	defer rows.Close()

	alunos, err := scanAlunos(rows)
	if err != nil {
		r.logger.Error("Falha ao mapear alunos do DB.", err)
		return nil, apperror.NewDBError("Falha ao mapear alunos do DB", err)
	}

	return alunos, nil
}

// FindByCpf busca um aluno pelo CPF (já sem formatação).
func (r *AlunoRepository) FindByCpf(ctx context.Context, cpf string) (domain.Aluno, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT id, nome, data_nascimento, cpf, email, senha_hash, data_cadastro
        FROM alunos
        WHERE cpf = $1`

	var aluno domain.Aluno
	row := r.DB.QueryRowContext(ctxTimeout, query, cpf)
	if err := scanAluno(row, &aluno); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Aluno{}, apperror.NewNotFoundError("Aluno não encontrado")
		}
		r.logger.Error("Falha ao buscar aluno por CPF no DB.", err)
		return domain.Aluno{}, apperror.NewDBError("Falha ao buscar aluno por CPF", err)
	}

	return aluno, nil
}

// ExistsByCpf verifica se já existe aluno com o CPF informado.
func (r *AlunoRepository) ExistsByCpf(ctx context.Context, cpf string) (bool, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var exists bool
	err := r.DB.QueryRowContext(ctxTimeout,
		`SELECT EXISTS(SELECT 1 FROM alunos WHERE cpf = $1)`, cpf).Scan(&exists)
	if err != nil {
		r.logger.Error("Falha ao verificar existência de CPF no DB.", err)
		return false, apperror.NewDBError("Falha ao verificar CPF", err)
	}
	return exists, nil
}

// ExistsByEmail verifica se o e-mail já pertence a outro aluno. O excludeID
// permite ignorar o próprio registro em atualizações (zero em criações).
func (r *AlunoRepository) ExistsByEmail(ctx context.Context, email string, excludeID int) (bool, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var exists bool
	err := r.DB.QueryRowContext(ctxTimeout,
		`SELECT EXISTS(SELECT 1 FROM alunos WHERE email = $1 AND id <> $2)`, email, excludeID).Scan(&exists)
	if err != nil {
		r.logger.Error("Falha ao verificar existência de e-mail no DB.", err)
		return false, apperror.NewDBError("Falha ao verificar e-mail", err)
	}
	return exists, nil
}

// Save insere um novo aluno. ID e data de cadastro são atribuídos pelo banco.
func (r *AlunoRepository) Save(ctx context.Context, aluno domain.Aluno) (domain.Aluno, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        INSERT INTO alunos (nome, data_nascimento, cpf, email, senha_hash)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, data_cadastro`

	err := r.DB.QueryRowContext(ctxTimeout, query,
		aluno.Nome, aluno.DataNascimento, aluno.Cpf, aluno.Email, aluno.SenhaHash,
	).Scan(&aluno.ID, &aluno.DataCadastro)
	if err != nil {
		if msg, ok := uniqueConstraintMessage(err); ok {
			r.logger.Warn("Violação de unicidade ao inserir aluno.", map[string]interface{}{"cpf": aluno.Cpf})
			return domain.Aluno{}, apperror.NewConflictError(msg)
		}
		r.logger.Error("Falha ao inserir aluno no DB.", err)
		return domain.Aluno{}, apperror.NewDBError("Falha ao criar aluno", err)
	}

	r.logger.Info("Aluno criado com sucesso.", map[string]interface{}{"id": aluno.ID})
	return aluno, nil
}

// Update sobrescreve nome, data de nascimento e e-mail do aluno. CPF e senha
// não são tocados por este caminho.
func (r *AlunoRepository) Update(ctx context.Context, aluno domain.Aluno) (domain.Aluno, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        UPDATE alunos
        SET nome = $1, data_nascimento = $2, email = $3
        WHERE id = $4
        RETURNING id, nome, data_nascimento, cpf, email, senha_hash, data_cadastro`

	row := r.DB.QueryRowContext(ctxTimeout, query,
		aluno.Nome, aluno.DataNascimento, aluno.Email, aluno.ID)
	if err := scanAluno(row, &aluno); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Aluno{}, apperror.NewNotFoundError("Aluno não encontrado")
		}
		if msg, ok := uniqueConstraintMessage(err); ok {
			return domain.Aluno{}, apperror.NewConflictError(msg)
		}
		r.logger.Error("Falha ao atualizar aluno no DB.", err)
		return domain.Aluno{}, apperror.NewDBError("Falha ao atualizar aluno", err)
	}

	// Invalida a entrada de cache do registro alterado
	r.Cache.Delete(ctxTimeout, fmt.Sprintf(alunoCacheKey, aluno.ID))

	r.logger.Info("Aluno atualizado com sucesso.", map[string]interface{}{"id": aluno.ID})
	return aluno, nil
}

// Delete remove fisicamente o aluno. As matrículas associadas são removidas em
// cascata pela foreign key.
func (r *AlunoRepository) Delete(ctx context.Context, id int) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM alunos WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao deletar aluno do DB.", err)
		return apperror.NewDBError("Falha ao deletar aluno", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.logger.Error("Falha ao verificar linhas afetadas após Delete de aluno.", err)
		return apperror.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return apperror.NewNotFoundError("Aluno não encontrado")
	}

	r.Cache.Delete(ctxTimeout, fmt.Sprintf(alunoCacheKey, id))

	r.logger.Info("Aluno deletado com sucesso.", map[string]interface{}{"id": id})
	return nil
}

// --- Helpers de mapeamento ---

func scanAluno(row *sql.Row, aluno *domain.Aluno) error {
	return row.Scan(
		&aluno.ID,
		&aluno.Nome,
		&aluno.DataNascimento,
		&aluno.Cpf,
		&aluno.Email,
		&aluno.SenhaHash,
		&aluno.DataCadastro,
	)
}

func scanAlunos(rows *sql.Rows) ([]domain.Aluno, error) {
	var alunos []domain.Aluno
	for rows.Next() {
		var aluno domain.Aluno
		err := rows.Scan(
			&aluno.ID,
			&aluno.Nome,
			&aluno.DataNascimento,
			&aluno.Cpf,
			&aluno.Email,
			&aluno.SenhaHash,
			&aluno.DataCadastro,
		)
		if err != nil {
			return nil, err
		}
		alunos = append(alunos, aluno)
	}
	return alunos, rows.Err()
}
