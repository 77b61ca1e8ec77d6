package usuariorepo

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

// UsuarioRepository implementa a interface domain.UsuarioRepository.
// A tabela usuarios guarda apenas contas administrativas.
type UsuarioRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewUsuarioRepository cria uma nova instância do UsuarioRepository.
func NewUsuarioRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *UsuarioRepository {
	return &UsuarioRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// FindByEmail busca uma conta pelo endereço de e-mail.
func (r *UsuarioRepository) FindByEmail(ctx context.Context, email string) (domain.Usuario, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT id, email, senha_hash, role, data_cadastro FROM usuarios WHERE email = $1`

	var usuario domain.Usuario
	err := r.DB.QueryRowContext(ctxTimeout, query, email).Scan(
		&usuario.ID,
		&usuario.Email,
		&usuario.SenhaHash,
		&usuario.Role,
		&usuario.DataCadastro,
	)
	if errors.Is(err, sql.ErrNoRows) {
		r.logger.Debug("Usuário não encontrado por e-mail.", map[string]interface{}{"email": email})
		return domain.Usuario{}, apperror.NewNotFoundError("Usuário não encontrado")
	}
	if err != nil {
		r.logger.Error("Falha ao buscar usuário por e-mail no DB.", err)
		return domain.Usuario{}, apperror.NewDBError("Falha ao buscar usuário por e-mail", err)
	}

	return usuario, nil
}

// Save insere uma nova conta de administrador. Usado apenas pelo seed de
// provisionamento, não há endpoint de registro.
func (r *UsuarioRepository) Save(ctx context.Context, usuario domain.Usuario) (domain.Usuario, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        INSERT INTO usuarios (email, senha_hash, role)
        VALUES ($1, $2, $3)
        RETURNING id, data_cadastro`

	err := r.DB.QueryRowContext(ctxTimeout, query,
		usuario.Email, usuario.SenhaHash, usuario.Role,
	).Scan(&usuario.ID, &usuario.DataCadastro)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.Usuario{}, apperror.NewConflictError("E-mail já cadastrado")
		}
		r.logger.Error("Falha ao inserir usuário no DB.", err)
		return domain.Usuario{}, apperror.NewDBError("Falha ao criar usuário", err)
	}

	r.logger.Info("Usuário salvo com sucesso.", map[string]interface{}{"id": usuario.ID, "email": usuario.Email})
	return usuario, nil
}
