package domain

import (
	"context"
	"time"
)

// Usuario representa a conta de administrador usada exclusivamente para
// autenticação. Não é exposta via endpoints CRUD.
type Usuario struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	SenhaHash    string    `json:"-"`
	Role         string    `json:"role"`
	DataCadastro time.Time `json:"dataCadastro"`
}

// RoleAdmin é o papel exigido em todas as rotas protegidas da API.
const RoleAdmin = "Admin"

// LoginRequest representa o payload de entrada para o login.
type LoginRequest struct {
	Email string `json:"email" validate:"required,email"`
	Senha string `json:"senha" validate:"required"`
}

// LoginResponse é o corpo retornado após autenticação bem-sucedida.
type LoginResponse struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// UsuarioRepository define o contrato de persistência para a entidade Usuario.
type UsuarioRepository interface {
	FindByEmail(ctx context.Context, email string) (Usuario, error)
	Save(ctx context.Context, usuario Usuario) (Usuario, error)
}

// AuthService define o contrato de autenticação e emissão de token.
type AuthService interface {
	Login(ctx context.Context, email, senha string) (LoginResponse, error)
}
