package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"goescola/internal/domain"
	apperror "goescola/internal/errors"
	"goescola/internal/pkg/token"
)

// ContextKey é o tipo das chaves de contexto deste pacote. Um tipo próprio
// garante que não haja conflito com chaves string de outros pacotes.
type ContextKey int

const (
	UserClaimsKey ContextKey = iota
)

// UserClaims representa os dados da conta extraídos do token JWT,
// anexados ao contexto da requisição.
type UserClaims struct {
	Email string
	Role  string
}

// TokenService define o contrato de validação necessário para o middleware.
type TokenService interface {
	ValidateToken(tokenString string) (*token.CustomClaims, error)
}

// writeUnauthorized envia a resposta 401/403 padronizada em JSON.
func writeUnauthorized(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(domain.ErrorResponse{
		Code:     status,
		Category: "UNAUTHORIZED",
		Message:  msg,
	})
}

// NewAuthMiddleware cria o middleware que valida o token Bearer (assinatura e
// expiração) e anexa as claims ao contexto da requisição.
func NewAuthMiddleware(tokenSvc TokenService) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {

			// 1. Extrair o Token do header Authorization: Bearer <token>
			authHeader := r.Header.Get("Authorization")
			if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
				writeUnauthorized(w, http.StatusUnauthorized,
					apperror.NewUnauthorizedError("Token de autorização ausente ou malformado").Error())
				return
			}

			tokenString := authHeader[7:]

			// 2. Validar o Token
			claims, err := tokenSvc.ValidateToken(tokenString)
			if err != nil {
				writeUnauthorized(w, http.StatusUnauthorized,
					apperror.NewUnauthorizedError("Token inválido ou expirado").Error())
				return
			}

			// 3. Anexar Claims ao Contexto
			userClaims := UserClaims{
				Email: claims.Email,
				Role:  claims.Role,
			}

			ctx := context.WithValue(r.Context(), UserClaimsKey, userClaims)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
	}
}

// GetUserClaimsFromContext extrai as claims anexadas pelo AuthMiddleware.
func GetUserClaimsFromContext(ctx context.Context) (UserClaims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(UserClaims)
	return claims, ok
}

// RequireRole verifica se a role presente nas claims corresponde a alguma das
// roles exigidas pela rota. Deve ser encadeado após o AuthMiddleware.
func RequireRole(requiredRoles ...string) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {

			claims, ok := GetUserClaimsFromContext(r.Context())
			if !ok {
				writeUnauthorized(w, http.StatusUnauthorized,
					apperror.NewUnauthorizedError("Autorização necessária. Token não processado").Error())
				return
			}

			for _, requiredRole := range requiredRoles {
				if claims.Role == requiredRole {
					next.ServeHTTP(w, r)
					return
				}
			}

			writeUnauthorized(w, http.StatusForbidden,
				"Acesso negado. Você não tem a permissão necessária")
		}
	}
}
