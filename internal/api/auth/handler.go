package auth

import (
	"encoding/json"
	"net/http"

	"goescola/internal/api/respond"
	"goescola/internal/domain"
	apperror "goescola/internal/errors"
	"goescola/internal/pkg/logger"
	"goescola/internal/validator"
)

// Handler agrupa os métodos de Handler de autenticação.
type Handler struct {
	Service   domain.AuthService
	Validator *validator.Validator
	Logger    logger.Logger
}

func NewHandler(svc domain.AuthService, v *validator.Validator, log logger.Logger) *Handler {
	return &Handler{
		Service:   svc,
		Validator: v,
		Logger:    log,
	}
}

// LoginHandler lida com POST /api/v1/auth/login. É a única rota da API sem
// exigência de token.
// @Summary Autentica um usuário e emite o token JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param credenciais body domain.LoginRequest true "E-mail e senha"
// @Success 200 {object} domain.LoginResponse "Token emitido"
// @Failure 401 {object} domain.ErrorResponse "Credenciais inválidas"
// @Router /auth/login [post]
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, h.Logger, apperror.NewValidationError("Payload inválido. Verifique o formato JSON"))
		return
	}

	if err := h.Validator.ValidateStruct(req); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	resp, err := h.Service.Login(r.Context(), req.Email, req.Senha)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	respond.JSON(w, h.Logger, http.StatusOK, resp)
}
