package turma

import (
	"encoding/json"
	"net/http"
	"strconv"

	"goescola/internal/api/respond"
	"goescola/internal/domain"
	apperror "goescola/internal/errors"
	"goescola/internal/pkg/logger"
	"goescola/internal/validator"
)

// Handler agrupa todos os métodos de Handler de turmas.
type Handler struct {
	Service   domain.TurmaService
	Validator *validator.Validator
	Logger    logger.Logger
}

func NewHandler(svc domain.TurmaService, v *validator.Validator, log logger.Logger) *Handler {
	return &Handler{
		Service:   svc,
		Validator: v,
		Logger:    log,
	}
}

func parsePagination(r *http.Request) (int, int) {
	pageNumber, err := strconv.Atoi(r.URL.Query().Get("pageNumber"))
	if err != nil || pageNumber < 1 {
		pageNumber = 1
	}
	pageSize, err := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if err != nil || pageSize < 1 {
		pageSize = 10
	}
	return pageNumber, pageSize
}

// ListTurmasHandler lida com GET /api/v1/turmas.
// @Summary Lista turmas com paginação
// @Tags turmas
// @Produce json
// @Param pageNumber query int false "Número da página (padrão: 1)"
// @Param pageSize query int false "Itens por página (padrão: 10)"
// @Success 200 {object} domain.PaginatedResponse "Página de turmas"
// @Security ApiKeyAuth
// @Router /turmas [get]
func (h *Handler) ListTurmasHandler(w http.ResponseWriter, r *http.Request) {
	pageNumber, pageSize := parsePagination(r)

	page, err := h.Service.ListTurmas(r.Context(), pageNumber, pageSize)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	respond.JSON(w, h.Logger, http.StatusOK, page)
}

// GetTurmaByIDHandler lida com GET /api/v1/turmas/{id}.
// @Summary Busca uma turma por ID
// @Tags turmas
// @Produce json
// @Param id path int true "ID da turma"
// @Success 200 {object} domain.Turma "Turma encontrada"
// @Failure 404 {object} domain.ErrorResponse "Turma não encontrada"
// @Security ApiKeyAuth
// @Router /turmas/{id} [get]
func (h *Handler) GetTurmaByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		respond.Error(w, r, h.Logger, apperror.NewValidationError("ID da turma inválido"))
		return
	}

	turma, err := h.Service.GetTurmaByID(r.Context(), id)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	respond.JSON(w, h.Logger, http.StatusOK, turma)
}

// CreateTurmaHandler lida com POST /api/v1/turmas.
// @Summary Cadastra uma nova turma
// @Tags turmas
// @Accept json
// @Produce json
// @Param turma body domain.TurmaCreate true "Dados da turma"
// @Success 201 {object} domain.Turma "Turma cadastrada"
// @Failure 400 {object} domain.ErrorResponse "Erro de validação"
// @Security ApiKeyAuth
// @Router /turmas [post]
func (h *Handler) CreateTurmaHandler(w http.ResponseWriter, r *http.Request) {
	var dto domain.TurmaCreate
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		respond.Error(w, r, h.Logger, apperror.NewValidationError("Payload inválido. Verifique o formato JSON"))
		return
	}

	if err := h.Validator.ValidateStruct(dto); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	criada, err := h.Service.CreateTurma(r.Context(), dto)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	respond.JSON(w, h.Logger, http.StatusCreated, criada)
}

// UpdateTurmaHandler lida com PUT /api/v1/turmas/{id}.
// @Summary Atualiza os dados de uma turma
// @Tags turmas
// @Accept json
// @Produce json
// @Param id path int true "ID da turma"
// @Param turma body domain.TurmaUpdate true "Novos dados da turma"
// @Success 200 {object} domain.Turma "Turma atualizada"
// @Failure 404 {object} domain.ErrorResponse "Turma não encontrada"
// @Security ApiKeyAuth
// @Router /turmas/{id} [put]
func (h *Handler) UpdateTurmaHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		respond.Error(w, r, h.Logger, apperror.NewValidationError("ID da turma inválido"))
		return
	}

	var dto domain.TurmaUpdate
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		respond.Error(w, r, h.Logger, apperror.NewValidationError("Payload inválido. Verifique o formato JSON"))
		return
	}

	if err := h.Validator.ValidateStruct(dto); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	atualizada, err := h.Service.UpdateTurma(r.Context(), id, dto)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	respond.JSON(w, h.Logger, http.StatusOK, atualizada)
}

// DeleteTurmaHandler lida com DELETE /api/v1/turmas/{id}. As matrículas da
// turma são removidas em cascata pelo banco.
// @Summary Exclui uma turma
// @Tags turmas
// @Param id path int true "ID da turma"
// @Success 204 "Sem conteúdo"
// @Failure 404 {object} domain.ErrorResponse "Turma não encontrada"
// @Security ApiKeyAuth
// @Router /turmas/{id} [delete]
func (h *Handler) DeleteTurmaHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		respond.Error(w, r, h.Logger, apperror.NewValidationError("ID da turma inválido"))
		return
	}

	if err := h.Service.DeleteTurma(r.Context(), id); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	respond.JSON(w, h.Logger, http.StatusNoContent, nil)
}
