package matricula

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

// Handler agrupa todos os métodos de Handler de matrículas.
type Handler struct {
	Service   domain.MatriculaService
	Validator *validator.Validator
	Logger    logger.Logger
}

func NewHandler(svc domain.MatriculaService, v *validator.Validator, log logger.Logger) *Handler {
	return &Handler{
		Service:   svc,
		Validator: v,
		Logger:    log,
	}
}

// CreateMatriculaHandler lida com POST /api/v1/matriculas.
// @Summary Matricula um aluno em uma turma
// @Tags matriculas
// @Accept json
// @Produce json
// @Param matricula body domain.MatriculaCreate true "Aluno e turma"
// @Success 201 {object} domain.Matricula "Matrícula efetuada"
// @Failure 400 {object} domain.ErrorResponse "Aluno/turma inexistente ou matrícula duplicada"
// @Security ApiKeyAuth
// @Router /matriculas [post]
func (h *Handler) CreateMatriculaHandler(w http.ResponseWriter, r *http.Request) {
	var dto domain.MatriculaCreate
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		respond.Error(w, r, h.Logger, apperror.NewValidationError("Payload inválido. Verifique o formato JSON"))
		return
	}

	if err := h.Validator.ValidateStruct(dto); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	criada, err := h.Service.CreateMatricula(r.Context(), dto)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	respond.JSON(w, h.Logger, http.StatusCreated, criada)
}

// GetMatriculaByIDHandler lida com GET /api/v1/matriculas/{id}.
// @Summary Busca uma matrícula por ID
// @Tags matriculas
// @Produce json
// @Param id path int true "ID da matrícula"
// @Success 200 {object} domain.Matricula "Matrícula encontrada"
// @Failure 404 {object} domain.ErrorResponse "Matrícula não encontrada"
// @Security ApiKeyAuth
// @Router /matriculas/{id} [get]
func (h *Handler) GetMatriculaByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		respond.Error(w, r, h.Logger, apperror.NewValidationError("ID da matrícula inválido"))
		return
	}

	matricula, err := h.Service.GetMatriculaByID(r.Context(), id)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	respond.JSON(w, h.Logger, http.StatusOK, matricula)
}

// GetMatriculasByTurmaHandler lida com GET /api/v1/matriculas/turma/{turmaId}.
// Uma turma desconhecida responde 200 com lista vazia.
// @Summary Lista as matrículas de uma turma
// @Tags matriculas
// @Produce json
// @Param turmaId path int true "ID da turma"
// @Success 200 {array} domain.Matricula "Matrículas da turma"
// @Security ApiKeyAuth
// @Router /matriculas/turma/{turmaId} [get]
func (h *Handler) GetMatriculasByTurmaHandler(w http.ResponseWriter, r *http.Request) {
	turmaID, err := strconv.Atoi(r.PathValue("turmaId"))
	if err != nil {
		respond.Error(w, r, h.Logger, apperror.NewValidationError("ID da turma inválido"))
		return
	}

	matriculas, err := h.Service.GetMatriculasByTurma(r.Context(), turmaID)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	respond.JSON(w, h.Logger, http.StatusOK, matriculas)
}

// DeleteMatriculaHandler lida com DELETE /api/v1/matriculas/{id}.
// @Summary Cancela uma matrícula
// @Tags matriculas
// @Param id path int true "ID da matrícula"
// @Success 204 "Sem conteúdo"
// @Failure 404 {object} domain.ErrorResponse "Matrícula não encontrada"
// @Security ApiKeyAuth
// @Router /matriculas/{id} [delete]
func (h *Handler) DeleteMatriculaHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		respond.Error(w, r, h.Logger, apperror.NewValidationError("ID da matrícula inválido"))
		return
	}

	if err := h.Service.DeleteMatricula(r.Context(), id); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	respond.JSON(w, h.Logger, http.StatusNoContent, nil)
}
