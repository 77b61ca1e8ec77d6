package aluno

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

// Handler agrupa todos os métodos de Handler de alunos.
type Handler struct {
	Service   domain.AlunoService
	Validator *validator.Validator
	Logger    logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service, o
// Validator e o Logger.
func NewHandler(svc domain.AlunoService, v *validator.Validator, log logger.Logger) *Handler {
	return &Handler{
		Service:   svc,
		Validator: v,
		Logger:    log,
	}
}

// parsePagination lê pageNumber e pageSize da query string, com padrões 1 e 10.
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

// ListAlunosHandler lida com GET /api/v1/alunos.
// @Summary Lista alunos com paginação
// @Tags alunos
// @Produce json
// @Param pageNumber query int false "Número da página (padrão: 1)"
// @Param pageSize query int false "Itens por página (padrão: 10)"
// @Success 200 {object} domain.PaginatedResponse "Página de alunos"
// @Security ApiKeyAuth
// @Router /alunos [get]
func (h *Handler) ListAlunosHandler(w http.ResponseWriter, r *http.Request) {
	pageNumber, pageSize := parsePagination(r)

	page, err := h.Service.ListAlunos(r.Context(), pageNumber, pageSize)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	respond.JSON(w, h.Logger, http.StatusOK, page)
}

// GetAlunoByIDHandler lida com GET /api/v1/alunos/{id}.
// @Summary Busca um aluno por ID
// @Tags alunos
// @Produce json
// @Param id path int true "ID do aluno"
// @Success 200 {object} domain.Aluno "Aluno encontrado"
// @Failure 404 {object} domain.ErrorResponse "Aluno não encontrado"
// @Security ApiKeyAuth
// @Router /alunos/{id} [get]
func (h *Handler) GetAlunoByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		respond.Error(w, r, h.Logger, apperror.NewValidationError("ID do aluno inválido"))
		return
	}

	aluno, err := h.Service.GetAlunoByID(r.Context(), id)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	respond.JSON(w, h.Logger, http.StatusOK, aluno)
}

// SearchByNomeHandler lida com GET /api/v1/alunos/buscar/nome?nome=.
// @Summary Busca alunos por nome
// @Tags alunos
// @Produce json
// @Param nome query string true "Nome ou parte do nome"
// @Success 200 {array} domain.Aluno "Alunos encontrados"
// @Security ApiKeyAuth
// @Router /alunos/buscar/nome [get]
func (h *Handler) SearchByNomeHandler(w http.ResponseWriter, r *http.Request) {
	nome := r.URL.Query().Get("nome")

	alunos, err := h.Service.SearchAlunosByNome(r.Context(), nome)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	respond.JSON(w, h.Logger, http.StatusOK, alunos)
}

// SearchByCpfHandler lida com GET /api/v1/alunos/buscar/cpf?cpf=.
// A formatação do CPF de entrada (pontos e traço) é aceita e descartada.
// @Summary Busca um aluno por CPF
// @Tags alunos
// @Produce json
// @Param cpf query string true "CPF do aluno"
// @Success 200 {object} domain.Aluno "Aluno encontrado"
// @Failure 404 {object} domain.ErrorResponse "Aluno não encontrado"
// @Security ApiKeyAuth
// @Router /alunos/buscar/cpf [get]
func (h *Handler) SearchByCpfHandler(w http.ResponseWriter, r *http.Request) {
	cpf := r.URL.Query().Get("cpf")

	aluno, err := h.Service.SearchAlunoByCpf(r.Context(), cpf)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	respond.JSON(w, h.Logger, http.StatusOK, aluno)
}

// CreateAlunoHandler lida com POST /api/v1/alunos.
// @Summary Cadastra um novo aluno
// @Tags alunos
// @Accept json
// @Produce json
// @Param aluno body domain.AlunoCreate true "Dados do aluno"
// @Success 201 {object} domain.Aluno "Aluno cadastrado"
// @Failure 400 {object} domain.ErrorResponse "Validação ou CPF/e-mail duplicado"
// @Security ApiKeyAuth
// @Router /alunos [post]
func (h *Handler) CreateAlunoHandler(w http.ResponseWriter, r *http.Request) {
	var dto domain.AlunoCreate
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		respond.Error(w, r, h.Logger, apperror.NewValidationError("Payload inválido. Verifique o formato JSON"))
		return
	}

	// As regras de validação são avaliadas em conjunto e todas as falhas
	// retornam juntas no corpo da resposta.
	if err := h.Validator.ValidateStruct(dto); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	criado, err := h.Service.CreateAluno(r.Context(), dto)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	respond.JSON(w, h.Logger, http.StatusCreated, criado)
}

// UpdateAlunoHandler lida com PUT /api/v1/alunos/{id}.
// @Summary Atualiza os dados de um aluno
// @Tags alunos
// @Accept json
// @Produce json
// @Param id path int true "ID do aluno"
// @Param aluno body domain.AlunoUpdate true "Novos dados do aluno"
// @Success 200 {object} domain.Aluno "Aluno atualizado"
// @Failure 400 {object} domain.ErrorResponse "Validação ou e-mail duplicado"
// @Failure 404 {object} domain.ErrorResponse "Aluno não encontrado"
// @Security ApiKeyAuth
// @Router /alunos/{id} [put]
func (h *Handler) UpdateAlunoHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		respond.Error(w, r, h.Logger, apperror.NewValidationError("ID do aluno inválido"))
		return
	}

	var dto domain.AlunoUpdate
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		respond.Error(w, r, h.Logger, apperror.NewValidationError("Payload inválido. Verifique o formato JSON"))
		return
	}

	if err := h.Validator.ValidateStruct(dto); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	atualizado, err := h.Service.UpdateAluno(r.Context(), id, dto)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	respond.JSON(w, h.Logger, http.StatusOK, atualizado)
}

// DeleteAlunoHandler lida com DELETE /api/v1/alunos/{id}.
// @Summary Exclui um aluno
// @Tags alunos
// @Param id path int true "ID do aluno"
// @Success 204 "Sem conteúdo"
// @Failure 404 {object} domain.ErrorResponse "Aluno não encontrado"
// @Security ApiKeyAuth
// @Router /alunos/{id} [delete]
func (h *Handler) DeleteAlunoHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		respond.Error(w, r, h.Logger, apperror.NewValidationError("ID do aluno inválido"))
		return
	}

	if err := h.Service.DeleteAluno(r.Context(), id); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	respond.JSON(w, h.Logger, http.StatusNoContent, nil)
}
