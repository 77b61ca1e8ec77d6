package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"goescola/internal/domain"
	apperror "goescola/internal/errors"
	"goescola/internal/pkg/logger"
)

// JSON envia a resposta de sucesso com o status informado. Um corpo nil gera
// resposta sem conteúdo (204/202).
func JSON(w http.ResponseWriter, log logger.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error("Falha ao codificar JSON de resposta", err)
	}
}

// Error traduz o erro de serviço para o status HTTP e corpo padronizados.
// ValidationErrors agregados viram a lista de mensagens em "errors"; os demais
// erros tipados viram uma mensagem única.
func Error(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	status, category, message := apperror.MapToHTTPStatus(err)

	if status >= 500 {
		log.Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
	} else {
		log.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category),
			map[string]interface{}{"path": r.URL.Path})
	}

	resp := domain.ErrorResponse{
		Code:     status,
		Category: category,
	}

	var validationErrs *apperror.ValidationErrors
	if errors.As(err, &validationErrs) {
		resp.Errors = validationErrs.Messages()
	} else {
		resp.Message = message
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}
