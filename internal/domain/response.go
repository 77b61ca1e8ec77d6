package domain

// PaginatedResponse é o envelope padrão das listagens paginadas.
type PaginatedResponse struct {
	Items      interface{} `json:"items"`
	PageNumber int         `json:"pageNumber"`
	PageSize   int         `json:"pageSize"`
	TotalCount int         `json:"totalCount"`
	TotalPages int         `json:"totalPages"`
}

// NewPaginatedResponse monta o envelope calculando o total de páginas
// (teto de totalCount/pageSize).
func NewPaginatedResponse(items interface{}, pageNumber, pageSize, totalCount int) PaginatedResponse {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (totalCount + pageSize - 1) / pageSize
	}
	return PaginatedResponse{
		Items:      items,
		PageNumber: pageNumber,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}
}

// ErrorResponse é a estrutura padronizada para respostas de erro na API.
type ErrorResponse struct {
	Code     int      `json:"code" example:"400"`
	Category string   `json:"category" example:"VALIDATION_ERROR"`
	Message  string   `json:"message,omitempty" example:"CPF já cadastrado"`
	Errors   []string `json:"errors,omitempty"`
}
