package validator

import (
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"

	apperror "goescola/internal/errors"
)

// Validator avalia os payloads de entrada (create/update) antes da invocação
// dos serviços. As regras são puras e sem estado; todas as falhas de um
// payload são coletadas e retornadas juntas, sem curto-circuito.
type Validator struct {
	validate *validator.Validate
}

// New registra as regras customizadas do domínio (cpf, senhaforte, datanasc)
// sobre o validador base.
func New() *Validator {
	v := validator.New()
	v.RegisterValidation("cpf", validateCpf)
	v.RegisterValidation("senhaforte", validateSenhaForte)
	v.RegisterValidation("datanasc", validateDataNascimento)
	return &Validator{validate: v}
}

// ValidateStruct avalia todas as tags validate do payload e retorna um
// ValidationErrors agregado, ou nil quando o payload é válido.
func (v *Validator) ValidateStruct(payload interface{}) error {
	err := v.validate.Struct(payload)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		// InvalidValidationError: o payload nem chegou a ser avaliável
		return apperror.NewValidationErrors([]string{"Payload inválido"})
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, messageFor(fe))
	}
	return apperror.NewValidationErrors(msgs)
}

// messageFor traduz um FieldError para a mensagem de negócio em português.
func messageFor(fe validator.FieldError) string {
	switch fe.Field() {
	case "Nome":
		if fe.Tag() == "required" {
			return "Nome é obrigatório"
		}
		return "Nome deve ter entre 3 e 100 caracteres"
	case "Descricao":
		if fe.Tag() == "required" {
			return "Descrição é obrigatória"
		}
		return "Descrição deve ter entre 10 e 250 caracteres"
	case "DataNascimento":
		if fe.Tag() == "required" {
			return "Data de nascimento é obrigatória"
		}
		return "Data de nascimento inválida"
	case "Cpf":
		if fe.Tag() == "required" {
			return "CPF é obrigatório"
		}
		return "CPF inválido"
	case "Email":
		switch fe.Tag() {
		case "required":
			return "E-mail é obrigatório"
		case "max":
			return "E-mail deve ter no máximo 100 caracteres"
		}
		return "E-mail inválido"
	case "Senha":
		switch fe.Tag() {
		case "required":
			return "Senha é obrigatória"
		case "min":
			return "Senha deve ter no mínimo 8 caracteres"
		}
		return "Senha deve conter letras maiúsculas, minúsculas, números e símbolos especiais"
	case "AlunoID":
		return "AlunoId é obrigatório"
	case "TurmaID":
		return "TurmaId é obrigatório"
	}
	return "Campo " + fe.Field() + " inválido"
}

// --- Regras customizadas ---

var (
	nonDigits    = regexp.MustCompile(`[^0-9]`)
	hasUpperCase = regexp.MustCompile(`[A-Z]`)
	hasLowerCase = regexp.MustCompile(`[a-z]`)
	hasDigit     = regexp.MustCompile(`[0-9]`)
	hasSpecial   = regexp.MustCompile(`[!@#$%^&*(),.?"':{}|<>]`)
)

// StripCpf remove toda formatação (pontos, traços, espaços) de um CPF,
// mantendo apenas os dígitos.
func StripCpf(cpf string) string {
	return nonDigits.ReplaceAllString(cpf, "")
}

// IsValidCpf aplica o algoritmo de dígitos verificadores do CPF: 11 dígitos,
// não todos idênticos, com os dois dígitos finais conferidos por duas somas
// ponderadas módulo 11 sobre os dígitos anteriores.
func IsValidCpf(cpf string) bool {
	cpf = StripCpf(cpf)

	if len(cpf) != 11 {
		return false
	}

	allEqual := true
	for i := 1; i < 11; i++ {
		if cpf[i] != cpf[0] {
			allEqual = false
			break
		}
	}
	if allEqual {
		return false
	}

	mult1 := [9]int{10, 9, 8, 7, 6, 5, 4, 3, 2}
	mult2 := [10]int{11, 10, 9, 8, 7, 6, 5, 4, 3, 2}

	soma := 0
	for i := 0; i < 9; i++ {
		soma += int(cpf[i]-'0') * mult1[i]
	}
	resto := soma % 11
	digito1 := 0
	if resto >= 2 {
		digito1 = 11 - resto
	}

	soma = 0
	for i := 0; i < 9; i++ {
		soma += int(cpf[i]-'0') * mult2[i]
	}
	soma += digito1 * mult2[9]
	resto = soma % 11
	digito2 := 0
	if resto >= 2 {
		digito2 = 11 - resto
	}

	return int(cpf[9]-'0') == digito1 && int(cpf[10]-'0') == digito2
}

func validateCpf(fl validator.FieldLevel) bool {
	return IsValidCpf(fl.Field().String())
}

// validateSenhaForte exige ao menos uma maiúscula, uma minúscula, um dígito e
// um símbolo do conjunto definido.
func validateSenhaForte(fl validator.FieldLevel) bool {
	senha := fl.Field().String()
	return hasUpperCase.MatchString(senha) &&
		hasLowerCase.MatchString(senha) &&
		hasDigit.MatchString(senha) &&
		hasSpecial.MatchString(senha)
}

// validateDataNascimento aceita datas dentro de [hoje-120 anos, hoje].
func validateDataNascimento(fl validator.FieldLevel) bool {
	data, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	now := time.Now()
	min := now.AddDate(-120, 0, 0)
	return !data.Before(min) && !data.After(now)
}
