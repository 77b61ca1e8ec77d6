package validator_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"goescola/internal/domain"
	apperror "goescola/internal/errors"
	"goescola/internal/validator"
)

func alunoValido() domain.AlunoCreate {
	return domain.AlunoCreate{
		Nome:           "Maria Souza",
		DataNascimento: time.Date(2000, 5, 10, 0, 0, 0, 0, time.UTC),
		Cpf:            "123.456.789-09",
		Email:          "maria@escola.com",
		Senha:          "Senha@Forte1",
	}
}

// TestValidateStruct_Success testa que um payload válido passa sem erros.
func TestValidateStruct_Success(t *testing.T) {
	v := validator.New()

	err := v.ValidateStruct(alunoValido())

	assert.NoError(t, err)
}

// TestValidateStruct_Fail_MensagensColetadas testa que todas as falhas do
// payload chegam juntas na resposta, uma mensagem por campo.
func TestValidateStruct_Fail_MensagensColetadas(t *testing.T) {
	v := validator.New()

	dto := domain.AlunoCreate{
		Nome:  "Jo",
		Cpf:   "11111111111",
		Email: "nao-e-email",
		Senha: "somenteminusculas",
		// DataNascimento zerada: required falha
	}

	err := v.ValidateStruct(dto)

	var validationErrs *apperror.ValidationErrors
	assert.True(t, errors.As(err, &validationErrs))

	msgs := validationErrs.Messages()
	assert.Len(t, msgs, 5)
	assert.Contains(t, msgs, "Nome deve ter entre 3 e 100 caracteres")
	assert.Contains(t, msgs, "Data de nascimento é obrigatória")
	assert.Contains(t, msgs, "CPF inválido")
	assert.Contains(t, msgs, "E-mail inválido")
	assert.Contains(t, msgs, "Senha deve conter letras maiúsculas, minúsculas, números e símbolos especiais")
}

// TestValidateStruct_Fail_CamposObrigatorios testa as mensagens de campos
// ausentes.
func TestValidateStruct_Fail_CamposObrigatorios(t *testing.T) {
	v := validator.New()

	err := v.ValidateStruct(domain.AlunoCreate{})

	var validationErrs *apperror.ValidationErrors
	assert.True(t, errors.As(err, &validationErrs))

	msgs := validationErrs.Messages()
	assert.Contains(t, msgs, "Nome é obrigatório")
	assert.Contains(t, msgs, "Data de nascimento é obrigatória")
	assert.Contains(t, msgs, "CPF é obrigatório")
	assert.Contains(t, msgs, "E-mail é obrigatório")
	assert.Contains(t, msgs, "Senha é obrigatória")
}

// TestIsValidCpf testa o algoritmo de dígitos verificadores.
func TestIsValidCpf(t *testing.T) {
	casos := []struct {
		nome     string
		cpf      string
		esperado bool
	}{
		{"valido sem formatação", "12345678909", true},
		{"valido com formatação", "123.456.789-09", true},
		{"digito verificador errado", "12345678908", false},
		{"todos os dígitos iguais", "11111111111", false},
		{"curto demais", "1234567890", false},
		{"longo demais", "123456789091", false},
		{"com letras", "1234567890a", false},
		{"vazio", "", false},
	}

	for _, c := range casos {
		t.Run(c.nome, func(t *testing.T) {
			assert.Equal(t, c.esperado, validator.IsValidCpf(c.cpf))
		})
	}
}

// TestStripCpf testa a remoção de formatação do CPF.
func TestStripCpf(t *testing.T) {
	assert.Equal(t, "12345678909", validator.StripCpf("123.456.789-09"))
	assert.Equal(t, "12345678909", validator.StripCpf(" 123 456 789 09 "))
	assert.Equal(t, "12345678909", validator.StripCpf("12345678909"))
}

// TestValidateStruct_SenhaForte testa as exigências de composição da senha.
func TestValidateStruct_SenhaForte(t *testing.T) {
	v := validator.New()

	casos := []struct {
		nome   string
		senha  string
		valida bool
	}{
		{"completa", "Senha@Forte1", true},
		{"sem maiúscula", "senha@forte1", false},
		{"sem minúscula", "SENHA@FORTE1", false},
		{"sem dígito", "Senha@Forte", false},
		{"sem símbolo", "SenhaForte1", false},
		{"curta demais", "S@f1", false},
	}

	for _, c := range casos {
		t.Run(c.nome, func(t *testing.T) {
			dto := alunoValido()
			dto.Senha = c.senha

			err := v.ValidateStruct(dto)
			if c.valida {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

// TestValidateStruct_DataNascimento testa a faixa aceita para a data de
// nascimento.
func TestValidateStruct_DataNascimento(t *testing.T) {
	v := validator.New()

	casos := []struct {
		nome   string
		data   time.Time
		valida bool
	}{
		{"data recente", time.Now().AddDate(-20, 0, 0), true},
		{"no futuro", time.Now().AddDate(0, 0, 2), false},
		{"mais de 120 anos atrás", time.Now().AddDate(-121, 0, 0), false},
	}

	for _, c := range casos {
		t.Run(c.nome, func(t *testing.T) {
			dto := alunoValido()
			dto.DataNascimento = c.data

			err := v.ValidateStruct(dto)
			if c.valida {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
