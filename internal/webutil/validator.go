// internal/webutil/validator.go
package webutil

import (
	"log"
	"reflect"
	"strings"

	"github.com/go-playground/locales/pt_BR"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	pt_BR_translations "github.com/go-playground/validator/v10/translations/pt_BR"
)

// Validator is shared by every handler.
var Validator *validator.Validate

// Trans renders validation errors in Portuguese.
var Trans ut.Translator

var fieldNameTranslations = map[string]string{
	"nome":             "Nome",
	"email":            "E-mail",
	"senha":            "Senha",
	"titulo":           "Título",
	"descricao":        "Descrição",
	"xp_total":         "XP total",
	"xp_ganho":         "XP ganho",
	"ativo":            "Ativo",
	"posicao":          "Posição",
	"nivel_id":         "Nível",
	"ordem":            "Ordem",
	"texto":            "Texto",
	"resposta_correta": "Resposta correta",
	"opcao1":           "Opção 1",
	"opcao2":           "Opção 2",
	"opcao3":           "Opção 3",
	"versao":           "Versão",
	"livro":            "Livro",
	"capitulo":         "Capítulo",
	"versiculo":        "Versículo",
	"texto_versiculo":  "Texto do versículo",
	"texto_anotacao":   "Texto da anotação",
	"tipo":             "Tipo",
	"fase_atual":       "Fase atual",
	"id_usuario2":      "Usuário",
	"status":           "Status",
}

func translatedField(fe validator.FieldError) string {
	if name, ok := fieldNameTranslations[fe.Field()]; ok {
		return name
	}
	return fe.Field()
}

func init() {
	Validator = validator.New()

	Validator.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	portuguese := pt_BR.New()
	uni := ut.New(portuguese, portuguese)
	var found bool
	Trans, found = uni.GetTranslator("pt_BR")
	if !found {
		log.Fatal("translator not found")
	}

	if err := pt_BR_translations.RegisterDefaultTranslations(Validator, Trans); err != nil {
		log.Fatal(err)
	}

	registerTranslation := func(tag string, msg string) {
		Validator.RegisterTranslation(tag, Trans, func(ut ut.Translator) error {
			return ut.Add(tag, msg, true)
		}, func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T(tag, translatedField(fe), fe.Param())
			return t
		})
	}

	registerTranslation("required", "{0} é obrigatório.")
	registerTranslation("email", "{0} deve ser um endereço de e-mail válido.")
	registerTranslation("min", "{0} deve ter pelo menos {1} caracteres.")
	registerTranslation("max", "{0} deve ter no máximo {1} caracteres.")
	registerTranslation("gt", "{0} deve ser maior que {1}.")
	registerTranslation("oneof", "{0} deve ser um dos valores: {1}.")
}
