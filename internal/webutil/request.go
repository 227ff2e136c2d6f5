// internal/webutil/request.go
package webutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"agape_study_api/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 20

// DecodeJSONBody decodes a single JSON object, rejecting unknown fields.
func DecodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if r.Body == nil || r.Body == http.NoBody {
		return model.NewAppError("INVALID_REQUEST_BODY", "O corpo da requisição é obrigatório.", "", model.ErrInvalidInput)
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return model.NewAppError("INVALID_FIELD_TYPE", fmt.Sprintf("O campo %s possui um tipo inválido.", typeErr.Field), typeErr.Field, model.ErrInvalidInput)
		}
		return model.NewAppError("INVALID_REQUEST_BODY", "O corpo da requisição não está em um formato válido.", "", model.ErrInvalidInput)
	}
	return nil
}

// ValidateStruct runs the shared validator and returns the first failure,
// translated, as an InvalidInput AppError.
func ValidateStruct(s interface{}) error {
	err := Validator.Struct(s)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		firstErr := validationErrors[0]
		return model.NewAppError("VALIDATION_ERROR", firstErr.Translate(Trans), firstErr.Field(), model.ErrInvalidInput)
	}
	return err
}

// DecodeAndValidate combines DecodeJSONBody and ValidateStruct.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if err := DecodeJSONBody(w, r, dst); err != nil {
		return err
	}
	return ValidateStruct(dst)
}

// IDParam parses a positive integer URL parameter.
func IDParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, model.NewAppError("INVALID_URL_PARAM", fmt.Sprintf("O parâmetro %s deve ser um número válido.", name), name, model.ErrInvalidInput)
	}
	return id, nil
}
