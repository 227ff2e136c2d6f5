// internal/webutil/response.go
package webutil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"agape_study_api/internal/model"
)

// HandleError maps err to a status code and writes the standard error body.
// Errors that are not *model.AppError never reach the client verbatim.
func HandleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	if logger == nil {
		logger = slog.Default()
	}
	statusCode := MapErrorToStatusCode(err)

	var detail model.ErrorDetail
	var appErr *model.AppError
	if errors.As(err, &appErr) {
		detail = appErr.Detail()
	} else {
		logger.Error("Unhandled error", "error", err)
		detail = model.ErrorDetail{
			Code:    "INTERNAL_SERVER_ERROR",
			Message: "Erro interno do servidor.",
		}
	}

	RespondWithJSON(w, statusCode, model.APIErrorResponse{
		Success: false,
		Message: detail.Message,
		Error:   detail,
	}, logger)
}

// MapErrorToStatusCode checks ErrTransactionFailure first: a rolled-back
// transaction may still carry the repository sentinel that caused it.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, model.ErrTransactionFailure):
		return http.StatusInternalServerError
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, model.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, model.ErrTooManyRequests):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}, logger *slog.Logger) {
	response, err := json.Marshal(payload)
	if err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("Error marshaling JSON response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success":false,"message":"Erro ao gerar a resposta.","error":{"code":"INTERNAL_SERVER_ERROR","message":"Erro ao gerar a resposta."}}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
