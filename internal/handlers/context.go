// internal/handlers/context.go
package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"agape_study_api/internal/middleware"
	"agape_study_api/internal/model"
	"agape_study_api/internal/webutil"
)

// currentUserID writes a 401 and returns false when the request carries no authenticated user.
func currentUserID(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (int64, bool) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "Usuário não autenticado.", "", model.ErrUnauthorized)
		webutil.HandleError(w, logger, appErr)
		return 0, false
	}
	return userID, true
}

// queryInt returns def when the parameter is absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, model.NewAppError("INVALID_QUERY_PARAM", "O parâmetro "+name+" deve ser um número válido.", name, model.ErrInvalidInput)
	}
	return v, nil
}

func defaultLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
