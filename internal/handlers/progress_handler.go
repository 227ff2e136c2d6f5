// internal/handlers/progress_handler.go
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"agape_study_api/internal/model"
	"agape_study_api/internal/service"
	"agape_study_api/internal/webutil"
)

type ProgressHandler struct {
	service service.ProgressService
	logger  *slog.Logger
}

func NewProgressHandler(s service.ProgressService, logger *slog.Logger) *ProgressHandler {
	return &ProgressHandler{service: s, logger: defaultLogger(logger)}
}

// RecordProgress handles POST /progresso. Range checks on ordem live in the service.
func (h *ProgressHandler) RecordProgress(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "RecordProgress"))

	userID, ok := currentUserID(w, r, logger)
	if !ok {
		return
	}
	logger = logger.With(slog.Int64("user_id", userID))

	var req model.RecordProgressRequest
	if err := webutil.DecodeJSONBody(w, r, &req); err != nil {
		logger.Warn("Invalid progress request", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	result, err := h.service.RecordProgress(r.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, model.ErrTransactionFailure) {
			logger.Error("Progress transaction rolled back", slog.Any("error", err))
		} else {
			logger.Warn("Progress rejected", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"message":  "Progresso salvo com sucesso!",
		"xp_ganho": result.XPEarned,
		"ordem":    result.Order,
	}, logger)
}

// Buttons handles GET /progresso/botoes/{nivelId}.
func (h *ProgressHandler) Buttons(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "Buttons"))

	userID, ok := currentUserID(w, r, logger)
	if !ok {
		return
	}
	levelID, err := webutil.IDParam(r, "nivelId")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	buttons, err := h.service.GetButtons(r.Context(), userID, levelID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"success": true, "botoesCompletos": buttons}, logger)
}

// Detailed handles GET /progresso/detalhado.
func (h *ProgressHandler) Detailed(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "Detailed"))

	userID, ok := currentUserID(w, r, logger)
	if !ok {
		return
	}

	counts, err := h.service.GetCompletedByLevel(r.Context(), userID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"success": true, "niveisCompletos": counts}, logger)
}

// Reconcile handles POST /progresso/reconciliar.
func (h *ProgressHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "Reconcile"))

	userID, ok := currentUserID(w, r, logger)
	if !ok {
		return
	}

	result, err := h.service.Reconcile(r.Context(), userID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("XP reconciled", slog.Int64("user_id", userID), slog.Int("xp_total", result.XPTotal))
	webutil.RespondWithJSON(w, http.StatusOK, result, logger)
}
