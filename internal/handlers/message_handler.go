// internal/handlers/message_handler.go
package handlers

import (
	"log/slog"
	"net/http"

	"agape_study_api/internal/model"
	"agape_study_api/internal/service"
	"agape_study_api/internal/webutil"
)

type MessageHandler struct {
	service service.MessageService
	logger  *slog.Logger
}

func NewMessageHandler(s service.MessageService, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{service: s, logger: defaultLogger(logger)}
}

func (h *MessageHandler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "CreateMessage"))

	userID, ok := currentUserID(w, r, logger)
	if !ok {
		return
	}

	var req model.CreateMessageRequest
	if err := webutil.DecodeAndValidate(w, r, &req); err != nil {
		logger.Warn("Invalid daily message request", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	message, err := h.service.CreateMessage(r.Context(), userID, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusCreated, message, logger)
}

func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ListMessages"))

	messages, err := h.service.ListMessages(r.Context(), r.URL.Query().Get("busca"))
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if messages == nil {
		messages = []*model.DailyMessage{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, messages, logger)
}

// Today handles GET /mensagens/hoje; the body is null when no message exists.
func (h *MessageHandler) Today(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "TodayMessage"))

	message, err := h.service.TodayMessage(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, message, logger)
}
