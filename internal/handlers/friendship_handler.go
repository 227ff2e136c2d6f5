// internal/handlers/friendship_handler.go
package handlers

import (
	"log/slog"
	"net/http"

	"agape_study_api/internal/model"
	"agape_study_api/internal/service"
	"agape_study_api/internal/webutil"
)

type FriendshipHandler struct {
	service service.FriendshipService
	logger  *slog.Logger
}

func NewFriendshipHandler(s service.FriendshipService, logger *slog.Logger) *FriendshipHandler {
	return &FriendshipHandler{service: s, logger: defaultLogger(logger)}
}

func (h *FriendshipHandler) Overview(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "FriendshipOverview"))

	userID, ok := currentUserID(w, r, logger)
	if !ok {
		return
	}

	overview, err := h.service.GetOverview(r.Context(), userID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, overview, logger)
}

func (h *FriendshipHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "SendFriendRequest"))

	userID, ok := currentUserID(w, r, logger)
	if !ok {
		return
	}

	var req model.CreateFriendshipRequest
	if err := webutil.DecodeAndValidate(w, r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	friendship, err := h.service.SendRequest(r.Context(), userID, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Solicitação de amizade enviada!",
		"amizade": friendship,
	}, logger)
}

func (h *FriendshipHandler) RespondRequest(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "RespondFriendRequest"))

	userID, ok := currentUserID(w, r, logger)
	if !ok {
		return
	}
	id, err := webutil.IDParam(r, "id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.UpdateFriendshipRequest
	if err := webutil.DecodeAndValidate(w, r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	friendship, err := h.service.RespondRequest(r.Context(), userID, id, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Solicitação atualizada!",
		"amizade": friendship,
	}, logger)
}

func (h *FriendshipHandler) RemoveFriendship(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "RemoveFriendship"))

	userID, ok := currentUserID(w, r, logger)
	if !ok {
		return
	}
	id, err := webutil.IDParam(r, "id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	if err := h.service.RemoveFriendship(r.Context(), userID, id); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Amizade removida."}, logger)
}

// SearchUsers handles GET /amizades/pesquisar?termo=.
func (h *FriendshipHandler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "SearchFriendCandidates"))

	userID, ok := currentUserID(w, r, logger)
	if !ok {
		return
	}

	users, err := h.service.SearchUsers(r.Context(), userID, r.URL.Query().Get("termo"))
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, users, logger)
}
