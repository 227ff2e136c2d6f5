// internal/handlers/user_handler.go
package handlers

import (
	"log/slog"
	"net/http"

	"agape_study_api/internal/model"
	"agape_study_api/internal/service"
	"agape_study_api/internal/webutil"
)

type UserHandler struct {
	service service.UserService
	logger  *slog.Logger
}

func NewUserHandler(s service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{service: s, logger: defaultLogger(logger)}
}

// SearchUsers handles GET /usuarios?busca= (admin).
func (h *UserHandler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "SearchUsers"))

	users, err := h.service.SearchUsers(r.Context(), r.URL.Query().Get("busca"))
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if users == nil {
		users = []*model.PublicUser{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, users, logger)
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetUser"))

	id, err := webutil.IDParam(r, "id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, user, logger)
}

func (h *UserHandler) GetPublicUser(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetPublicUser"))

	id, err := webutil.IDParam(r, "id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	user, err := h.service.GetPublicUser(r.Context(), id)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, user, logger)
}

// AdminUpdateUser handles PUT /usuarios/{id}. xp_total is not part of the body.
func (h *UserHandler) AdminUpdateUser(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "AdminUpdateUser"))

	id, err := webutil.IDParam(r, "id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.AdminUpdateUserRequest
	if err := webutil.DecodeAndValidate(w, r, &req); err != nil {
		logger.Warn("Invalid user update request", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	user, err := h.service.AdminUpdateUser(r.Context(), id, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("User updated by admin", slog.Int64("user_id", id))
	webutil.RespondWithJSON(w, http.StatusOK, user, logger)
}

// UpdateProfile handles PUT /usuarios/perfil for the caller.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "UpdateProfile"))

	userID, ok := currentUserID(w, r, logger)
	if !ok {
		return
	}

	var req model.UpdateProfileRequest
	if err := webutil.DecodeAndValidate(w, r, &req); err != nil {
		logger.Warn("Invalid profile update request", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Profile updated", slog.Int64("user_id", userID))
	webutil.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Perfil atualizado com sucesso!",
		"user":    user,
	}, logger)
}
