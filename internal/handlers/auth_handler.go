// internal/handlers/auth_handler.go
package handlers

import (
	"log/slog"
	"net/http"

	"agape_study_api/internal/model"
	"agape_study_api/internal/service"
	"agape_study_api/internal/webutil"
)

type AuthHandler struct {
	service service.AuthService
	logger  *slog.Logger
}

func NewAuthHandler(s service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{service: s, logger: defaultLogger(logger)}
}

// Register creates a regular account.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "Register"))

	var req model.RegisterRequest
	if err := webutil.DecodeAndValidate(w, r, &req); err != nil {
		logger.Warn("Invalid registration request", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	user, err := h.service.Register(r.Context(), &req)
	if err != nil {
		logger.Warn("Registration failed in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("User registered", slog.Int64("user_id", user.ID))
	webutil.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Usuário cadastrado com sucesso!",
		"user":    user.Public(),
	}, logger)
}

// Login returns a bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "Login"))

	var req model.LoginRequest
	if err := webutil.DecodeAndValidate(w, r, &req); err != nil {
		logger.Warn("Invalid login request", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		logger.Warn("Login failed", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}

// VerifyToken echoes the authenticated user.
func (h *AuthHandler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "VerifyToken"))

	userID, ok := currentUserID(w, r, logger)
	if !ok {
		return
	}

	user, err := h.service.VerifyToken(r.Context(), userID)
	if err != nil {
		logger.Warn("Token verification failed", slog.Any("error", err), slog.Int64("user_id", userID))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"auth": true,
		"user": user,
	}, logger)
}
