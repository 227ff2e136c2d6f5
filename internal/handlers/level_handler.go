// internal/handlers/level_handler.go
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"agape_study_api/internal/model"
	"agape_study_api/internal/service"
	"agape_study_api/internal/webutil"
)

type LevelHandler struct {
	service service.LevelService
	logger  *slog.Logger
}

func NewLevelHandler(s service.LevelService, logger *slog.Logger) *LevelHandler {
	return &LevelHandler{service: s, logger: defaultLogger(logger)}
}

func (h *LevelHandler) CreateLevel(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "CreateLevel"))

	userID, ok := currentUserID(w, r, logger)
	if !ok {
		return
	}

	var req model.CreateLevelRequest
	if err := webutil.DecodeAndValidate(w, r, &req); err != nil {
		logger.Warn("Invalid create level request", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	level, err := h.service.CreateLevel(r.Context(), userID, &req)
	if err != nil {
		logger.Error("Error creating level in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Level created", slog.Int64("level_id", level.ID))
	webutil.RespondWithJSON(w, http.StatusCreated, level, logger)
}

// ListLevels handles GET /niveis?busca=.
// levelList wraps the level listings as {"success": true, "niveis": [...]}.
type levelList struct {
	Success bool           `json:"success"`
	Levels  []*model.Level `json:"niveis"`
}

func (h *LevelHandler) ListLevels(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ListLevels"))

	levels, err := h.service.SearchLevels(r.Context(), r.URL.Query().Get("busca"))
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if levels == nil {
		levels = []*model.Level{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, levelList{Success: true, Levels: levels}, logger)
}

func (h *LevelHandler) ListActiveLevels(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ListActiveLevels"))

	levels, err := h.service.GetActiveLevels(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if levels == nil {
		levels = []*model.Level{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, levelList{Success: true, Levels: levels}, logger)
}

func (h *LevelHandler) GetLevel(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetLevel"))

	id, err := webutil.IDParam(r, "id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	level, err := h.service.GetLevel(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Info("Level not found", slog.Int64("level_id", id))
		} else {
			logger.Error("Error getting level from service", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, level, logger)
}

func (h *LevelHandler) UpdateLevel(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "UpdateLevel"))

	id, err := webutil.IDParam(r, "id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.UpdateLevelRequest
	if err := webutil.DecodeAndValidate(w, r, &req); err != nil {
		logger.Warn("Invalid update level request", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	level, err := h.service.UpdateLevel(r.Context(), id, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Level updated", slog.Int64("level_id", id))
	webutil.RespondWithJSON(w, http.StatusOK, level, logger)
}

// SetActive handles PUT /niveis/{id}/ativar.
func (h *LevelHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "SetActive"))

	id, err := webutil.IDParam(r, "id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	logger = logger.With(slog.Int64("level_id", id))

	var req model.SetActiveRequest
	if err := webutil.DecodeJSONBody(w, r, &req); err != nil {
		logger.Warn("Invalid activation request", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	if req.Active == nil {
		appErr := model.NewAppError("VALIDATION_ERROR", "O campo ativo é obrigatório.", "ativo", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	result, err := h.service.SetActive(r.Context(), id, *req.Active, req.Position)
	if err != nil {
		if errors.Is(err, model.ErrTransactionFailure) {
			logger.Error("Level activation rolled back", slog.Any("error", err))
		} else {
			logger.Warn("Level activation rejected", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}

	result.Success = true
	logger.Info("Level activation changed", slog.Bool("active", result.Active))
	webutil.RespondWithJSON(w, http.StatusOK, result, logger)
}

func (h *LevelHandler) DeleteLevel(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "DeleteLevel"))

	id, err := webutil.IDParam(r, "id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	if err := h.service.DeleteLevel(r.Context(), id); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Level deleted", slog.Int64("level_id", id))
	webutil.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Nível excluído com sucesso!"}, logger)
}
