// internal/handlers/question_handler.go
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"agape_study_api/internal/model"
	"agape_study_api/internal/service"
	"agape_study_api/internal/webutil"
)

type QuestionHandler struct {
	service service.QuestionService
	logger  *slog.Logger
}

func NewQuestionHandler(s service.QuestionService, logger *slog.Logger) *QuestionHandler {
	return &QuestionHandler{service: s, logger: defaultLogger(logger)}
}

func (h *QuestionHandler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "CreateQuestion"))

	userID, ok := currentUserID(w, r, logger)
	if !ok {
		return
	}

	var req model.CreateQuestionRequest
	if err := webutil.DecodeAndValidate(w, r, &req); err != nil {
		logger.Warn("Invalid create question request", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	question, err := h.service.CreateQuestion(r.Context(), userID, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Question created", slog.Int64("question_id", question.ID), slog.Int64("level_id", question.LevelID))
	webutil.RespondWithJSON(w, http.StatusCreated, question, logger)
}

// RandomQuestions handles GET /perguntas/aleatorias?nivel_id=&quantidade=.
func (h *QuestionHandler) RandomQuestions(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "RandomQuestions"))

	levelID, err := queryInt(r, "nivel_id", 0)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	quantity, err := queryInt(r, "quantidade", 0)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	resp, err := h.service.GetRandomQuestions(r.Context(), int64(levelID), quantity)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Info("No questions for level", slog.Int("level_id", levelID))
		}
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}

func (h *QuestionHandler) ListByLevel(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ListQuestionsByLevel"))

	levelID, err := webutil.IDParam(r, "nivelId")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	questions, err := h.service.ListByLevel(r.Context(), levelID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if questions == nil {
		questions = []*model.Question{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, questions, logger)
}

func (h *QuestionHandler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetQuestion"))

	id, err := webutil.IDParam(r, "id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	question, err := h.service.GetQuestion(r.Context(), id)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, question, logger)
}

func (h *QuestionHandler) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "UpdateQuestion"))

	id, err := webutil.IDParam(r, "id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.UpdateQuestionRequest
	if err := webutil.DecodeAndValidate(w, r, &req); err != nil {
		logger.Warn("Invalid update question request", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	question, err := h.service.UpdateQuestion(r.Context(), id, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Question updated", slog.Int64("question_id", id))
	webutil.RespondWithJSON(w, http.StatusOK, question, logger)
}

func (h *QuestionHandler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "DeleteQuestion"))

	id, err := webutil.IDParam(r, "id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	if err := h.service.DeleteQuestion(r.Context(), id); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Question deleted", slog.Int64("question_id", id))
	webutil.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Pergunta excluída com sucesso!"}, logger)
}
