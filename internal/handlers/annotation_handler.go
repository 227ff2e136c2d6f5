// internal/handlers/annotation_handler.go
package handlers

import (
	"log/slog"
	"net/http"

	"agape_study_api/internal/model"
	"agape_study_api/internal/service"
	"agape_study_api/internal/webutil"
)

type AnnotationHandler struct {
	service service.AnnotationService
	logger  *slog.Logger
}

func NewAnnotationHandler(s service.AnnotationService, logger *slog.Logger) *AnnotationHandler {
	return &AnnotationHandler{service: s, logger: defaultLogger(logger)}
}

func (h *AnnotationHandler) CreateAnnotation(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "CreateAnnotation"))

	userID, ok := currentUserID(w, r, logger)
	if !ok {
		return
	}

	var req model.CreateAnnotationRequest
	if err := webutil.DecodeJSONBody(w, r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if req.Version == "" || req.Book == "" || req.VerseText == "" || req.Note == "" {
		appErr := model.NewAppError("VALIDATION_ERROR", "Todos os campos são obrigatórios.", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	annotation, err := h.service.CreateAnnotation(r.Context(), userID, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusCreated, annotation, logger)
}

func (h *AnnotationHandler) ListAnnotations(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ListAnnotations"))

	userID, ok := currentUserID(w, r, logger)
	if !ok {
		return
	}

	annotations, err := h.service.ListAnnotations(r.Context(), userID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if annotations == nil {
		annotations = []*model.Annotation{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, annotations, logger)
}
