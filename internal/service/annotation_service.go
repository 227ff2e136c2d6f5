// internal/service/annotation_service.go
package service

import (
	"context"

	"agape_study_api/internal/middleware"
	"agape_study_api/internal/model"
	"agape_study_api/internal/repository"

	"gorm.io/gorm"
)

type AnnotationService interface {
	CreateAnnotation(ctx context.Context, userID int64, req *model.CreateAnnotationRequest) (*model.Annotation, error)
	ListAnnotations(ctx context.Context, userID int64) ([]*model.Annotation, error)
}

type annotationService struct {
	db             *gorm.DB
	annotationRepo repository.AnnotationRepository
}

func NewAnnotationService(db *gorm.DB, annotationRepo repository.AnnotationRepository) AnnotationService {
	return &annotationService{db: db, annotationRepo: annotationRepo}
}

func (s *annotationService) CreateAnnotation(ctx context.Context, userID int64, req *model.CreateAnnotationRequest) (*model.Annotation, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID)

	if req.Chapter <= 0 {
		return nil, model.NewAppError("VALIDATION_ERROR", "Capítulo deve ser um número positivo.", "capitulo", model.ErrInvalidInput)
	}
	if req.Verse <= 0 {
		return nil, model.NewAppError("VALIDATION_ERROR", "Versículo deve ser um número positivo.", "versiculo", model.ErrInvalidInput)
	}

	annotation := &model.Annotation{
		UserID:    userID,
		Version:   req.Version,
		Book:      req.Book,
		Chapter:   req.Chapter,
		Verse:     req.Verse,
		VerseText: req.VerseText,
		Note:      req.Note,
	}
	if err := s.annotationRepo.Create(ctx, s.db, annotation); err != nil {
		logger.Error("Failed to create annotation", "error", err)
		return nil, internalError("Erro ao salvar anotação.", err)
	}

	logger.Info("Annotation created", "annotation_id", annotation.ID)
	return annotation, nil
}

func (s *annotationService) ListAnnotations(ctx context.Context, userID int64) ([]*model.Annotation, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID)
	annotations, err := s.annotationRepo.ListByUser(ctx, s.db, userID)
	if err != nil {
		logger.Error("Failed to list annotations", "error", err)
		return nil, internalError("Erro ao listar anotações.", err)
	}
	return annotations, nil
}
