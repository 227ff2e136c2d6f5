// internal/repository/annotation_repository.go
package repository

import (
	"context"
	"fmt"

	"agape_study_api/internal/middleware"
	"agape_study_api/internal/model"

	"gorm.io/gorm"
)

type AnnotationRepository interface {
	Create(ctx context.Context, db *gorm.DB, annotation *model.Annotation) error
	ListByUser(ctx context.Context, db *gorm.DB, userID int64) ([]*model.Annotation, error)
}

type gormAnnotationRepository struct{}

func NewGormAnnotationRepository() AnnotationRepository {
	return &gormAnnotationRepository{}
}

func (r *gormAnnotationRepository) Create(ctx context.Context, db *gorm.DB, annotation *model.Annotation) error {
	logger := middleware.GetLogger(ctx)
	result := db.WithContext(ctx).Create(annotation)
	if result.Error != nil {
		logger.Error("Error creating annotation in DB",
			"error", result.Error,
			"user_id", annotation.UserID,
			"book", annotation.Book,
		)
		return fmt.Errorf("gormAnnotationRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormAnnotationRepository) ListByUser(ctx context.Context, db *gorm.DB, userID int64) ([]*model.Annotation, error) {
	logger := middleware.GetLogger(ctx)
	var annotations []*model.Annotation
	result := db.WithContext(ctx).
		Where("usuario_id = ?", userID).
		Order("criado_em DESC, id_anotacao DESC").
		Find(&annotations)
	if result.Error != nil {
		logger.Error("Error listing annotations", "error", result.Error, "user_id", userID)
		return nil, fmt.Errorf("gormAnnotationRepository.ListByUser: %w", result.Error)
	}
	return annotations, nil
}
