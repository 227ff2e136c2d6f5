//go:generate mockery --name QuestionRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"agape_study_api/internal/middleware"
	"agape_study_api/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, question *model.Question) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*model.Question, error)
	ListByLevel(ctx context.Context, db *gorm.DB, levelID int64) ([]*model.Question, error)
	RandomByLevel(ctx context.Context, db *gorm.DB, levelID int64, limit int) ([]*model.Question, error)
	NextOrder(ctx context.Context, db *gorm.DB, levelID int64) (int, error)
	Update(ctx context.Context, tx *gorm.DB, id int64, updates map[string]interface{}) error
	Delete(ctx context.Context, tx *gorm.DB, id int64) error
	DeleteByLevel(ctx context.Context, tx *gorm.DB, levelID int64) error
}

type gormQuestionRepository struct{}

func NewGormQuestionRepository() QuestionRepository {
	return &gormQuestionRepository{}
}

func (r *gormQuestionRepository) Create(ctx context.Context, tx *gorm.DB, question *model.Question) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(question)
	if result.Error != nil {
		logger.Error("Error creating question in DB", "error", result.Error, "level_id", question.LevelID)
		return fmt.Errorf("gormQuestionRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormQuestionRepository) FindByID(ctx context.Context, db *gorm.DB, id int64) (*model.Question, error) {
	logger := middleware.GetLogger(ctx)
	var question model.Question
	result := db.WithContext(ctx).Where("id = ?", id).First(&question)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding question by ID in DB", "error", result.Error, "question_id", id)
		return nil, fmt.Errorf("gormQuestionRepository.FindByID: %w", result.Error)
	}
	return &question, nil
}

func (r *gormQuestionRepository) ListByLevel(ctx context.Context, db *gorm.DB, levelID int64) ([]*model.Question, error) {
	logger := middleware.GetLogger(ctx)
	var questions []*model.Question
	result := db.WithContext(ctx).Where("nivel_id = ?", levelID).Order("ordem ASC").Find(&questions)
	if result.Error != nil {
		logger.Error("Error listing questions by level", "error", result.Error, "level_id", levelID)
		return nil, fmt.Errorf("gormQuestionRepository.ListByLevel: %w", result.Error)
	}
	return questions, nil
}

func (r *gormQuestionRepository) RandomByLevel(ctx context.Context, db *gorm.DB, levelID int64, limit int) ([]*model.Question, error) {
	logger := middleware.GetLogger(ctx)
	var questions []*model.Question
	result := db.WithContext(ctx).
		Where("nivel_id = ?", levelID).
		Order("RANDOM()").
		Limit(limit).
		Find(&questions)
	if result.Error != nil {
		logger.Error("Error selecting random questions", "error", result.Error, "level_id", levelID, "limit", limit)
		return nil, fmt.Errorf("gormQuestionRepository.RandomByLevel: %w", result.Error)
	}
	return questions, nil
}

// NextOrder returns max(ordem)+1 for the level, or 1 when it has no questions.
func (r *gormQuestionRepository) NextOrder(ctx context.Context, db *gorm.DB, levelID int64) (int, error) {
	logger := middleware.GetLogger(ctx)
	var maxOrder int
	result := db.WithContext(ctx).Model(&model.Question{}).
		Select("COALESCE(MAX(ordem), 0)").
		Where("nivel_id = ?", levelID).
		Scan(&maxOrder)
	if result.Error != nil {
		logger.Error("Error computing next question order", "error", result.Error, "level_id", levelID)
		return 0, fmt.Errorf("gormQuestionRepository.NextOrder: %w", result.Error)
	}
	return maxOrder + 1, nil
}

func (r *gormQuestionRepository) Update(ctx context.Context, tx *gorm.DB, id int64, updates map[string]interface{}) error {
	logger := middleware.GetLogger(ctx)
	if len(updates) == 0 {
		return nil
	}
	result := tx.WithContext(ctx).Model(&model.Question{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		logger.Error("Error updating question in DB", "error", result.Error, "question_id", id)
		return fmt.Errorf("gormQuestionRepository.Update: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormQuestionRepository) Delete(ctx context.Context, tx *gorm.DB, id int64) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Where("id = ?", id).Delete(&model.Question{})
	if result.Error != nil {
		logger.Error("Error deleting question in DB", "error", result.Error, "question_id", id)
		return fmt.Errorf("gormQuestionRepository.Delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormQuestionRepository) DeleteByLevel(ctx context.Context, tx *gorm.DB, levelID int64) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Where("nivel_id = ?", levelID).Delete(&model.Question{})
	if result.Error != nil {
		logger.Error("Error deleting questions of level", "error", result.Error, "level_id", levelID)
		return fmt.Errorf("gormQuestionRepository.DeleteByLevel: %w", result.Error)
	}
	logger.Debug("Deleted questions of level", "level_id", levelID, "rows", result.RowsAffected)
	return nil
}
