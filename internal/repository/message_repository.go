// internal/repository/message_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"agape_study_api/internal/middleware"
	"agape_study_api/internal/model"

	"gorm.io/gorm"
)

type MessageRepository interface {
	Create(ctx context.Context, tx *gorm.DB, message *model.DailyMessage) error
	NextDisplayOrder(ctx context.Context, db *gorm.DB) (int, error)
	Search(ctx context.Context, db *gorm.DB, term string) ([]*model.DailyMessage, error)
	Count(ctx context.Context, db *gorm.DB) (int64, error)
	FindByDisplayOrder(ctx context.Context, db *gorm.DB, order int) (*model.DailyMessage, error)
}

type gormMessageRepository struct{}

func NewGormMessageRepository() MessageRepository {
	return &gormMessageRepository{}
}

func (r *gormMessageRepository) Create(ctx context.Context, tx *gorm.DB, message *model.DailyMessage) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(message)
	if result.Error != nil {
		logger.Error("Error creating daily message in DB", "error", result.Error, "title", message.Title)
		return fmt.Errorf("gormMessageRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormMessageRepository) NextDisplayOrder(ctx context.Context, db *gorm.DB) (int, error) {
	logger := middleware.GetLogger(ctx)
	var maxOrder int
	result := db.WithContext(ctx).Model(&model.DailyMessage{}).
		Select("COALESCE(MAX(ordem_exibicao), 0)").
		Scan(&maxOrder)
	if result.Error != nil {
		logger.Error("Error computing next display order", "error", result.Error)
		return 0, fmt.Errorf("gormMessageRepository.NextDisplayOrder: %w", result.Error)
	}
	return maxOrder + 1, nil
}

func (r *gormMessageRepository) Search(ctx context.Context, db *gorm.DB, term string) ([]*model.DailyMessage, error) {
	logger := middleware.GetLogger(ctx)
	var messages []*model.DailyMessage

	query := db.WithContext(ctx).Model(&model.DailyMessage{})
	if term = strings.TrimSpace(term); term != "" {
		pattern := "%" + strings.ToLower(term) + "%"
		query = query.Where("LOWER(titulo) LIKE ? OR LOWER(livro) LIKE ? OR LOWER(texto_versiculo) LIKE ?", pattern, pattern, pattern)
	}

	if result := query.Order("ordem_exibicao DESC").Find(&messages); result.Error != nil {
		logger.Error("Error searching daily messages", "error", result.Error, "term", term)
		return nil, fmt.Errorf("gormMessageRepository.Search: %w", result.Error)
	}
	return messages, nil
}

func (r *gormMessageRepository) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	logger := middleware.GetLogger(ctx)
	var count int64
	if result := db.WithContext(ctx).Model(&model.DailyMessage{}).Count(&count); result.Error != nil {
		logger.Error("Error counting daily messages", "error", result.Error)
		return 0, fmt.Errorf("gormMessageRepository.Count: %w", result.Error)
	}
	return count, nil
}

func (r *gormMessageRepository) FindByDisplayOrder(ctx context.Context, db *gorm.DB, order int) (*model.DailyMessage, error) {
	logger := middleware.GetLogger(ctx)
	var message model.DailyMessage
	result := db.WithContext(ctx).Where("ordem_exibicao = ?", order).First(&message)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding daily message by display order", "error", result.Error, "order", order)
		return nil, fmt.Errorf("gormMessageRepository.FindByDisplayOrder: %w", result.Error)
	}
	return &message, nil
}
