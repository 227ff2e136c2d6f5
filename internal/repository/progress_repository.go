// internal/repository/progress_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"agape_study_api/internal/middleware"
	"agape_study_api/internal/model"

	"gorm.io/gorm"
)

type ProgressRepository interface {
	Find(ctx context.Context, db *gorm.DB, userID, levelID int64, order int) (*model.ProgressEntry, error)
	Create(ctx context.Context, tx *gorm.DB, entry *model.ProgressEntry) error
	Update(ctx context.Context, tx *gorm.DB, entry *model.ProgressEntry) error
	ListByLevel(ctx context.Context, db *gorm.DB, userID, levelID int64) ([]*model.ProgressEntry, error)
	CountCompletedByLevel(ctx context.Context, db *gorm.DB, userID int64) (map[int64]int, error)
	SummarizeCompleted(ctx context.Context, db *gorm.DB, userID int64) ([]*model.LevelCompletion, error)
}

type gormProgressRepository struct{}

func NewGormProgressRepository() ProgressRepository {
	return &gormProgressRepository{}
}

func (r *gormProgressRepository) Find(ctx context.Context, db *gorm.DB, userID, levelID int64, order int) (*model.ProgressEntry, error) {
	logger := middleware.GetLogger(ctx)
	var entry model.ProgressEntry
	result := db.WithContext(ctx).
		Where("usuario_id = ? AND nivel_id = ? AND ordem = ?", userID, levelID, order).
		First(&entry)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding progress entry in DB",
			"error", result.Error,
			"user_id", userID,
			"level_id", levelID,
			"order", order,
		)
		return nil, fmt.Errorf("gormProgressRepository.Find: %w", result.Error)
	}
	return &entry, nil
}

func (r *gormProgressRepository) Create(ctx context.Context, tx *gorm.DB, entry *model.ProgressEntry) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(entry)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			logger.Warn("Duplicate progress entry on create", "error", result.Error, "level_id", entry.LevelID, "order", entry.Order)
			return model.ErrConflict
		}
		logger.Error("Error creating progress entry in DB", "error", result.Error, "level_id", entry.LevelID, "order", entry.Order)
		return fmt.Errorf("gormProgressRepository.Create: %w", result.Error)
	}
	return nil
}

// Update writes xp_ganho and concluido for the entry identified by its composite key.
func (r *gormProgressRepository) Update(ctx context.Context, tx *gorm.DB, entry *model.ProgressEntry) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Model(&model.ProgressEntry{}).
		Where("usuario_id = ? AND nivel_id = ? AND ordem = ?", entry.UserID, entry.LevelID, entry.Order).
		Updates(map[string]interface{}{
			"xp_ganho":  entry.XPEarned,
			"concluido": entry.Completed,
		})
	if result.Error != nil {
		logger.Error("Error updating progress entry in DB", "error", result.Error, "level_id", entry.LevelID, "order", entry.Order)
		return fmt.Errorf("gormProgressRepository.Update: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormProgressRepository) ListByLevel(ctx context.Context, db *gorm.DB, userID, levelID int64) ([]*model.ProgressEntry, error) {
	logger := middleware.GetLogger(ctx)
	var entries []*model.ProgressEntry
	result := db.WithContext(ctx).
		Where("usuario_id = ? AND nivel_id = ?", userID, levelID).
		Order("ordem ASC").
		Find(&entries)
	if result.Error != nil {
		logger.Error("Error listing progress by level", "error", result.Error, "user_id", userID, "level_id", levelID)
		return nil, fmt.Errorf("gormProgressRepository.ListByLevel: %w", result.Error)
	}
	return entries, nil
}

// CountCompletedByLevel returns nivel_id -> number of completed steps.
func (r *gormProgressRepository) CountCompletedByLevel(ctx context.Context, db *gorm.DB, userID int64) (map[int64]int, error) {
	logger := middleware.GetLogger(ctx)
	var rows []struct {
		LevelID   int64 `gorm:"column:nivel_id"`
		Completed int   `gorm:"column:completos"`
	}
	result := db.WithContext(ctx).Model(&model.ProgressEntry{}).
		Select("nivel_id, COUNT(*) AS completos").
		Where("usuario_id = ? AND concluido = ?", userID, true).
		Group("nivel_id").
		Scan(&rows)
	if result.Error != nil {
		logger.Error("Error counting completed steps", "error", result.Error, "user_id", userID)
		return nil, fmt.Errorf("gormProgressRepository.CountCompletedByLevel: %w", result.Error)
	}

	counts := make(map[int64]int, len(rows))
	for _, row := range rows {
		counts[row.LevelID] = row.Completed
	}
	return counts, nil
}

// SummarizeCompleted returns, per level, the completed-step count and their XP sum.
func (r *gormProgressRepository) SummarizeCompleted(ctx context.Context, db *gorm.DB, userID int64) ([]*model.LevelCompletion, error) {
	logger := middleware.GetLogger(ctx)
	var rows []*model.LevelCompletion
	result := db.WithContext(ctx).Model(&model.ProgressEntry{}).
		Select("nivel_id, COUNT(*) AS completos, COALESCE(SUM(xp_ganho), 0) AS xp_total").
		Where("usuario_id = ? AND concluido = ?", userID, true).
		Group("nivel_id").
		Order("nivel_id ASC").
		Scan(&rows)
	if result.Error != nil {
		logger.Error("Error summarizing completed progress", "error", result.Error, "user_id", userID)
		return nil, fmt.Errorf("gormProgressRepository.SummarizeCompleted: %w", result.Error)
	}
	return rows, nil
}
