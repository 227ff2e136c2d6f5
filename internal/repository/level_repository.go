// internal/repository/level_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"agape_study_api/internal/middleware"
	"agape_study_api/internal/model"

	"gorm.io/gorm"
)

// LevelRepository covers the niveis table, including the position-shifting
// statements used to keep active positions dense.
type LevelRepository interface {
	Create(ctx context.Context, tx *gorm.DB, level *model.Level) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*model.Level, error)
	Search(ctx context.Context, db *gorm.DB, term string) ([]*model.Level, error)
	FindActive(ctx context.Context, db *gorm.DB) ([]*model.Level, error)
	Update(ctx context.Context, tx *gorm.DB, id int64, updates map[string]interface{}) error
	Delete(ctx context.Context, tx *gorm.DB, id int64) error
	ExistsActiveAtPosition(ctx context.Context, db *gorm.DB, position int) (bool, error)
	ShiftUpFrom(ctx context.Context, tx *gorm.DB, position int) error
	ShiftDownAfter(ctx context.Context, tx *gorm.DB, position int) error
	SetActivation(ctx context.Context, tx *gorm.DB, id int64, active bool, position *int) error
	CountActive(ctx context.Context, db *gorm.DB) (int64, error)
}

type gormLevelRepository struct{}

func NewGormLevelRepository() LevelRepository {
	return &gormLevelRepository{}
}

func (r *gormLevelRepository) Create(ctx context.Context, tx *gorm.DB, level *model.Level) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(level)
	if result.Error != nil {
		logger.Error("Error creating level in DB", "error", result.Error, "title", level.Title)
		return fmt.Errorf("gormLevelRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormLevelRepository) FindByID(ctx context.Context, db *gorm.DB, id int64) (*model.Level, error) {
	logger := middleware.GetLogger(ctx)
	var level model.Level
	result := db.WithContext(ctx).Where("id = ?", id).First(&level)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding level by ID in DB", "error", result.Error, "level_id", id)
		return nil, fmt.Errorf("gormLevelRepository.FindByID: %w", result.Error)
	}
	return &level, nil
}

// Search matches a numeric term against the id, anything else against
// title and description, case-insensitively.
func (r *gormLevelRepository) Search(ctx context.Context, db *gorm.DB, term string) ([]*model.Level, error) {
	logger := middleware.GetLogger(ctx)
	var levels []*model.Level

	query := db.WithContext(ctx).Model(&model.Level{})
	term = strings.TrimSpace(term)
	if term != "" {
		if id, err := strconv.ParseInt(term, 10, 64); err == nil {
			query = query.Where("id = ?", id)
		} else {
			pattern := "%" + strings.ToLower(term) + "%"
			query = query.Where("LOWER(titulo) LIKE ? OR LOWER(descricao) LIKE ?", pattern, pattern)
		}
	}

	result := query.Order("id ASC").Find(&levels)
	if result.Error != nil {
		logger.Error("Error searching levels in DB", "error", result.Error, "term", term)
		return nil, fmt.Errorf("gormLevelRepository.Search: %w", result.Error)
	}
	return levels, nil
}

func (r *gormLevelRepository) FindActive(ctx context.Context, db *gorm.DB) ([]*model.Level, error) {
	logger := middleware.GetLogger(ctx)
	var levels []*model.Level
	result := db.WithContext(ctx).Where("ativo = ?", true).Order("posicao ASC").Find(&levels)
	if result.Error != nil {
		logger.Error("Error finding active levels in DB", "error", result.Error)
		return nil, fmt.Errorf("gormLevelRepository.FindActive: %w", result.Error)
	}
	return levels, nil
}

func (r *gormLevelRepository) Update(ctx context.Context, tx *gorm.DB, id int64, updates map[string]interface{}) error {
	logger := middleware.GetLogger(ctx)
	if len(updates) == 0 {
		return nil
	}
	result := tx.WithContext(ctx).Model(&model.Level{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		logger.Error("Error updating level in DB", "error", result.Error, "level_id", id)
		return fmt.Errorf("gormLevelRepository.Update: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormLevelRepository) Delete(ctx context.Context, tx *gorm.DB, id int64) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Where("id = ?", id).Delete(&model.Level{})
	if result.Error != nil {
		logger.Error("Error deleting level in DB", "error", result.Error, "level_id", id)
		return fmt.Errorf("gormLevelRepository.Delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormLevelRepository) ExistsActiveAtPosition(ctx context.Context, db *gorm.DB, position int) (bool, error) {
	logger := middleware.GetLogger(ctx)
	var count int64
	result := db.WithContext(ctx).Model(&model.Level{}).
		Where("ativo = ? AND posicao = ?", true, position).
		Count(&count)
	if result.Error != nil {
		logger.Error("Error checking occupied position in DB", "error", result.Error, "position", position)
		return false, fmt.Errorf("gormLevelRepository.ExistsActiveAtPosition: %w", result.Error)
	}
	return count > 0, nil
}

// ShiftUpFrom moves every active level at or after position one slot down the list (posicao + 1).
func (r *gormLevelRepository) ShiftUpFrom(ctx context.Context, tx *gorm.DB, position int) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Model(&model.Level{}).
		Where("ativo = ? AND posicao >= ?", true, position).
		Update("posicao", gorm.Expr("posicao + 1"))
	if result.Error != nil {
		logger.Error("Error shifting level positions up", "error", result.Error, "from_position", position)
		return fmt.Errorf("gormLevelRepository.ShiftUpFrom: %w", result.Error)
	}
	logger.Debug("Shifted level positions up", "from_position", position, "rows", result.RowsAffected)
	return nil
}

// ShiftDownAfter closes the gap left at position (posicao - 1 for everything after it).
func (r *gormLevelRepository) ShiftDownAfter(ctx context.Context, tx *gorm.DB, position int) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Model(&model.Level{}).
		Where("ativo = ? AND posicao > ?", true, position).
		Update("posicao", gorm.Expr("posicao - 1"))
	if result.Error != nil {
		logger.Error("Error shifting level positions down", "error", result.Error, "after_position", position)
		return fmt.Errorf("gormLevelRepository.ShiftDownAfter: %w", result.Error)
	}
	logger.Debug("Shifted level positions down", "after_position", position, "rows", result.RowsAffected)
	return nil
}

// SetActivation writes ativo and posicao together. A nil position is stored as NULL.
func (r *gormLevelRepository) SetActivation(ctx context.Context, tx *gorm.DB, id int64, active bool, position *int) error {
	logger := middleware.GetLogger(ctx)
	updates := map[string]interface{}{"ativo": active, "posicao": nil}
	if position != nil {
		updates["posicao"] = *position
	}
	result := tx.WithContext(ctx).Model(&model.Level{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		logger.Error("Error setting level activation", "error", result.Error, "level_id", id, "active", active)
		return fmt.Errorf("gormLevelRepository.SetActivation: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormLevelRepository) CountActive(ctx context.Context, db *gorm.DB) (int64, error) {
	logger := middleware.GetLogger(ctx)
	var count int64
	result := db.WithContext(ctx).Model(&model.Level{}).Where("ativo = ?", true).Count(&count)
	if result.Error != nil {
		logger.Error("Error counting active levels", "error", result.Error)
		return 0, fmt.Errorf("gormLevelRepository.CountActive: %w", result.Error)
	}
	return count, nil
}
