// internal/repository/user_repository.go
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

type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *model.User) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*model.User, error)
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*model.User, error)
	Search(ctx context.Context, db *gorm.DB, term string) ([]*model.User, error)
	SearchSummaries(ctx context.Context, db *gorm.DB, term string, excludeID int64) ([]*model.UserSummary, error)
	Update(ctx context.Context, tx *gorm.DB, id int64, updates map[string]interface{}) error
	EmailTakenByOther(ctx context.Context, db *gorm.DB, email string, excludeID int64) (bool, error)
	IncrementXP(ctx context.Context, tx *gorm.DB, id int64, delta int) error
	SetXPTotal(ctx context.Context, tx *gorm.DB, id int64, total int) error
}

type gormUserRepository struct{}

func NewGormUserRepository() UserRepository {
	return &gormUserRepository{}
}

func (r *gormUserRepository) Create(ctx context.Context, tx *gorm.DB, user *model.User) error {
	logger := middleware.GetLogger(ctx)

	result := tx.WithContext(ctx).Create(user)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			logger.Warn("Duplicate key error on create user", "error", result.Error, "email", user.Email)
			return model.ErrConflict
		}
		logger.Error("Error creating user in DB", "error", result.Error, "email", user.Email)
		return fmt.Errorf("gormUserRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormUserRepository) FindByID(ctx context.Context, db *gorm.DB, id int64) (*model.User, error) {
	logger := middleware.GetLogger(ctx)
	var user model.User

	result := db.WithContext(ctx).Where("id_usuario = ?", id).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding user by ID in DB", "error", result.Error, "user_id", id)
		return nil, fmt.Errorf("gormUserRepository.FindByID: %w", result.Error)
	}
	return &user, nil
}

func (r *gormUserRepository) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*model.User, error) {
	logger := middleware.GetLogger(ctx)
	var user model.User

	result := db.WithContext(ctx).Where("email = ?", email).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			logger.Debug("User not found by email", "email", email)
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding user by email in DB", "error", result.Error, "email", email)
		return nil, fmt.Errorf("gormUserRepository.FindByEmail: %w", result.Error)
	}
	return &user, nil
}

// Search is the admin listing: numeric terms match the id, others match name or email.
func (r *gormUserRepository) Search(ctx context.Context, db *gorm.DB, term string) ([]*model.User, error) {
	logger := middleware.GetLogger(ctx)
	var users []*model.User

	query := db.WithContext(ctx).Model(&model.User{})
	term = strings.TrimSpace(term)
	if term != "" {
		if id, err := strconv.ParseInt(term, 10, 64); err == nil {
			query = query.Where("id_usuario = ?", id)
		} else {
			pattern := "%" + strings.ToLower(term) + "%"
			query = query.Where("LOWER(nome) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
		}
	}

	if result := query.Order("id_usuario ASC").Find(&users); result.Error != nil {
		logger.Error("Error searching users in DB", "error", result.Error, "term", term)
		return nil, fmt.Errorf("gormUserRepository.Search: %w", result.Error)
	}
	return users, nil
}

// SearchSummaries is the friend finder: name or email match, never the caller.
func (r *gormUserRepository) SearchSummaries(ctx context.Context, db *gorm.DB, term string, excludeID int64) ([]*model.UserSummary, error) {
	logger := middleware.GetLogger(ctx)
	var users []*model.UserSummary

	pattern := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
	result := db.WithContext(ctx).Model(&model.User{}).
		Select("id_usuario, nome, email").
		Where("(LOWER(nome) LIKE ? OR LOWER(email) LIKE ?) AND id_usuario <> ?", pattern, pattern, excludeID).
		Order("nome ASC").
		Limit(20).
		Scan(&users)
	if result.Error != nil {
		logger.Error("Error searching user summaries in DB", "error", result.Error, "term", term)
		return nil, fmt.Errorf("gormUserRepository.SearchSummaries: %w", result.Error)
	}
	return users, nil
}

func (r *gormUserRepository) Update(ctx context.Context, tx *gorm.DB, id int64, updates map[string]interface{}) error {
	logger := middleware.GetLogger(ctx)
	if len(updates) == 0 {
		return nil
	}
	result := tx.WithContext(ctx).Model(&model.User{}).Where("id_usuario = ?", id).Updates(updates)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			logger.Warn("Duplicate key error on update user", "error", result.Error, "user_id", id)
			return model.ErrConflict
		}
		logger.Error("Error updating user in DB", "error", result.Error, "user_id", id)
		return fmt.Errorf("gormUserRepository.Update: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormUserRepository) EmailTakenByOther(ctx context.Context, db *gorm.DB, email string, excludeID int64) (bool, error) {
	logger := middleware.GetLogger(ctx)
	var count int64
	result := db.WithContext(ctx).Model(&model.User{}).
		Where("email = ? AND id_usuario <> ?", email, excludeID).
		Count(&count)
	if result.Error != nil {
		logger.Error("Error checking email ownership", "error", result.Error, "email", email)
		return false, fmt.Errorf("gormUserRepository.EmailTakenByOther: %w", result.Error)
	}
	return count > 0, nil
}

// IncrementXP adds delta to xp_total in a single statement.
func (r *gormUserRepository) IncrementXP(ctx context.Context, tx *gorm.DB, id int64, delta int) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Model(&model.User{}).
		Where("id_usuario = ?", id).
		Update("xp_total", gorm.Expr("xp_total + ?", delta))
	if result.Error != nil {
		logger.Error("Error incrementing user XP", "error", result.Error, "user_id", id, "delta", delta)
		return fmt.Errorf("gormUserRepository.IncrementXP: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormUserRepository) SetXPTotal(ctx context.Context, tx *gorm.DB, id int64, total int) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Model(&model.User{}).
		Where("id_usuario = ?", id).
		Update("xp_total", total)
	if result.Error != nil {
		logger.Error("Error setting user XP total", "error", result.Error, "user_id", id)
		return fmt.Errorf("gormUserRepository.SetXPTotal: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}
