// internal/repository/friendship_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"agape_study_api/internal/middleware"
	"agape_study_api/internal/model"

	"gorm.io/gorm"
)

type FriendshipRepository interface {
	Create(ctx context.Context, tx *gorm.DB, friendship *model.Friendship) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*model.Friendship, error)
	ExistsBetween(ctx context.Context, db *gorm.DB, userA, userB int64) (bool, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id int64, status model.FriendshipStatus) error
	Delete(ctx context.Context, tx *gorm.DB, id int64) error
	ListFriends(ctx context.Context, db *gorm.DB, userID int64) ([]*model.FriendEntry, error)
	ListPendingReceived(ctx context.Context, db *gorm.DB, userID int64) ([]*model.FriendEntry, error)
	ListPendingSent(ctx context.Context, db *gorm.DB, userID int64) ([]*model.FriendEntry, error)
}

type gormFriendshipRepository struct{}

func NewGormFriendshipRepository() FriendshipRepository {
	return &gormFriendshipRepository{}
}

func (r *gormFriendshipRepository) Create(ctx context.Context, tx *gorm.DB, friendship *model.Friendship) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(friendship)
	if result.Error != nil {
		logger.Error("Error creating friendship in DB",
			"error", result.Error,
			"requester_id", friendship.UserID1,
			"addressee_id", friendship.UserID2,
		)
		return fmt.Errorf("gormFriendshipRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormFriendshipRepository) FindByID(ctx context.Context, db *gorm.DB, id int64) (*model.Friendship, error) {
	logger := middleware.GetLogger(ctx)
	var friendship model.Friendship
	result := db.WithContext(ctx).Where("id_amizade = ?", id).First(&friendship)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding friendship by ID in DB", "error", result.Error, "friendship_id", id)
		return nil, fmt.Errorf("gormFriendshipRepository.FindByID: %w", result.Error)
	}
	return &friendship, nil
}

// ExistsBetween checks both directions, whatever the status.
func (r *gormFriendshipRepository) ExistsBetween(ctx context.Context, db *gorm.DB, userA, userB int64) (bool, error) {
	logger := middleware.GetLogger(ctx)
	var count int64
	result := db.WithContext(ctx).Model(&model.Friendship{}).
		Where("(id_usuario1 = ? AND id_usuario2 = ?) OR (id_usuario1 = ? AND id_usuario2 = ?)", userA, userB, userB, userA).
		Count(&count)
	if result.Error != nil {
		logger.Error("Error checking existing friendship", "error", result.Error, "user_a", userA, "user_b", userB)
		return false, fmt.Errorf("gormFriendshipRepository.ExistsBetween: %w", result.Error)
	}
	return count > 0, nil
}

func (r *gormFriendshipRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, id int64, status model.FriendshipStatus) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Model(&model.Friendship{}).Where("id_amizade = ?", id).Update("status", status)
	if result.Error != nil {
		logger.Error("Error updating friendship status", "error", result.Error, "friendship_id", id)
		return fmt.Errorf("gormFriendshipRepository.UpdateStatus: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormFriendshipRepository) Delete(ctx context.Context, tx *gorm.DB, id int64) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Where("id_amizade = ?", id).Delete(&model.Friendship{})
	if result.Error != nil {
		logger.Error("Error deleting friendship", "error", result.Error, "friendship_id", id)
		return fmt.Errorf("gormFriendshipRepository.Delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

// ListFriends returns accepted friendships, each projected onto the other party.
func (r *gormFriendshipRepository) ListFriends(ctx context.Context, db *gorm.DB, userID int64) ([]*model.FriendEntry, error) {
	logger := middleware.GetLogger(ctx)
	var entries []*model.FriendEntry
	result := db.WithContext(ctx).Raw(`
		SELECT a.id_amizade,
		       u.id_usuario,
		       u.nome,
		       u.email
		FROM "Amizades" a
		JOIN "Usuarios" u
		  ON u.id_usuario = CASE WHEN a.id_usuario1 = ? THEN a.id_usuario2 ELSE a.id_usuario1 END
		WHERE a.status = ? AND (a.id_usuario1 = ? OR a.id_usuario2 = ?)
		ORDER BY u.nome ASC`,
		userID, model.FriendshipAccepted, userID, userID,
	).Scan(&entries)
	if result.Error != nil {
		logger.Error("Error listing friends", "error", result.Error, "user_id", userID)
		return nil, fmt.Errorf("gormFriendshipRepository.ListFriends: %w", result.Error)
	}
	return entries, nil
}

// ListPendingReceived returns pending requests addressed to userID, with the requester's data.
func (r *gormFriendshipRepository) ListPendingReceived(ctx context.Context, db *gorm.DB, userID int64) ([]*model.FriendEntry, error) {
	return r.listPending(ctx, db, userID, "id_usuario2", "id_usuario1")
}

// ListPendingSent returns pending requests made by userID, with the addressee's data.
func (r *gormFriendshipRepository) ListPendingSent(ctx context.Context, db *gorm.DB, userID int64) ([]*model.FriendEntry, error) {
	return r.listPending(ctx, db, userID, "id_usuario1", "id_usuario2")
}

func (r *gormFriendshipRepository) listPending(ctx context.Context, db *gorm.DB, userID int64, selfColumn, otherColumn string) ([]*model.FriendEntry, error) {
	logger := middleware.GetLogger(ctx)
	var entries []*model.FriendEntry
	result := db.WithContext(ctx).
		Table(`"Amizades" AS a`).
		Select("a.id_amizade, u.id_usuario, u.nome, u.email").
		Joins(`JOIN "Usuarios" u ON u.id_usuario = a.`+otherColumn).
		Where("a."+selfColumn+" = ? AND a.status = ?", userID, model.FriendshipPending).
		Order("a.id_amizade ASC").
		Scan(&entries)
	if result.Error != nil {
		logger.Error("Error listing pending friendships", "error", result.Error, "user_id", userID, "side", selfColumn)
		return nil, fmt.Errorf("gormFriendshipRepository.listPending: %w", result.Error)
	}
	return entries, nil
}
