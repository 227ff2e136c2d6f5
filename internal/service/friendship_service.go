// internal/service/friendship_service.go
package service

import (
	"context"
	"errors"
	"strings"

	"agape_study_api/internal/middleware"
	"agape_study_api/internal/model"
	"agape_study_api/internal/repository"

	"gorm.io/gorm"
)

type FriendshipService interface {
	GetOverview(ctx context.Context, userID int64) (*model.FriendshipOverview, error)
	SendRequest(ctx context.Context, userID int64, req *model.CreateFriendshipRequest) (*model.Friendship, error)
	RespondRequest(ctx context.Context, userID, friendshipID int64, req *model.UpdateFriendshipRequest) (*model.Friendship, error)
	RemoveFriendship(ctx context.Context, userID, friendshipID int64) error
	SearchUsers(ctx context.Context, userID int64, term string) ([]*model.UserSummary, error)
}

type friendshipService struct {
	db             *gorm.DB
	friendshipRepo repository.FriendshipRepository
	userRepo       repository.UserRepository
}

func NewFriendshipService(db *gorm.DB, friendshipRepo repository.FriendshipRepository, userRepo repository.UserRepository) FriendshipService {
	return &friendshipService{
		db:             db,
		friendshipRepo: friendshipRepo,
		userRepo:       userRepo,
	}
}

func friendshipNotFound(err error) error {
	return model.NewAppError("FRIENDSHIP_NOT_FOUND", "Amizade não encontrada.", "", err)
}

func (s *friendshipService) GetOverview(ctx context.Context, userID int64) (*model.FriendshipOverview, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID)

	friends, err := s.friendshipRepo.ListFriends(ctx, s.db, userID)
	if err != nil {
		return nil, internalError("Erro ao buscar amizades.", err)
	}
	received, err := s.friendshipRepo.ListPendingReceived(ctx, s.db, userID)
	if err != nil {
		return nil, internalError("Erro ao buscar amizades.", err)
	}
	sent, err := s.friendshipRepo.ListPendingSent(ctx, s.db, userID)
	if err != nil {
		return nil, internalError("Erro ao buscar amizades.", err)
	}

	logger.Debug("Friendship overview loaded", "friends", len(friends), "received", len(received), "sent", len(sent))
	return &model.FriendshipOverview{
		Friends:         nonNilEntries(friends),
		PendingReceived: nonNilEntries(received),
		PendingSent:     nonNilEntries(sent),
	}, nil
}

func nonNilEntries(entries []*model.FriendEntry) []*model.FriendEntry {
	if entries == nil {
		return []*model.FriendEntry{}
	}
	return entries
}

// SendRequest creates a pending friendship from userID to the addressee.
func (s *friendshipService) SendRequest(ctx context.Context, userID int64, req *model.CreateFriendshipRequest) (*model.Friendship, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID, "addressee_id", req.AddresseeID)

	if req.AddresseeID == userID {
		return nil, model.NewAppError("SELF_FRIENDSHIP", "Você não pode adicionar a si mesmo.", "id_usuario2", model.ErrInvalidInput)
	}

	var created *model.Friendship
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.userRepo.FindByID(ctx, tx, req.AddresseeID); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return userNotFound(err)
			}
			return transactionFailure(logger, "send_friend_request", err)
		}

		exists, err := s.friendshipRepo.ExistsBetween(ctx, tx, userID, req.AddresseeID)
		if err != nil {
			return transactionFailure(logger, "send_friend_request", err)
		}
		if exists {
			return model.NewAppError("FRIENDSHIP_EXISTS", "Já existe uma solicitação ou amizade entre esses usuários.", "", model.ErrConflict)
		}

		friendship := &model.Friendship{
			UserID1: userID,
			UserID2: req.AddresseeID,
			Status:  model.FriendshipPending,
		}
		if err := s.friendshipRepo.Create(ctx, tx, friendship); err != nil {
			return transactionFailure(logger, "send_friend_request", err)
		}
		created = friendship
		return nil
	})
	if err = finishTransaction(logger, "send_friend_request", err); err != nil {
		return nil, err
	}

	logger.Info("Friend request sent", "friendship_id", created.ID)
	return created, nil
}

// RespondRequest lets the addressee accept or reject a pending request.
// Any other caller, or a request that is no longer pending, gets not-found.
func (s *friendshipService) RespondRequest(ctx context.Context, userID, friendshipID int64, req *model.UpdateFriendshipRequest) (*model.Friendship, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID, "friendship_id", friendshipID)

	if req.Status != model.FriendshipAccepted && req.Status != model.FriendshipRejected {
		return nil, model.NewAppError("INVALID_STATUS", "Status inválido.", "status", model.ErrInvalidInput)
	}

	var updated *model.Friendship
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		friendship, err := s.friendshipRepo.FindByID(ctx, tx, friendshipID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return friendshipNotFound(err)
			}
			return transactionFailure(logger, "respond_friend_request", err)
		}
		if friendship.UserID2 != userID || friendship.Status != model.FriendshipPending {
			return friendshipNotFound(model.ErrNotFound)
		}
		if err := s.friendshipRepo.UpdateStatus(ctx, tx, friendshipID, req.Status); err != nil {
			return transactionFailure(logger, "respond_friend_request", err)
		}
		friendship.Status = req.Status
		updated = friendship
		return nil
	})
	if err = finishTransaction(logger, "respond_friend_request", err); err != nil {
		return nil, err
	}

	logger.Info("Friend request answered", "status", string(updated.Status))
	return updated, nil
}

// RemoveFriendship deletes a friendship or request; either party may do it.
func (s *friendshipService) RemoveFriendship(ctx context.Context, userID, friendshipID int64) error {
	logger := middleware.GetLogger(ctx).With("user_id", userID, "friendship_id", friendshipID)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		friendship, err := s.friendshipRepo.FindByID(ctx, tx, friendshipID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return friendshipNotFound(err)
			}
			return transactionFailure(logger, "remove_friendship", err)
		}
		if friendship.UserID1 != userID && friendship.UserID2 != userID {
			return friendshipNotFound(model.ErrNotFound)
		}
		if err := s.friendshipRepo.Delete(ctx, tx, friendshipID); err != nil {
			return transactionFailure(logger, "remove_friendship", err)
		}
		return nil
	})
	if err = finishTransaction(logger, "remove_friendship", err); err != nil {
		return err
	}

	logger.Info("Friendship removed")
	return nil
}

func (s *friendshipService) SearchUsers(ctx context.Context, userID int64, term string) ([]*model.UserSummary, error) {
	if strings.TrimSpace(term) == "" {
		return nil, model.NewAppError("VALIDATION_ERROR", "Informe um termo de pesquisa.", "termo", model.ErrInvalidInput)
	}
	users, err := s.userRepo.SearchSummaries(ctx, s.db, term, userID)
	if err != nil {
		return nil, internalError("Erro ao pesquisar usuários.", err)
	}
	if users == nil {
		users = []*model.UserSummary{}
	}
	return users, nil
}
