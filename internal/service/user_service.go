// internal/service/user_service.go
package service

import (
	"context"
	"errors"
	"strings"

	"agape_study_api/internal/middleware"
	"agape_study_api/internal/model"
	"agape_study_api/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService interface {
	SearchUsers(ctx context.Context, term string) ([]*model.PublicUser, error)
	GetUser(ctx context.Context, id int64) (*model.PublicUser, error)
	GetPublicUser(ctx context.Context, id int64) (*model.PublicUser, error)
	AdminUpdateUser(ctx context.Context, id int64, req *model.AdminUpdateUserRequest) (*model.PublicUser, error)
	UpdateProfile(ctx context.Context, userID int64, req *model.UpdateProfileRequest) (*model.PublicUser, error)
}

type userService struct {
	db       *gorm.DB
	userRepo repository.UserRepository
}

func NewUserService(db *gorm.DB, userRepo repository.UserRepository) UserService {
	return &userService{db: db, userRepo: userRepo}
}

func userNotFound(err error) error {
	return model.NewAppError("USER_NOT_FOUND", "Usuário não encontrado.", "id", err)
}

func emailInUse() error {
	return model.NewAppError("DUPLICATE_EMAIL", "Este email já está em uso.", "email", model.ErrConflict)
}

func (s *userService) SearchUsers(ctx context.Context, term string) ([]*model.PublicUser, error) {
	logger := middleware.GetLogger(ctx)

	if strings.TrimSpace(term) == "" {
		return nil, model.NewAppError("MISSING_SEARCH_TERM", "Parâmetro de busca não fornecido.", "busca", model.ErrInvalidInput)
	}

	users, err := s.userRepo.Search(ctx, s.db, term)
	if err != nil {
		logger.Error("Failed to search users", "error", err)
		return nil, internalError("Erro ao buscar usuários.", err)
	}

	result := make([]*model.PublicUser, 0, len(users))
	for _, u := range users {
		result = append(result, u.Public())
	}
	return result, nil
}

func (s *userService) GetUser(ctx context.Context, id int64) (*model.PublicUser, error) {
	return s.findPublic(ctx, id)
}

func (s *userService) GetPublicUser(ctx context.Context, id int64) (*model.PublicUser, error) {
	return s.findPublic(ctx, id)
}

func (s *userService) findPublic(ctx context.Context, id int64) (*model.PublicUser, error) {
	logger := middleware.GetLogger(ctx).With("target_user_id", id)
	user, err := s.userRepo.FindByID(ctx, s.db, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("User not found")
			return nil, userNotFound(err)
		}
		logger.Error("Failed to get user", "error", err)
		return nil, internalError("Erro ao buscar usuário.", err)
	}
	return user.Public(), nil
}

// AdminUpdateUser edits name, email, role and stage. xp_total is left alone.
func (s *userService) AdminUpdateUser(ctx context.Context, id int64, req *model.AdminUpdateUserRequest) (*model.PublicUser, error) {
	logger := middleware.GetLogger(ctx).With("target_user_id", id)
	email := strings.TrimSpace(strings.ToLower(req.Email))

	var updated *model.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := s.userRepo.EmailTakenByOther(ctx, tx, email, id)
		if err != nil {
			return transactionFailure(logger, "admin_update_user", err)
		}
		if taken {
			logger.Warn("Admin update rejected: email in use")
			return emailInUse()
		}

		updates := map[string]interface{}{
			"nome":       strings.TrimSpace(req.Name),
			"email":      email,
			"tipo":       req.Role,
			"fase_atual": req.CurrentStage,
		}
		if err := s.userRepo.Update(ctx, tx, id, updates); err != nil {
			switch {
			case errors.Is(err, model.ErrNotFound):
				return userNotFound(err)
			case errors.Is(err, model.ErrConflict):
				return emailInUse()
			}
			return transactionFailure(logger, "admin_update_user", err)
		}

		user, err := s.userRepo.FindByID(ctx, tx, id)
		if err != nil {
			return transactionFailure(logger, "admin_update_user", err)
		}
		updated = user
		return nil
	})
	if err = finishTransaction(logger, "admin_update_user", err); err != nil {
		return nil, err
	}

	logger.Info("User updated by admin", "role", updated.Role)
	return updated.Public(), nil
}

// UpdateProfile lets users change their own name, and optionally email and password.
func (s *userService) UpdateProfile(ctx context.Context, userID int64, req *model.UpdateProfileRequest) (*model.PublicUser, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID)

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, model.NewAppError("VALIDATION_ERROR", "O nome é obrigatório.", "nome", model.ErrInvalidInput)
	}
	if req.Password != nil && *req.Password != "" && len(*req.Password) < 6 {
		return nil, model.NewAppError("VALIDATION_ERROR", "A senha deve ter pelo menos 6 caracteres.", "senha", model.ErrInvalidInput)
	}

	var updated *model.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"nome": name}

		if req.Email != nil && strings.TrimSpace(*req.Email) != "" {
			email := strings.TrimSpace(strings.ToLower(*req.Email))
			taken, err := s.userRepo.EmailTakenByOther(ctx, tx, email, userID)
			if err != nil {
				return transactionFailure(logger, "update_profile", err)
			}
			if taken {
				logger.Warn("Profile update rejected: email in use")
				return emailInUse()
			}
			updates["email"] = email
		}

		if req.Password != nil && *req.Password != "" {
			hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
			if err != nil {
				logger.Error("Failed to hash password", "error", err)
				return internalError("Erro ao atualizar perfil.", err)
			}
			updates["senha"] = string(hashed)
		}

		if err := s.userRepo.Update(ctx, tx, userID, updates); err != nil {
			switch {
			case errors.Is(err, model.ErrNotFound):
				return userNotFound(err)
			case errors.Is(err, model.ErrConflict):
				return emailInUse()
			}
			return transactionFailure(logger, "update_profile", err)
		}

		user, err := s.userRepo.FindByID(ctx, tx, userID)
		if err != nil {
			return transactionFailure(logger, "update_profile", err)
		}
		updated = user
		return nil
	})
	if err = finishTransaction(logger, "update_profile", err); err != nil {
		return nil, err
	}

	logger.Info("Profile updated")
	return updated.Public(), nil
}
