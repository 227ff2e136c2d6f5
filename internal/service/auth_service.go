// internal/service/auth_service.go
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"agape_study_api/internal/config"
	"agape_study_api/internal/middleware"
	"agape_study_api/internal/model"
	"agape_study_api/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
	VerifyToken(ctx context.Context, userID int64) (*model.PublicUser, error)
}

type authService struct {
	db       *gorm.DB
	userRepo repository.UserRepository
	mailer   Mailer
	cfg      *config.Config
	now      func() time.Time
}

func NewAuthService(db *gorm.DB, userRepo repository.UserRepository, mailer Mailer, cfg *config.Config) AuthService {
	return &authService{
		db:       db,
		userRepo: userRepo,
		mailer:   mailer,
		cfg:      cfg,
		now:      time.Now,
	}
}

var errInvalidCredentials = model.NewAppError("AUTHENTICATION_FAILED", "Email ou senha incorretos.", "", model.ErrUnauthorized)

// Register creates a regular user and sends a welcome mail. A mail failure
// does not undo the registration.
func (s *authService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	logger := middleware.GetLogger(ctx).With("email", email)

	var newUser *model.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := s.userRepo.FindByEmail(ctx, tx, email)
		if err == nil {
			logger.Warn("Email already exists")
			return model.NewAppError("DUPLICATE_EMAIL", "Email já cadastrado.", "email", model.ErrConflict)
		}
		if !errors.Is(err, model.ErrNotFound) {
			logger.Error("Failed to check email existence", "error", err)
			return internalError("Erro no cadastro.", err)
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			logger.Error("Failed to hash password", "error", err)
			return internalError("Erro no cadastro.", err)
		}

		user := &model.User{
			Name:         strings.TrimSpace(req.Name),
			Email:        email,
			PasswordHash: string(hashedPassword),
			Role:         model.RoleUser,
			XPTotal:      0,
			CurrentStage: 1,
		}
		if err := s.userRepo.Create(ctx, tx, user); err != nil {
			if errors.Is(err, model.ErrConflict) {
				logger.Warn("Conflict during user creation (race condition)", "error", err)
				return model.NewAppError("DUPLICATE_EMAIL", "Email já cadastrado.", "email", model.ErrConflict)
			}
			logger.Error("Failed to create user in DB", "error", err)
			return internalError("Erro no cadastro.", err)
		}
		newUser = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	subject, body := welcomeEmail(newUser.Name)
	if err := s.mailer.Send(ctx, newUser.Email, subject, body); err != nil {
		logger.Warn("Welcome email could not be sent", "error", err, "user_id", newUser.ID)
	}

	logger.Info("User registered", "user_id", newUser.ID)
	return newUser, nil
}

func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	logger := middleware.GetLogger(ctx).With("email", email)

	user, err := s.userRepo.FindByEmail(ctx, s.db, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("Login failed: user not found")
			return nil, errInvalidCredentials
		}
		logger.Error("Login failed: db error on FindByEmail", "error", err)
		return nil, internalError("Erro no servidor.", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		logger.Warn("Login failed: password mismatch", "user_id", user.ID)
		return nil, errInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		logger.Error("Failed to sign JWT", "error", err, "user_id", user.ID)
		return nil, internalError("Erro no servidor.", err)
	}

	logger.Info("User logged in", "user_id", user.ID)
	return &model.LoginResponse{Auth: true, Token: token}, nil
}

func (s *authService) issueToken(user *model.User) (string, error) {
	now := s.now()
	claims := model.JWTCustomClaims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWT.AccessTokenTTL)),
			Issuer:    s.cfg.App.Name,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWT.SecretKey))
}

// VerifyToken returns the profile behind an already validated token.
func (s *authService) VerifyToken(ctx context.Context, userID int64) (*model.PublicUser, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID)

	user, err := s.userRepo.FindByID(ctx, s.db, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("Token subject no longer exists")
			return nil, model.NewAppError("USER_NOT_FOUND", "Usuário não encontrado.", "", model.ErrUnauthorized)
		}
		logger.Error("Failed to load user for token verification", "error", err)
		return nil, internalError("Erro no servidor.", err)
	}
	return user.Public(), nil
}
