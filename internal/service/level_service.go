// internal/service/level_service.go
package service

import (
	"context"
	"errors"
	"fmt"

	"agape_study_api/internal/metrics"
	"agape_study_api/internal/middleware"
	"agape_study_api/internal/model"
	"agape_study_api/internal/repository"

	"gorm.io/gorm"
)

type LevelService interface {
	CreateLevel(ctx context.Context, userID int64, req *model.CreateLevelRequest) (*model.Level, error)
	SearchLevels(ctx context.Context, term string) ([]*model.Level, error)
	GetActiveLevels(ctx context.Context) ([]*model.Level, error)
	GetLevel(ctx context.Context, id int64) (*model.Level, error)
	UpdateLevel(ctx context.Context, id int64, req *model.UpdateLevelRequest) (*model.Level, error)
	SetActive(ctx context.Context, id int64, active bool, position *int) (*model.ActivationResult, error)
	DeleteLevel(ctx context.Context, id int64) error
}

type levelService struct {
	db           *gorm.DB
	levelRepo    repository.LevelRepository
	questionRepo repository.QuestionRepository
}

func NewLevelService(db *gorm.DB, levelRepo repository.LevelRepository, questionRepo repository.QuestionRepository) LevelService {
	return &levelService{
		db:           db,
		levelRepo:    levelRepo,
		questionRepo: questionRepo,
	}
}

func levelNotFound(err error) error {
	return model.NewAppError("LEVEL_NOT_FOUND", "Nível não encontrado.", "id", err)
}

func (s *levelService) CreateLevel(ctx context.Context, userID int64, req *model.CreateLevelRequest) (*model.Level, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID)

	if req.Title == "" || req.Description == "" || req.XPTotal <= 0 {
		logger.Warn("Create level rejected: missing fields")
		return nil, model.NewAppError("VALIDATION_ERROR", "Preencha todos os campos.", "", model.ErrInvalidInput)
	}

	level := &model.Level{
		Title:       req.Title,
		Description: req.Description,
		XPTotal:     req.XPTotal,
		Active:      false,
	}
	if userID > 0 {
		level.CreatedBy = &userID
	}

	if err := s.levelRepo.Create(ctx, s.db, level); err != nil {
		logger.Error("Failed to create level", "error", err)
		return nil, internalError("Erro ao cadastrar nível.", err)
	}

	logger.Info("Level created", "level_id", level.ID)
	return level, nil
}

func (s *levelService) SearchLevels(ctx context.Context, term string) ([]*model.Level, error) {
	logger := middleware.GetLogger(ctx)
	levels, err := s.levelRepo.Search(ctx, s.db, term)
	if err != nil {
		logger.Error("Failed to search levels", "error", err, "term", term)
		return nil, internalError("Erro ao buscar níveis.", err)
	}
	return levels, nil
}

func (s *levelService) GetActiveLevels(ctx context.Context) ([]*model.Level, error) {
	logger := middleware.GetLogger(ctx)
	levels, err := s.levelRepo.FindActive(ctx, s.db)
	if err != nil {
		logger.Error("Failed to list active levels", "error", err)
		return nil, internalError("Erro ao buscar níveis ativos.", err)
	}
	return levels, nil
}

func (s *levelService) GetLevel(ctx context.Context, id int64) (*model.Level, error) {
	logger := middleware.GetLogger(ctx).With("level_id", id)
	level, err := s.levelRepo.FindByID(ctx, s.db, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("Level not found")
			return nil, levelNotFound(err)
		}
		logger.Error("Failed to get level", "error", err)
		return nil, internalError("Erro ao buscar nível.", err)
	}
	return level, nil
}

func (s *levelService) UpdateLevel(ctx context.Context, id int64, req *model.UpdateLevelRequest) (*model.Level, error) {
	logger := middleware.GetLogger(ctx).With("level_id", id)

	if req.Title == "" || req.Description == "" || req.XPTotal <= 0 {
		logger.Warn("Update level rejected: missing fields")
		return nil, model.NewAppError("VALIDATION_ERROR", "Preencha todos os campos.", "", model.ErrInvalidInput)
	}

	var updated *model.Level
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"titulo":    req.Title,
			"descricao": req.Description,
			"xp_total":  req.XPTotal,
		}
		if err := s.levelRepo.Update(ctx, tx, id, updates); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				logger.Warn("Level not found for update")
				return levelNotFound(err)
			}
			return transactionFailure(logger, "update_level", err)
		}
		level, err := s.levelRepo.FindByID(ctx, tx, id)
		if err != nil {
			return transactionFailure(logger, "update_level", err)
		}
		updated = level
		return nil
	})
	if err = finishTransaction(logger, "update_level", err); err != nil {
		return nil, err
	}

	logger.Info("Level updated")
	return updated, nil
}

// SetActive activates a level at position or deactivates it, keeping the
// positions of active levels equal to 1..N. Everything runs in one transaction.
//
// Deactivating an inactive level, or activating a level at the position it
// already holds, is a successful no-op. Activating an active level at another
// position moves it: its old slot is closed before the new one is opened.
// A position past the end of the list is stored as given.
func (s *levelService) SetActive(ctx context.Context, id int64, active bool, position *int) (*model.ActivationResult, error) {
	logger := middleware.GetLogger(ctx).With("level_id", id, "active", active)

	if active && (position == nil || *position < 1) {
		logger.Warn("Activation rejected: invalid position")
		return nil, model.NewAppError("INVALID_POSITION", "Informe uma posição válida.", "posicao", model.ErrInvalidInput)
	}

	var result *model.ActivationResult
	changed := false

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		level, err := s.levelRepo.FindByID(ctx, tx, id)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				logger.Warn("Level not found for activation change")
				return levelNotFound(err)
			}
			return transactionFailure(logger, "set_active", err)
		}

		if !active {
			if !level.Active {
				logger.Info("Level already inactive, nothing to do")
				result = &model.ActivationResult{Message: "Nível já está desativado.", Active: false}
				return nil
			}
			if err := s.detach(ctx, tx, level); err != nil {
				return transactionFailure(logger, "set_active", err)
			}
			changed = true
			result = &model.ActivationResult{
				Message: "Nível desativado com sucesso! Os níveis subsequentes foram reordenados.",
				Active:  false,
			}
			return nil
		}

		target := *position
		if level.Active && level.Position != nil && *level.Position == target {
			logger.Info("Level already active at requested position, nothing to do", "position", target)
			result = activatedResult(target)
			return nil
		}
		if level.Active {
			logger.Debug("Moving active level", "to", target)
			if err := s.detach(ctx, tx, level); err != nil {
				return transactionFailure(logger, "set_active", err)
			}
		}

		occupied, err := s.levelRepo.ExistsActiveAtPosition(ctx, tx, target)
		if err != nil {
			return transactionFailure(logger, "set_active", err)
		}
		if occupied {
			if err := s.levelRepo.ShiftUpFrom(ctx, tx, target); err != nil {
				return transactionFailure(logger, "set_active", err)
			}
		}
		if err := s.levelRepo.SetActivation(ctx, tx, id, true, &target); err != nil {
			return transactionFailure(logger, "set_active", err)
		}

		changed = true
		result = activatedResult(target)
		return nil
	})
	if err = finishTransaction(logger, "set_active", err); err != nil {
		return nil, err
	}

	if changed {
		metrics.RecordLevelActivation(active)
	}
	logger.Info("Level activation processed", "changed", changed)
	return result, nil
}

// detach clears the level's slot and closes the gap it leaves behind.
func (s *levelService) detach(ctx context.Context, tx *gorm.DB, level *model.Level) error {
	if err := s.levelRepo.SetActivation(ctx, tx, level.ID, false, nil); err != nil {
		return err
	}
	if level.Position == nil {
		return nil
	}
	return s.levelRepo.ShiftDownAfter(ctx, tx, *level.Position)
}

func activatedResult(position int) *model.ActivationResult {
	p := position
	return &model.ActivationResult{
		Message:  fmt.Sprintf("Nível ativado com sucesso na posição %d!", position),
		Active:   true,
		Position: &p,
	}
}

// DeleteLevel removes the level and its questions. An active level's slot is
// closed so the remaining positions stay dense.
func (s *levelService) DeleteLevel(ctx context.Context, id int64) error {
	logger := middleware.GetLogger(ctx).With("level_id", id)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		level, err := s.levelRepo.FindByID(ctx, tx, id)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				logger.Warn("Level not found for deletion")
				return levelNotFound(err)
			}
			return transactionFailure(logger, "delete_level", err)
		}

		if err := s.questionRepo.DeleteByLevel(ctx, tx, id); err != nil {
			return transactionFailure(logger, "delete_level", err)
		}
		if err := s.levelRepo.Delete(ctx, tx, id); err != nil {
			return transactionFailure(logger, "delete_level", err)
		}
		if level.Active && level.Position != nil {
			if err := s.levelRepo.ShiftDownAfter(ctx, tx, *level.Position); err != nil {
				return transactionFailure(logger, "delete_level", err)
			}
		}
		return nil
	})
	if err = finishTransaction(logger, "delete_level", err); err != nil {
		return err
	}

	logger.Info("Level deleted")
	return nil
}
