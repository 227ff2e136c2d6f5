// internal/service/progress_service.go
package service

import (
	"context"
	"errors"

	"agape_study_api/internal/metrics"
	"agape_study_api/internal/middleware"
	"agape_study_api/internal/model"
	"agape_study_api/internal/repository"

	"gorm.io/gorm"
)

type ProgressService interface {
	RecordProgress(ctx context.Context, userID int64, req *model.RecordProgressRequest) (*model.RecordProgressResult, error)
	GetButtons(ctx context.Context, userID, levelID int64) (map[int]model.ButtonProgress, error)
	GetCompletedByLevel(ctx context.Context, userID int64) (map[int64]int, error)
	Reconcile(ctx context.Context, userID int64) (*model.ReconcileResult, error)
}

type progressService struct {
	db           *gorm.DB
	progressRepo repository.ProgressRepository
	levelRepo    repository.LevelRepository
	userRepo     repository.UserRepository
}

func NewProgressService(db *gorm.DB, progressRepo repository.ProgressRepository, levelRepo repository.LevelRepository, userRepo repository.UserRepository) ProgressService {
	return &progressService{
		db:           db,
		progressRepo: progressRepo,
		levelRepo:    levelRepo,
		userRepo:     userRepo,
	}
}

// RecordProgress stores a step result with the accumulating policy: a repeated
// step adds the submitted XP to what the entry already holds, and the entry is
// complete while its total is positive. The user's xp_total grows by the
// submitted amount when it is positive. All writes share one transaction.
func (s *progressService) RecordProgress(ctx context.Context, userID int64, req *model.RecordProgressRequest) (*model.RecordProgressResult, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID)

	if req == nil || req.LevelID <= 0 || req.XPEarned == 0 || req.Order == 0 {
		logger.Warn("Record progress rejected: missing parameters")
		return nil, model.NewAppError("INVALID_PARAMETERS", "Parâmetros inválidos.", "", model.ErrInvalidInput)
	}
	if req.Order < model.MinStepOrder || req.Order > model.MaxStepOrder {
		logger.Warn("Record progress rejected: order out of range", "order", req.Order)
		return nil, model.NewAppError("INVALID_ORDER", "Ordem deve estar entre 1 e 12.", "ordem", model.ErrInvalidInput)
	}
	logger = logger.With("level_id", req.LevelID, "order", req.Order)

	var result *model.RecordProgressResult
	repeated := false
	credited := 0

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.levelRepo.FindByID(ctx, tx, req.LevelID); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				logger.Warn("Level not found for progress")
				return model.NewAppError("LEVEL_NOT_FOUND", "Nível não encontrado.", "nivel_id", err)
			}
			return transactionFailure(logger, "record_progress", err)
		}

		entry, err := s.progressRepo.Find(ctx, tx, userID, req.LevelID, req.Order)
		if err != nil && !errors.Is(err, model.ErrNotFound) {
			return transactionFailure(logger, "record_progress", err)
		}

		if entry == nil {
			entry = &model.ProgressEntry{
				UserID:    userID,
				LevelID:   req.LevelID,
				Order:     req.Order,
				XPEarned:  req.XPEarned,
				Completed: req.XPEarned > 0,
			}
			if err := s.progressRepo.Create(ctx, tx, entry); err != nil {
				return transactionFailure(logger, "record_progress", err)
			}
		} else {
			repeated = true
			entry.XPEarned += req.XPEarned
			entry.Completed = entry.XPEarned > 0
			if err := s.progressRepo.Update(ctx, tx, entry); err != nil {
				return transactionFailure(logger, "record_progress", err)
			}
		}

		if req.XPEarned > 0 {
			if err := s.userRepo.IncrementXP(ctx, tx, userID, req.XPEarned); err != nil {
				if errors.Is(err, model.ErrNotFound) {
					logger.Warn("User not found while crediting XP")
					return model.NewAppError("USER_NOT_FOUND", "Usuário não encontrado.", "", err)
				}
				return transactionFailure(logger, "record_progress", err)
			}
			credited = req.XPEarned
		}

		result = &model.RecordProgressResult{XPEarned: entry.XPEarned, Order: entry.Order}
		return nil
	})
	if err = finishTransaction(logger, "record_progress", err); err != nil {
		return nil, err
	}

	metrics.RecordStep(repeated, credited)
	logger.Info("Progress recorded", "repeated", repeated, "credited_xp", credited, "entry_xp", result.XPEarned)
	return result, nil
}

// GetButtons returns the per-step state of one level, keyed by ordem.
func (s *progressService) GetButtons(ctx context.Context, userID, levelID int64) (map[int]model.ButtonProgress, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID, "level_id", levelID)

	entries, err := s.progressRepo.ListByLevel(ctx, s.db, userID, levelID)
	if err != nil {
		logger.Error("Failed to load button progress", "error", err)
		return nil, internalError("Erro ao buscar progresso dos botões.", err)
	}

	buttons := make(map[int]model.ButtonProgress, len(entries))
	for _, e := range entries {
		buttons[e.Order] = model.ButtonProgress{Completed: e.Completed, XPEarned: e.XPEarned}
	}
	return buttons, nil
}

// GetCompletedByLevel returns nivel_id -> number of completed steps.
func (s *progressService) GetCompletedByLevel(ctx context.Context, userID int64) (map[int64]int, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID)

	counts, err := s.progressRepo.CountCompletedByLevel(ctx, s.db, userID)
	if err != nil {
		logger.Error("Failed to load detailed progress", "error", err)
		return nil, internalError("Erro ao buscar progresso detalhado.", err)
	}
	return counts, nil
}

// Reconcile recomputes the user's xp_total from completed entries and stores it.
func (s *progressService) Reconcile(ctx context.Context, userID int64) (*model.ReconcileResult, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID)

	var result *model.ReconcileResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows, err := s.progressRepo.SummarizeCompleted(ctx, tx, userID)
		if err != nil {
			return transactionFailure(logger, "reconcile_xp", err)
		}

		levels := make(map[int64]model.LevelCompletion, len(rows))
		total := 0
		for _, row := range rows {
			levels[row.LevelID] = *row
			total += row.XPTotal
		}

		if err := s.userRepo.SetXPTotal(ctx, tx, userID, total); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				logger.Warn("User not found during reconciliation")
				return model.NewAppError("USER_NOT_FOUND", "Usuário não encontrado.", "", err)
			}
			return transactionFailure(logger, "reconcile_xp", err)
		}

		result = &model.ReconcileResult{Levels: levels, XPTotal: total}
		return nil
	})
	if err = finishTransaction(logger, "reconcile_xp", err); err != nil {
		return nil, err
	}

	logger.Info("User XP reconciled", "xp_total", result.XPTotal, "levels", len(result.Levels))
	return result, nil
}
