// internal/service/message_service.go
package service

import (
	"context"
	"errors"
	"time"

	"agape_study_api/internal/middleware"
	"agape_study_api/internal/model"
	"agape_study_api/internal/repository"

	"gorm.io/gorm"
)

type MessageService interface {
	CreateMessage(ctx context.Context, userID int64, req *model.CreateMessageRequest) (*model.DailyMessage, error)
	ListMessages(ctx context.Context, term string) ([]*model.DailyMessage, error)
	TodayMessage(ctx context.Context) (*model.DailyMessage, error)
}

type messageService struct {
	db          *gorm.DB
	messageRepo repository.MessageRepository
	epoch       time.Time
	now         func() time.Time
}

// NewMessageService rotates daily messages starting at epoch (day 0 shows ordem_exibicao 1).
func NewMessageService(db *gorm.DB, messageRepo repository.MessageRepository, epoch time.Time) MessageService {
	return &messageService{
		db:          db,
		messageRepo: messageRepo,
		epoch:       epoch,
		now:         time.Now,
	}
}

// CreateMessage appends the message at the end of the rotation.
func (s *messageService) CreateMessage(ctx context.Context, userID int64, req *model.CreateMessageRequest) (*model.DailyMessage, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID)

	var created *model.DailyMessage
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.messageRepo.NextDisplayOrder(ctx, tx)
		if err != nil {
			return transactionFailure(logger, "create_message", err)
		}
		message := &model.DailyMessage{
			Version:      req.Version,
			Book:         req.Book,
			Chapter:      req.Chapter,
			Verse:        req.Verse,
			VerseText:    req.VerseText,
			Title:        req.Title,
			Description:  req.Description,
			DisplayOrder: order,
		}
		if userID > 0 {
			message.UserID = &userID
		}
		if err := s.messageRepo.Create(ctx, tx, message); err != nil {
			return transactionFailure(logger, "create_message", err)
		}
		created = message
		return nil
	})
	if err = finishTransaction(logger, "create_message", err); err != nil {
		return nil, err
	}

	logger.Info("Daily message created", "message_id", created.ID, "display_order", created.DisplayOrder)
	return created, nil
}

func (s *messageService) ListMessages(ctx context.Context, term string) ([]*model.DailyMessage, error) {
	logger := middleware.GetLogger(ctx)
	messages, err := s.messageRepo.Search(ctx, s.db, term)
	if err != nil {
		logger.Error("Failed to list daily messages", "error", err)
		return nil, internalError("Erro ao listar mensagens.", err)
	}
	return messages, nil
}

// TodayMessage returns nil, nil when there are no messages.
func (s *messageService) TodayMessage(ctx context.Context) (*model.DailyMessage, error) {
	logger := middleware.GetLogger(ctx)

	total, err := s.messageRepo.Count(ctx, s.db)
	if err != nil {
		logger.Error("Failed to count daily messages", "error", err)
		return nil, internalError("Erro ao buscar mensagem do dia.", err)
	}
	if total == 0 {
		return nil, nil
	}

	order := rotationIndex(s.epoch, s.now(), total)
	message, err := s.messageRepo.FindByDisplayOrder(ctx, s.db, order)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("No daily message at computed display order", "order", order, "total", total)
			return nil, nil
		}
		logger.Error("Failed to load daily message", "error", err, "order", order)
		return nil, internalError("Erro ao buscar mensagem do dia.", err)
	}
	return message, nil
}

// rotationIndex maps a day to a 1-based display order: (days since epoch mod total) + 1.
func rotationIndex(epoch, now time.Time, total int64) int {
	days := int64(now.UTC().Sub(epoch.UTC()).Hours() / 24)
	if days < 0 {
		days = days%total + total
	}
	return int(days%total) + 1
}
