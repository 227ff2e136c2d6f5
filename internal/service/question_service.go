// internal/service/question_service.go
package service

import (
	"context"
	"errors"

	"agape_study_api/internal/middleware"
	"agape_study_api/internal/model"
	"agape_study_api/internal/repository"

	"gorm.io/gorm"
)

type QuestionService interface {
	CreateQuestion(ctx context.Context, userID int64, req *model.CreateQuestionRequest) (*model.Question, error)
	GetRandomQuestions(ctx context.Context, levelID int64, quantity int) (*model.RandomQuestionsResponse, error)
	ListByLevel(ctx context.Context, levelID int64) ([]*model.Question, error)
	GetQuestion(ctx context.Context, id int64) (*model.Question, error)
	UpdateQuestion(ctx context.Context, id int64, req *model.UpdateQuestionRequest) (*model.Question, error)
	DeleteQuestion(ctx context.Context, id int64) error
}

type questionService struct {
	db            *gorm.DB
	questionRepo  repository.QuestionRepository
	levelRepo     repository.LevelRepository
	maxRandomSize int
}

// NewQuestionService caps random rounds at maxRandomSize questions.
func NewQuestionService(db *gorm.DB, questionRepo repository.QuestionRepository, levelRepo repository.LevelRepository, maxRandomSize int) QuestionService {
	return &questionService{
		db:            db,
		questionRepo:  questionRepo,
		levelRepo:     levelRepo,
		maxRandomSize: maxRandomSize,
	}
}

func questionNotFound(err error) error {
	return model.NewAppError("QUESTION_NOT_FOUND", "Pergunta não encontrada.", "id", err)
}

// CreateQuestion appends the question after the level's last one.
func (s *questionService) CreateQuestion(ctx context.Context, userID int64, req *model.CreateQuestionRequest) (*model.Question, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID, "level_id", req.LevelID)

	var created *model.Question
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.levelRepo.FindByID(ctx, tx, req.LevelID); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				logger.Warn("Question rejected: level not found")
				return model.NewAppError("LEVEL_NOT_FOUND", "Nível não encontrado.", "nivel_id", err)
			}
			return transactionFailure(logger, "create_question", err)
		}

		order, err := s.questionRepo.NextOrder(ctx, tx, req.LevelID)
		if err != nil {
			return transactionFailure(logger, "create_question", err)
		}

		question := &model.Question{
			LevelID:       req.LevelID,
			Text:          req.Text,
			CorrectAnswer: req.CorrectAnswer,
			Option1:       req.Option1,
			Option2:       req.Option2,
			Option3:       req.Option3,
			Order:         order,
		}
		if userID > 0 {
			question.CreatedBy = &userID
		}
		if err := s.questionRepo.Create(ctx, tx, question); err != nil {
			return transactionFailure(logger, "create_question", err)
		}
		created = question
		return nil
	})
	if err = finishTransaction(logger, "create_question", err); err != nil {
		return nil, err
	}

	logger.Info("Question created", "question_id", created.ID, "order", created.Order)
	return created, nil
}

func (s *questionService) GetRandomQuestions(ctx context.Context, levelID int64, quantity int) (*model.RandomQuestionsResponse, error) {
	logger := middleware.GetLogger(ctx).With("level_id", levelID)

	if levelID <= 0 {
		return nil, model.NewAppError("INVALID_PARAMETER", `O parâmetro "nivel_id" deve ser um número positivo.`, "nivel_id", model.ErrInvalidInput)
	}
	if quantity <= 0 {
		return nil, model.NewAppError("INVALID_PARAMETER", `O parâmetro "quantidade" deve ser um número positivo.`, "quantidade", model.ErrInvalidInput)
	}
	if s.maxRandomSize > 0 && quantity > s.maxRandomSize {
		quantity = s.maxRandomSize
	}

	level, err := s.levelRepo.FindByID(ctx, s.db, levelID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("NO_QUESTIONS", "Não há perguntas cadastradas para este nível.", "nivel_id", err)
		}
		logger.Error("Failed to load level for random questions", "error", err)
		return nil, internalError("Erro ao buscar perguntas aleatórias.", err)
	}

	questions, err := s.questionRepo.RandomByLevel(ctx, s.db, levelID, quantity)
	if err != nil {
		logger.Error("Failed to select random questions", "error", err)
		return nil, internalError("Erro ao buscar perguntas aleatórias.", err)
	}
	if len(questions) == 0 {
		logger.Warn("Level has no questions")
		return nil, model.NewAppError("NO_QUESTIONS", "Não há perguntas cadastradas para este nível.", "nivel_id", model.ErrNotFound)
	}

	return &model.RandomQuestionsResponse{Questions: questions, XPTotal: level.XPTotal}, nil
}

func (s *questionService) ListByLevel(ctx context.Context, levelID int64) ([]*model.Question, error) {
	logger := middleware.GetLogger(ctx).With("level_id", levelID)
	questions, err := s.questionRepo.ListByLevel(ctx, s.db, levelID)
	if err != nil {
		logger.Error("Failed to list questions", "error", err)
		return nil, internalError("Erro ao buscar perguntas.", err)
	}
	return questions, nil
}

func (s *questionService) GetQuestion(ctx context.Context, id int64) (*model.Question, error) {
	logger := middleware.GetLogger(ctx).With("question_id", id)
	question, err := s.questionRepo.FindByID(ctx, s.db, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, questionNotFound(err)
		}
		logger.Error("Failed to get question", "error", err)
		return nil, internalError("Erro ao buscar pergunta.", err)
	}
	return question, nil
}

func (s *questionService) UpdateQuestion(ctx context.Context, id int64, req *model.UpdateQuestionRequest) (*model.Question, error) {
	logger := middleware.GetLogger(ctx).With("question_id", id)

	var updated *model.Question
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"texto":            req.Text,
			"resposta_correta": req.CorrectAnswer,
			"opcao1":           req.Option1,
			"opcao2":           req.Option2,
			"opcao3":           req.Option3,
		}
		if err := s.questionRepo.Update(ctx, tx, id, updates); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return questionNotFound(err)
			}
			return transactionFailure(logger, "update_question", err)
		}
		question, err := s.questionRepo.FindByID(ctx, tx, id)
		if err != nil {
			return transactionFailure(logger, "update_question", err)
		}
		updated = question
		return nil
	})
	if err = finishTransaction(logger, "update_question", err); err != nil {
		return nil, err
	}

	logger.Info("Question updated")
	return updated, nil
}

func (s *questionService) DeleteQuestion(ctx context.Context, id int64) error {
	logger := middleware.GetLogger(ctx).With("question_id", id)
	if err := s.questionRepo.Delete(ctx, s.db, id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("Question not found for deletion")
			return questionNotFound(err)
		}
		logger.Error("Failed to delete question", "error", err)
		return internalError("Erro ao excluir pergunta.", err)
	}
	logger.Info("Question deleted")
	return nil
}
