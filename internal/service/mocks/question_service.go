package mocks

import (
	"context"

	"agape_study_api/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockQuestionService struct {
	mock.Mock
}

func NewMockQuestionService(t testingT) *MockQuestionService {
	m := &MockQuestionService{}
	register(&m.Mock, t)
	return m
}

func (m *MockQuestionService) CreateQuestion(ctx context.Context, userID int64, req *model.CreateQuestionRequest) (*model.Question, error) {
	args := m.Called(ctx, userID, req)
	return typed[*model.Question](args, 0), args.Error(1)
}

func (m *MockQuestionService) GetRandomQuestions(ctx context.Context, levelID int64, quantity int) (*model.RandomQuestionsResponse, error) {
	args := m.Called(ctx, levelID, quantity)
	return typed[*model.RandomQuestionsResponse](args, 0), args.Error(1)
}

func (m *MockQuestionService) ListByLevel(ctx context.Context, levelID int64) ([]*model.Question, error) {
	args := m.Called(ctx, levelID)
	return typed[[]*model.Question](args, 0), args.Error(1)
}

func (m *MockQuestionService) GetQuestion(ctx context.Context, id int64) (*model.Question, error) {
	args := m.Called(ctx, id)
	return typed[*model.Question](args, 0), args.Error(1)
}

func (m *MockQuestionService) UpdateQuestion(ctx context.Context, id int64, req *model.UpdateQuestionRequest) (*model.Question, error) {
	args := m.Called(ctx, id, req)
	return typed[*model.Question](args, 0), args.Error(1)
}

func (m *MockQuestionService) DeleteQuestion(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
