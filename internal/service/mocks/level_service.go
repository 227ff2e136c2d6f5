package mocks

import (
	"context"

	"agape_study_api/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockLevelService struct {
	mock.Mock
}

func NewMockLevelService(t testingT) *MockLevelService {
	m := &MockLevelService{}
	register(&m.Mock, t)
	return m
}

func (m *MockLevelService) CreateLevel(ctx context.Context, userID int64, req *model.CreateLevelRequest) (*model.Level, error) {
	args := m.Called(ctx, userID, req)
	return typed[*model.Level](args, 0), args.Error(1)
}

func (m *MockLevelService) SearchLevels(ctx context.Context, term string) ([]*model.Level, error) {
	args := m.Called(ctx, term)
	return typed[[]*model.Level](args, 0), args.Error(1)
}

func (m *MockLevelService) GetActiveLevels(ctx context.Context) ([]*model.Level, error) {
	args := m.Called(ctx)
	return typed[[]*model.Level](args, 0), args.Error(1)
}

func (m *MockLevelService) GetLevel(ctx context.Context, id int64) (*model.Level, error) {
	args := m.Called(ctx, id)
	return typed[*model.Level](args, 0), args.Error(1)
}

func (m *MockLevelService) UpdateLevel(ctx context.Context, id int64, req *model.UpdateLevelRequest) (*model.Level, error) {
	args := m.Called(ctx, id, req)
	return typed[*model.Level](args, 0), args.Error(1)
}

func (m *MockLevelService) SetActive(ctx context.Context, id int64, active bool, position *int) (*model.ActivationResult, error) {
	args := m.Called(ctx, id, active, position)
	return typed[*model.ActivationResult](args, 0), args.Error(1)
}

func (m *MockLevelService) DeleteLevel(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
