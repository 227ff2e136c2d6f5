package mocks

import (
	"context"

	"agape_study_api/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockProgressService struct {
	mock.Mock
}

func NewMockProgressService(t testingT) *MockProgressService {
	m := &MockProgressService{}
	register(&m.Mock, t)
	return m
}

func (m *MockProgressService) RecordProgress(ctx context.Context, userID int64, req *model.RecordProgressRequest) (*model.RecordProgressResult, error) {
	args := m.Called(ctx, userID, req)
	return typed[*model.RecordProgressResult](args, 0), args.Error(1)
}

func (m *MockProgressService) GetButtons(ctx context.Context, userID, levelID int64) (map[int]model.ButtonProgress, error) {
	args := m.Called(ctx, userID, levelID)
	return typed[map[int]model.ButtonProgress](args, 0), args.Error(1)
}

func (m *MockProgressService) GetCompletedByLevel(ctx context.Context, userID int64) (map[int64]int, error) {
	args := m.Called(ctx, userID)
	return typed[map[int64]int](args, 0), args.Error(1)
}

func (m *MockProgressService) Reconcile(ctx context.Context, userID int64) (*model.ReconcileResult, error) {
	args := m.Called(ctx, userID)
	return typed[*model.ReconcileResult](args, 0), args.Error(1)
}
