package mocks

import (
	"context"

	"agape_study_api/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockAuthService struct {
	mock.Mock
}

func NewMockAuthService(t testingT) *MockAuthService {
	m := &MockAuthService{}
	register(&m.Mock, t)
	return m
}

func (m *MockAuthService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	args := m.Called(ctx, req)
	return typed[*model.User](args, 0), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	args := m.Called(ctx, req)
	return typed[*model.LoginResponse](args, 0), args.Error(1)
}

func (m *MockAuthService) VerifyToken(ctx context.Context, userID int64) (*model.PublicUser, error) {
	args := m.Called(ctx, userID)
	return typed[*model.PublicUser](args, 0), args.Error(1)
}
