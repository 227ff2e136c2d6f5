package mocks

import (
	"context"

	"agape_study_api/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockUserService struct {
	mock.Mock
}

func NewMockUserService(t testingT) *MockUserService {
	m := &MockUserService{}
	register(&m.Mock, t)
	return m
}

func (m *MockUserService) SearchUsers(ctx context.Context, term string) ([]*model.PublicUser, error) {
	args := m.Called(ctx, term)
	return typed[[]*model.PublicUser](args, 0), args.Error(1)
}

func (m *MockUserService) GetUser(ctx context.Context, id int64) (*model.PublicUser, error) {
	args := m.Called(ctx, id)
	return typed[*model.PublicUser](args, 0), args.Error(1)
}

func (m *MockUserService) GetPublicUser(ctx context.Context, id int64) (*model.PublicUser, error) {
	args := m.Called(ctx, id)
	return typed[*model.PublicUser](args, 0), args.Error(1)
}

func (m *MockUserService) AdminUpdateUser(ctx context.Context, id int64, req *model.AdminUpdateUserRequest) (*model.PublicUser, error) {
	args := m.Called(ctx, id, req)
	return typed[*model.PublicUser](args, 0), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, userID int64, req *model.UpdateProfileRequest) (*model.PublicUser, error) {
	args := m.Called(ctx, userID, req)
	return typed[*model.PublicUser](args, 0), args.Error(1)
}
