package mocks

import (
	"context"

	"agape_study_api/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockAnnotationService struct {
	mock.Mock
}

func NewMockAnnotationService(t testingT) *MockAnnotationService {
	m := &MockAnnotationService{}
	register(&m.Mock, t)
	return m
}

func (m *MockAnnotationService) CreateAnnotation(ctx context.Context, userID int64, req *model.CreateAnnotationRequest) (*model.Annotation, error) {
	args := m.Called(ctx, userID, req)
	return typed[*model.Annotation](args, 0), args.Error(1)
}

func (m *MockAnnotationService) ListAnnotations(ctx context.Context, userID int64) ([]*model.Annotation, error) {
	args := m.Called(ctx, userID)
	return typed[[]*model.Annotation](args, 0), args.Error(1)
}

type MockMessageService struct {
	mock.Mock
}

func NewMockMessageService(t testingT) *MockMessageService {
	m := &MockMessageService{}
	register(&m.Mock, t)
	return m
}

func (m *MockMessageService) CreateMessage(ctx context.Context, userID int64, req *model.CreateMessageRequest) (*model.DailyMessage, error) {
	args := m.Called(ctx, userID, req)
	return typed[*model.DailyMessage](args, 0), args.Error(1)
}

func (m *MockMessageService) ListMessages(ctx context.Context, term string) ([]*model.DailyMessage, error) {
	args := m.Called(ctx, term)
	return typed[[]*model.DailyMessage](args, 0), args.Error(1)
}

func (m *MockMessageService) TodayMessage(ctx context.Context) (*model.DailyMessage, error) {
	args := m.Called(ctx)
	return typed[*model.DailyMessage](args, 0), args.Error(1)
}

type MockFriendshipService struct {
	mock.Mock
}

func NewMockFriendshipService(t testingT) *MockFriendshipService {
	m := &MockFriendshipService{}
	register(&m.Mock, t)
	return m
}

func (m *MockFriendshipService) GetOverview(ctx context.Context, userID int64) (*model.FriendshipOverview, error) {
	args := m.Called(ctx, userID)
	return typed[*model.FriendshipOverview](args, 0), args.Error(1)
}

func (m *MockFriendshipService) SendRequest(ctx context.Context, userID int64, req *model.CreateFriendshipRequest) (*model.Friendship, error) {
	args := m.Called(ctx, userID, req)
	return typed[*model.Friendship](args, 0), args.Error(1)
}

func (m *MockFriendshipService) RespondRequest(ctx context.Context, userID, friendshipID int64, req *model.UpdateFriendshipRequest) (*model.Friendship, error) {
	args := m.Called(ctx, userID, friendshipID, req)
	return typed[*model.Friendship](args, 0), args.Error(1)
}

func (m *MockFriendshipService) RemoveFriendship(ctx context.Context, userID, friendshipID int64) error {
	args := m.Called(ctx, userID, friendshipID)
	return args.Error(0)
}

func (m *MockFriendshipService) SearchUsers(ctx context.Context, userID int64, term string) ([]*model.UserSummary, error) {
	args := m.Called(ctx, userID, term)
	return typed[[]*model.UserSummary](args, 0), args.Error(1)
}
