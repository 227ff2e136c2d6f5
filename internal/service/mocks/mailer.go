package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockMailer struct {
	mock.Mock
}

func NewMockMailer(t testingT) *MockMailer {
	m := &MockMailer{}
	register(&m.Mock, t)
	return m
}

func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}
