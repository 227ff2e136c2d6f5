// Package mocks holds testify mocks of the service interfaces.
package mocks

import (
	"github.com/stretchr/testify/mock"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

func register(m *mock.Mock, t testingT) {
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
}

// typed returns the i-th return value as T, or the zero value when it was nil.
func typed[T any](args mock.Arguments, i int) T {
	var zero T
	v := args.Get(i)
	if v == nil {
		return zero
	}
	return v.(T)
}
