package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"pagefetch/internal/domain"
)

// MockDestinationOpener is a mock implementation of domain.DestinationOpener
type MockDestinationOpener struct {
	mock.Mock
}

func (m *MockDestinationOpener) Open(ctx context.Context, key string) (domain.Destination, error) {
	args := m.Called(ctx, key)

	var dest domain.Destination
	if args.Get(0) != nil {
		dest = args.Get(0).(domain.Destination)
	}

	return dest, args.Error(1)
}

// MockDestination is a mock implementation of domain.Destination
type MockDestination struct {
	mock.Mock
}

func (m *MockDestination) Write(p []byte) (int, error) {
	args := m.Called(p)
	return args.Int(0), args.Error(1)
}

func (m *MockDestination) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDestination) Close() error {
	args := m.Called()
	return args.Error(0)
}
