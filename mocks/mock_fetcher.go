package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"pagefetch/internal/domain"
)

// MockFetcher is a mock implementation of domain.Fetcher
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) NewTransfer(ctx context.Context, url string) (domain.Transfer, error) {
	args := m.Called(ctx, url)

	var transfer domain.Transfer
	if args.Get(0) != nil {
		transfer = args.Get(0).(domain.Transfer)
	}

	return transfer, args.Error(1)
}

// MockTransfer is a mock implementation of domain.Transfer
type MockTransfer struct {
	mock.Mock
}

func (m *MockTransfer) Fetch(w io.Writer) (int64, error) {
	args := m.Called(w)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransfer) Close() error {
	args := m.Called()
	return args.Error(0)
}
