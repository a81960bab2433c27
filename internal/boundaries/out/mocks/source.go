package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// SourceFetcher is a mock of out.SourceFetcher.
type SourceFetcher struct {
	mock.Mock
}

func (m *SourceFetcher) Fetch(ctx context.Context, source string) ([]byte, error) {
	args := m.Called(ctx, source)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}
