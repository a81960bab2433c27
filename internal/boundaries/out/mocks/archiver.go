package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// Archiver is a mock of out.Archiver.
type Archiver struct {
	mock.Mock
}

func (m *Archiver) Create(ctx context.Context, srcDir, dest string, excludes []string) error {
	return m.Called(ctx, srcDir, dest, excludes).Error(0)
}

func (m *Archiver) Extract(ctx context.Context, archive, destDir string, excludes []string) error {
	return m.Called(ctx, archive, destDir, excludes).Error(0)
}

func (m *Archiver) FirstEntry(ctx context.Context, archive string) (string, error) {
	args := m.Called(ctx, archive)
	return args.String(0), args.Error(1)
}
