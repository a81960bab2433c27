// Package mocks provides testify mocks for the output ports.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bnema/senzup/internal/domain"
)

// ContainerRuntime is a mock of out.ContainerRuntime.
type ContainerRuntime struct {
	mock.Mock
}

func (m *ContainerRuntime) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *ContainerRuntime) ListImages(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	images, _ := args.Get(0).([]string)
	return images, args.Error(1)
}

func (m *ContainerRuntime) PullImage(ctx context.Context, image string) error {
	return m.Called(ctx, image).Error(0)
}

func (m *ContainerRuntime) SaveImages(ctx context.Context, images []string, dest string) error {
	return m.Called(ctx, images, dest).Error(0)
}

func (m *ContainerRuntime) LoadImages(ctx context.Context, src string) ([]string, error) {
	args := m.Called(ctx, src)
	images, _ := args.Get(0).([]string)
	return images, args.Error(1)
}

func (m *ContainerRuntime) RunContainer(ctx context.Context, spec domain.RunSpec) (*domain.RunResult, error) {
	args := m.Called(ctx, spec)
	result, _ := args.Get(0).(*domain.RunResult)
	return result, args.Error(1)
}

func (m *ContainerRuntime) CreateNetwork(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

func (m *ContainerRuntime) NetworkExists(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}
