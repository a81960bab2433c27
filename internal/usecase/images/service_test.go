package images

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/senzup/internal/boundaries/out/mocks"
	"github.com/bnema/senzup/internal/domain"
	"github.com/bnema/senzup/internal/logging"
)

func TestReconcile(t *testing.T) {
	tests := []struct {
		name    string
		desired domain.ImageSet
		present domain.ImageSet
		want    domain.ImageSet
	}{
		{
			name:    "intersection when non-empty",
			desired: domain.NewImageSet("a:1", "b:1", "c:1"),
			present: domain.NewImageSet("b:1", "c:1", "z:9"),
			want:    domain.NewImageSet("b:1", "c:1"),
		},
		{
			name:    "nothing present falls back to desired",
			desired: domain.NewImageSet("a:1", "b:1"),
			present: domain.NewImageSet(),
			want:    domain.NewImageSet("a:1", "b:1"),
		},
		{
			name:    "disjoint falls back to desired",
			desired: domain.NewImageSet("a:1"),
			present: domain.NewImageSet("a:2"),
			want:    domain.NewImageSet("a:1"),
		},
		{
			name:    "empty desired stays empty",
			desired: domain.NewImageSet(),
			present: domain.NewImageSet("a:1"),
			want:    domain.NewImageSet(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reconcile(tt.desired, tt.present)
			assert.True(t, tt.want.Equal(got), "got %v", got.Strings())
		})
	}
}

func TestReconcile_DoesNotAliasDesired(t *testing.T) {
	desired := domain.NewImageSet("a:1")
	got := Reconcile(desired, nil)
	got.Add("b:1")
	assert.Len(t, desired, 1)
}

func TestService_FetchVerify_PullsOnlyMissing(t *testing.T) {
	ctx := context.Background()
	rt := &mocks.ContainerRuntime{}
	rt.On("ListImages", mock.Anything).Return([]string{"a:1"}, nil)

	svc := NewService(rt, logging.Discard())
	set, err := svc.FetchVerify(ctx, domain.NewImageSet("a:1", "b:1"))
	require.NoError(t, err)

	assert.Equal(t, []string{"a:1"}, set.Strings())
	rt.AssertNotCalled(t, "PullImage", mock.Anything, mock.Anything)
}

func TestService_FetchVerify_FallbackPullsEverything(t *testing.T) {
	ctx := context.Background()
	rt := &mocks.ContainerRuntime{}
	rt.On("ListImages", mock.Anything).Return(nil, errors.New("daemon hiccup"))
	rt.On("PullImage", mock.Anything, "a:1").Return(nil).Once()
	rt.On("PullImage", mock.Anything, "b:1").Return(nil).Once()

	svc := NewService(rt, logging.Discard())
	set, err := svc.FetchVerify(ctx, domain.NewImageSet("a:1", "b:1"))
	require.NoError(t, err)

	assert.Equal(t, []string{"a:1", "b:1"}, set.Strings())
	rt.AssertExpectations(t)
}

func TestService_FetchVerify_PullFailure(t *testing.T) {
	ctx := context.Background()
	rt := &mocks.ContainerRuntime{}
	rt.On("ListImages", mock.Anything).Return([]string{}, nil)
	rt.On("PullImage", mock.Anything, "a:1").Return(errors.New("manifest unknown"))

	_, err := NewService(rt, logging.Discard()).FetchVerify(ctx, domain.NewImageSet("a:1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a:1")
}

func TestService_Ensure_ReturnsFullDesiredSet(t *testing.T) {
	ctx := context.Background()
	rt := &mocks.ContainerRuntime{}
	rt.On("ListImages", mock.Anything).Return([]string{"b:1", "z:9"}, nil)
	rt.On("PullImage", mock.Anything, "a:1").Return(nil).Once()

	desired := domain.NewImageSet("a:1", "b:1")
	set, err := NewService(rt, logging.Discard()).Ensure(ctx, desired)
	require.NoError(t, err)

	assert.Equal(t, []string{"a:1", "b:1"}, set.Strings())
	rt.AssertNumberOfCalls(t, "PullImage", 1)
	rt.AssertExpectations(t)
}

func TestService_Ensure_ListFailurePullsEverything(t *testing.T) {
	ctx := context.Background()
	rt := &mocks.ContainerRuntime{}
	rt.On("ListImages", mock.Anything).Return(nil, errors.New("daemon unavailable"))
	rt.On("PullImage", mock.Anything, mock.Anything).Return(nil)

	set, err := NewService(rt, logging.Discard()).Ensure(ctx, domain.NewImageSet("a:1", "b:1"))
	require.NoError(t, err)

	assert.Len(t, set, 2)
	rt.AssertNumberOfCalls(t, "PullImage", 2)
}

func TestService_Save(t *testing.T) {
	ctx := context.Background()
	rt := &mocks.ContainerRuntime{}
	rt.On("SaveImages", mock.Anything, []string{"a:1", "b:1"}, "/tmp/bundle.tar").Return(nil)

	err := NewService(rt, logging.Discard()).Save(ctx, domain.NewImageSet("b:1", "a:1"), "/tmp/bundle.tar")
	require.NoError(t, err)
	rt.AssertExpectations(t)
}
