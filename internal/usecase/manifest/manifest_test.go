package manifest

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

const sample = `#!/usr/bin/env bash
# Published image versions
export SENZING_DOCKER_IMAGE_VERSION_INIT_CONTAINER=1.2.0
export SENZING_DOCKER_IMAGE_VERSION_WEB_APP_DEMO=2.8.3
SENZING_DOCKER_IMAGE_VERSION_EMPTY=
SENZING_DOCKER_IMAGE_VERSION_YUM="1.1.7"
`

func TestParseAndResolve(t *testing.T) {
	m, err := Parse([]byte(sample), DefaultSymbolPrefix)
	require.NoError(t, err)

	tests := []struct {
		symbol  string
		want    string
		wantErr bool
	}{
		{symbol: "SENZING_DOCKER_IMAGE_VERSION_INIT_CONTAINER", want: "1.2.0"},
		{symbol: "WEB_APP_DEMO", want: "2.8.3"},
		{symbol: "SENZING_DOCKER_IMAGE_VERSION_YUM", want: "1.1.7"},
		{symbol: "SENZING_DOCKER_IMAGE_VERSION_EMPTY", wantErr: true},
		{symbol: "SENZING_DOCKER_IMAGE_VERSION_MISSING", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			got, err := m.Resolve(tt.symbol)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrUnknownSymbol)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_ShortManifestKeys(t *testing.T) {
	m := New(map[string]string{"INIT_CONTAINER": "1.2.0"}, DefaultSymbolPrefix)

	got, err := m.Resolve("SENZING_DOCKER_IMAGE_VERSION_INIT_CONTAINER")
	require.NoError(t, err)
	assert.Equal(t, "1.2.0", got)
}

func TestParse_DoesNotEvaluate(t *testing.T) {
	m, err := Parse([]byte("X_VERSION='$(rm -rf /)'\n"), "")
	require.NoError(t, err)

	got, err := m.Resolve("X_VERSION")
	require.NoError(t, err)
	assert.Equal(t, "$(rm -rf /)", got)
}

func TestParse_DoesNotExpandVariables(t *testing.T) {
	t.Setenv("SENZUP_TEST_VERSION", "9.9.9")

	m, err := Parse([]byte("export X_VERSION=${SENZUP_TEST_VERSION}\nY_VERSION=1.0.0\nZ_VERSION=\"$Y_VERSION\"\n"), "")
	require.NoError(t, err)

	got, err := m.Resolve("X_VERSION")
	require.NoError(t, err)
	assert.Equal(t, "${SENZUP_TEST_VERSION}", got)

	got, err = m.Resolve("Z_VERSION")
	require.NoError(t, err)
	assert.Equal(t, "$Y_VERSION", got)
}

func TestLoader_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("parses fetched source", func(t *testing.T) {
		fetcher := &mocks.SourceFetcher{}
		fetcher.On("Fetch", mock.Anything, "https://example.test/versions.sh").Return([]byte(sample), nil)

		m, err := NewLoader(fetcher, DefaultSymbolPrefix, logging.Discard()).Load(ctx, "https://example.test/versions.sh")
		require.NoError(t, err)
		assert.Equal(t, 4, m.Len())
		fetcher.AssertExpectations(t)
	})

	t.Run("fetch failure is manifest unavailable", func(t *testing.T) {
		fetcher := &mocks.SourceFetcher{}
		fetcher.On("Fetch", mock.Anything, "src").Return(nil, errors.New("connection refused"))

		_, err := NewLoader(fetcher, DefaultSymbolPrefix, logging.Discard()).Load(ctx, "src")
		assert.ErrorIs(t, err, domain.ErrManifestUnavailable)
	})
}
