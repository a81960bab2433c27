// Package manifest implements the version manifest resolver.
package manifest

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/bnema/senzup/internal/boundaries/out"
	"github.com/bnema/senzup/internal/domain"
	"github.com/bnema/senzup/pkg/envtext"
)

// DefaultSymbolPrefix is shared by the symbols in the published manifest.
const DefaultSymbolPrefix = "SENZING_DOCKER_IMAGE_VERSION_"

// Manifest is an immutable symbol to version mapping.
type Manifest struct {
	versions map[string]string
	prefix   string
}

// New builds a manifest from parsed bindings.
func New(versions map[string]string, prefix string) *Manifest {
	return &Manifest{versions: maps.Clone(versions), prefix: prefix}
}

// Parse reads NAME=VERSION bindings. Lines may carry an "export " prefix and
// comments. Values are taken as plain text: no command substitution and no
// $VAR expansion.
func Parse(data []byte, prefix string) (*Manifest, error) {
	versions, err := godotenv.UnmarshalBytes(envtext.Literal(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse version manifest: %w", err)
	}
	return New(versions, prefix), nil
}

// Resolve returns the version bound to symbol.
// The bare symbol, the symbol without the shared prefix and the prefixed
// symbol are tried in that order.
func (m *Manifest) Resolve(symbol string) (string, error) {
	symbol = strings.TrimSpace(symbol)
	candidates := []string{symbol}
	if m.prefix != "" {
		if trimmed, ok := strings.CutPrefix(symbol, m.prefix); ok {
			candidates = append(candidates, trimmed)
		} else {
			candidates = append(candidates, m.prefix+symbol)
		}
	}

	for _, c := range candidates {
		if v := strings.TrimSpace(m.versions[c]); v != "" {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %s", domain.ErrUnknownSymbol, symbol)
}

// Len is the number of bindings.
func (m *Manifest) Len() int { return len(m.versions) }

// Versions returns a copy of the bindings.
func (m *Manifest) Versions() map[string]string { return maps.Clone(m.versions) }

// Loader fetches and parses the manifest once per run.
type Loader struct {
	fetcher out.SourceFetcher
	prefix  string
	log     *log.Logger
}

// NewLoader creates a manifest loader.
func NewLoader(fetcher out.SourceFetcher, prefix string, logger *log.Logger) *Loader {
	return &Loader{fetcher: fetcher, prefix: prefix, log: logger.WithPrefix("manifest")}
}

// Load fetches source and parses it. A fetch failure with no cached copy is
// reported as domain.ErrManifestUnavailable.
func (l *Loader) Load(ctx context.Context, source string) (*Manifest, error) {
	l.log.Debug("loading version manifest", "source", source)

	data, err := l.fetcher.Fetch(ctx, source)
	if err != nil {
		if errors.Is(err, domain.ErrManifestUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrManifestUnavailable, source, err)
	}

	m, err := Parse(data, l.prefix)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrManifestUnavailable, err)
	}

	l.log.Info("version manifest loaded", "symbols", m.Len())
	return m, nil
}
