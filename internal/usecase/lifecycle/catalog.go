package lifecycle

import (
	"context"
	"fmt"

	"github.com/bnema/senzup/internal/usecase/collection"
	"github.com/bnema/senzup/internal/usecase/manifest"
)

// Sources locate the version manifest and the collection definitions.
type Sources struct {
	Manifest    string
	Collections string
	// DefaultCollections is parsed when Collections is empty.
	DefaultCollections []byte
}

// Catalog loads the manifest and collection definitions once per run and
// exposes the resulting index.
type Catalog struct {
	manifests   *manifest.Loader
	definitions *collection.Loader
	sources     Sources
	index       *collection.Index
}

// NewCatalog creates a catalog.
func NewCatalog(manifests *manifest.Loader, definitions *collection.Loader, sources Sources) *Catalog {
	return &Catalog{manifests: manifests, definitions: definitions, sources: sources}
}

// Index returns the collection index, loading its inputs on first use.
func (c *Catalog) Index(ctx context.Context) (*collection.Index, error) {
	if c.index != nil {
		return c.index, nil
	}

	var (
		defs *collection.Definitions
		err  error
	)
	if c.sources.Collections != "" {
		defs, err = c.definitions.Load(ctx, c.sources.Collections)
	} else {
		defs, err = collection.ParseDefinitions(c.sources.DefaultCollections)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load collection definitions: %w", err)
	}

	m, err := c.manifests.Load(ctx, c.sources.Manifest)
	if err != nil {
		return nil, err
	}

	c.index = collection.NewIndex(defs, m)
	return c.index, nil
}
