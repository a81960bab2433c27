package collection

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/distribution/reference"

	"github.com/bnema/senzup/internal/boundaries/out"
	"github.com/bnema/senzup/internal/domain"
)

// Resolver looks up the version bound to a symbol.
type Resolver interface {
	Resolve(symbol string) (string, error)
}

var (
	// {{SYM}} and ${{SYM}} protect tokens from shell evaluation in the source.
	doubleBraceToken = regexp.MustCompile(`\$?\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)
	dollarToken      = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)
	singleBraceToken = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)
)

// Index expands collection ids into image references.
type Index struct {
	defs     *Definitions
	resolver Resolver
}

// NewIndex binds definitions to a version resolver.
func NewIndex(defs *Definitions, resolver Resolver) *Index {
	return &Index{defs: defs, resolver: resolver}
}

// Expand returns the deduplicated image references of ids. The result is
// sorted for stable output; callers must rely on set membership only.
func (i *Index) Expand(ids []domain.CollectionID) ([]domain.ImageReference, error) {
	var raw []domain.ImageTemplate
	for _, id := range ids {
		block, err := i.defs.Block(id)
		if err != nil {
			return nil, err
		}
		raw = append(raw, block...)
	}

	seen := make(map[domain.ImageTemplate]struct{}, len(raw))
	set := make(domain.ImageSet, len(raw))
	for _, tmpl := range raw {
		if _, dup := seen[tmpl]; dup {
			continue
		}
		seen[tmpl] = struct{}{}

		resolved, err := i.substitute(NormalizeTokens(string(tmpl)))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", tmpl, err)
		}
		if !IsImageEntry(resolved) {
			continue
		}
		set.Add(domain.ImageReference(resolved))
	}

	return set.Sorted(), nil
}

// ExpandSet is Expand returning a set.
func (i *Index) ExpandSet(ids []domain.CollectionID) (domain.ImageSet, error) {
	refs, err := i.Expand(ids)
	if err != nil {
		return nil, err
	}
	return domain.NewImageSet(refs...), nil
}

// Resolve substitutes the tokens of a single template.
func (i *Index) Resolve(tmpl domain.ImageTemplate) (domain.ImageReference, error) {
	resolved, err := i.substitute(NormalizeTokens(string(tmpl)))
	if err != nil {
		return "", fmt.Errorf("%s: %w", tmpl, err)
	}
	if !IsImageEntry(resolved) {
		return "", fmt.Errorf("%w: %q is not an image reference", domain.ErrInvalidArgument, resolved)
	}
	return domain.ImageReference(resolved), nil
}

func (i *Index) substitute(s string) (string, error) {
	var firstErr error
	out := singleBraceToken.ReplaceAllStringFunc(s, func(token string) string {
		symbol := singleBraceToken.FindStringSubmatch(token)[1]
		version, err := i.resolver.Resolve(symbol)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return token
		}
		return version
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}

// NormalizeTokens rewrites "{{SYM}}", "${{SYM}}" and "${SYM}" to "{SYM}".
func NormalizeTokens(s string) string {
	s = doubleBraceToken.ReplaceAllString(s, "{$1}")
	return dollarToken.ReplaceAllString(s, "{$1}")
}

// IsImageEntry reports whether s is an image reference carrying a tag or digest.
func IsImageEntry(s string) bool {
	if s == "" || strings.ContainsAny(s, "{}$= ") {
		return false
	}
	named, err := reference.ParseNormalizedNamed(s)
	if err != nil {
		return false
	}
	if _, ok := named.(reference.Tagged); ok {
		return true
	}
	_, ok := named.(reference.Digested)
	return ok
}

// RepositoryName returns the familiar repository of an image reference,
// e.g. "senzing/web-app-demo" for "docker.io/senzing/web-app-demo:2.8.3".
func RepositoryName(ref domain.ImageReference) string {
	named, err := reference.ParseNormalizedNamed(string(ref))
	if err != nil {
		name, _, _ := strings.Cut(string(ref), ":")
		return name
	}
	return reference.FamiliarName(named)
}

// FindByRepository returns the first reference (in lexical order) whose
// repository is repo.
func FindByRepository(refs []domain.ImageReference, repo string) (domain.ImageReference, bool) {
	sorted := slices.Clone(refs)
	slices.Sort(sorted)
	for _, ref := range sorted {
		if RepositoryName(ref) == repo {
			return ref, true
		}
	}
	return "", false
}

// Loader fetches the definition source.
type Loader struct {
	fetcher out.SourceFetcher
	log     *log.Logger
}

// NewLoader creates a definitions loader.
func NewLoader(fetcher out.SourceFetcher, logger *log.Logger) *Loader {
	return &Loader{fetcher: fetcher, log: logger.WithPrefix("collections")}
}

// Load fetches and parses the definition source.
func (l *Loader) Load(ctx context.Context, source string) (*Definitions, error) {
	data, err := l.fetcher.Fetch(ctx, source)
	if err != nil {
		return nil, err
	}
	defs, err := ParseDefinitions(data)
	if err != nil {
		return nil, err
	}
	l.log.Info("collection definitions loaded", "collections", len(defs.IDs()))
	return defs, nil
}
