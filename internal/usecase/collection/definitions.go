// Package collection implements the collection index: parsing collection
// definitions and expanding collection ids into concrete image references.
package collection

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bnema/senzup/internal/domain"
)

// Definitions maps collection ids to their raw template blocks.
type Definitions struct {
	blocks map[domain.CollectionID][]domain.ImageTemplate
}

// NewDefinitions builds definitions from already-split blocks.
func NewDefinitions(blocks map[domain.CollectionID][]domain.ImageTemplate) *Definitions {
	d := &Definitions{blocks: make(map[domain.CollectionID][]domain.ImageTemplate, len(blocks))}
	for id, templates := range blocks {
		id = domain.NormalizeCollectionID(string(id))
		d.blocks[id] = append(d.blocks[id], templates...)
	}
	return d
}

// IDs returns the defined collection ids in lexical order.
func (d *Definitions) IDs() []domain.CollectionID {
	ids := make([]domain.CollectionID, 0, len(d.blocks))
	for id := range d.blocks {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Block returns the raw templates of id.
// ALL falls back to every defined block when the source does not define it.
func (d *Definitions) Block(id domain.CollectionID) ([]domain.ImageTemplate, error) {
	id = domain.NormalizeCollectionID(string(id))
	if block, ok := d.blocks[id]; ok {
		return block, nil
	}
	if id == domain.CollectionAll && len(d.blocks) > 0 {
		var all []domain.ImageTemplate
		for _, other := range d.IDs() {
			all = append(all, d.blocks[other]...)
		}
		return all, nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrUnknownCollection, id)
}

// yamlDefinitions is the YAML form of a definition source.
type yamlDefinitions struct {
	Collections map[string][]string `yaml:"collections"`
}

// ParseDefinitions reads a definition source in either the block format
//
//	WEBAPPDEMO=(
//	  "senzing/init-container:{{SENZING_DOCKER_IMAGE_VERSION_INIT_CONTAINER}}"
//	)
//
// or YAML ("collections: {ID: [templates...]}").
func ParseDefinitions(data []byte) (*Definitions, error) {
	if looksLikeYAML(data) {
		return parseYAML(data)
	}
	return parseBlocks(data)
}

func looksLikeYAML(data []byte) bool {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || line == "---" {
			continue
		}
		return strings.HasPrefix(line, "collections:")
	}
	return false
}

func parseYAML(data []byte) (*Definitions, error) {
	var doc yamlDefinitions
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse collection definitions: %w", err)
	}

	blocks := make(map[domain.CollectionID][]domain.ImageTemplate, len(doc.Collections))
	for id, entries := range doc.Collections {
		key := domain.NormalizeCollectionID(id)
		for _, e := range entries {
			blocks[key] = append(blocks[key], domain.ImageTemplate(strings.TrimSpace(e)))
		}
	}
	return NewDefinitions(blocks), nil
}

var blockOpenRegex = regexp.MustCompile(`^(?:export\s+)?([A-Za-z][A-Za-z0-9_]*)=\((.*)$`)

func parseBlocks(data []byte) (*Definitions, error) {
	blocks := make(map[domain.CollectionID][]domain.ImageTemplate)

	var (
		current domain.CollectionID
		open    bool
		lineNum int
	)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !open {
			m := blockOpenRegex.FindStringSubmatch(line)
			if m == nil {
				// stray definition line outside any block
				continue
			}
			current = domain.NormalizeCollectionID(m[1])
			if _, ok := blocks[current]; !ok {
				blocks[current] = nil
			}
			open = true
			line = m[2]
		}

		rest, closed := strings.CutSuffix(strings.TrimSpace(line), ")")
		for _, field := range strings.Fields(rest) {
			entry := strings.Trim(field, `"'`)
			if entry == "" {
				continue
			}
			blocks[current] = append(blocks[current], domain.ImageTemplate(entry))
		}
		if closed {
			open = false
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read collection definitions: %w", err)
	}
	if open {
		return nil, fmt.Errorf("collection definitions: block %s is not closed (line %d)", current, lineNum)
	}
	return NewDefinitions(blocks), nil
}
