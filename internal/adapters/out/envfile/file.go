// Package envfile implements the environment file store with dotenv syntax.
package envfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/bnema/senzup/pkg/envtext"
)

const header = "#!/usr/bin/env bash\n# Generated by senzup. Source this file to configure the project's containers.\n\n"

// Store reads and writes shell-sourceable KEY=VALUE files.
type Store struct{}

// NewStore creates an env file store.
func NewStore() *Store { return &Store{} }

// Read parses path. "export " prefixes, quotes and comments are handled;
// values are kept literally, "$VAR" and "$(cmd)" included.
func (s *Store) Read(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	env, err := godotenv.UnmarshalBytes(envtext.Literal(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return env, nil
}

// Write replaces path with env, one "export KEY=VALUE" line per key in
// lexical order.
func (s *Store) Write(path string, env map[string]string) error {
	body, err := godotenv.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to encode environment: %w", err)
	}

	var b strings.Builder
	b.WriteString(header)
	for _, line := range strings.Split(body, "\n") {
		if line == "" {
			continue
		}
		b.WriteString("export ")
		b.WriteString(line)
		b.WriteByte('\n')
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(b.String()), 0o755); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
