package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanEntryName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{"top level dir", "senzupProj1/", "senzupProj1", nil},
		{"nested file", "senzupProj1/var/docker_save/images.txt", "senzupProj1/var/docker_save/images.txt", nil},
		{"dot prefix", "./senzupProj1/g2", "senzupProj1/g2", nil},
		{"inner dotdot stays inside", "p/g2/../data", "p/data", nil},

		{"empty", "", "", ErrEmptyPath},
		{"absolute", "/etc/passwd", "", ErrAbsolutePath},
		{"traversal", "../etc/passwd", "", ErrPathTraversal},
		{"hidden traversal", "p/../../etc", "", ErrPathTraversal},
		{"just dot", "./", "", ErrRootNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CleanEntryName(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidatePathWithinRoot(t *testing.T) {
	tests := []struct {
		name     string
		rootDir  string
		fullPath string
		wantErr  error
	}{
		{"within root", "/srv/target", "/srv/target/proj", nil},
		{"nested within root", "/srv/target", "/srv/target/proj/g2/lib", nil},
		{"exact root", "/srv/target", "/srv/target", ErrRootNotAllowed},
		{"escapes root", "/srv/target", "/etc/passwd", ErrOutsideOfRoot},
		{"traversal escape", "/srv/target", "/srv/target/../etc", ErrOutsideOfRoot},
		{"sibling with common prefix", "/srv/target", "/srv/target2/proj", ErrOutsideOfRoot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePathWithinRoot(tt.rootDir, tt.fullPath)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestWithinRoot(t *testing.T) {
	assert.True(t, WithinRoot("/srv/p", "/srv/p"))
	assert.True(t, WithinRoot("/srv/p", "/srv/p/out"))
	assert.False(t, WithinRoot("/srv/p", "/srv"))
	assert.False(t, WithinRoot("/srv/p", "/srv/p-out"))
}
