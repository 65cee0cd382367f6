package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileArtifactRepository reads artifacts from a directory on disk.
type FileArtifactRepository struct {
	dir string
}

// NewFileArtifactRepository creates a repository rooted at dir.
func NewFileArtifactRepository(dir string) *FileArtifactRepository {
	return &FileArtifactRepository{dir: dir}
}

// Load reads <dir>/<name>. A missing file is reported as absent.
func (r *FileArtifactRepository) Load(
	ctx context.Context,
	name string,
) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if name == "" || filepath.Base(name) != name {
		return nil, false, fmt.Errorf("invalid artifact name %q", name)
	}

	data, err := os.ReadFile(filepath.Join(r.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read artifact %s: %w", name, err)
	}
	return data, true, nil
}
