package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/getdocsy/docsee"
)

// Ensure ProjectStore implements docsee.ProjectStore at compile time.
var _ docsee.ProjectStore = (*ProjectStore)(nil)

// ProjectStore persists projects as JSON files, one per project
// identifier. Writes go to a temporary file first and are moved into place
// atomically, so readers never observe a partially written project.
type ProjectStore struct {
	dir string
}

// NewProjectStore creates a ProjectStore writing under dir.
func NewProjectStore(dir string) *ProjectStore {
	return &ProjectStore{dir: dir}
}

func (s *ProjectStore) path(identifier string) string {
	return filepath.Join(s.dir, identifier+".json")
}

func (s *ProjectStore) SaveProject(ctx context.Context, project *docsee.Project) error {
	if project.Identifier == "" {
		return docsee.Errorf(docsee.EINVALID, "project identifier required")
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating project directory: %w", err)
	}

	data, err := json.MarshalIndent(project, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding project: %w", err)
	}

	tmp := s.path(project.Identifier) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing project: %w", err)
	}
	if err := os.Rename(tmp, s.path(project.Identifier)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("committing project: %w", err)
	}
	return nil
}

func (s *ProjectStore) LoadProject(ctx context.Context, identifier string) (*docsee.Project, error) {
	data, err := os.ReadFile(s.path(identifier))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, docsee.Errorf(docsee.ENOTFOUND, "project %q not found", identifier)
		}
		return nil, fmt.Errorf("reading project: %w", err)
	}

	var project docsee.Project
	if err := json.Unmarshal(data, &project); err != nil {
		return nil, docsee.Errorf(docsee.EINVALID, "project %q is malformed: %v", identifier, err)
	}
	project.Persistent = true
	return &project, nil
}
