package mock

import (
	"context"

	"github.com/getdocsy/docsee"
)

var _ docsee.ProjectStore = (*ProjectStore)(nil)

// ProjectStore is a mock implementation of docsee.ProjectStore.
type ProjectStore struct {
	SaveProjectFn func(ctx context.Context, project *docsee.Project) error
	LoadProjectFn func(ctx context.Context, identifier string) (*docsee.Project, error)
}

func (s *ProjectStore) SaveProject(ctx context.Context, project *docsee.Project) error {
	return s.SaveProjectFn(ctx, project)
}

func (s *ProjectStore) LoadProject(ctx context.Context, identifier string) (*docsee.Project, error) {
	return s.LoadProjectFn(ctx, identifier)
}
