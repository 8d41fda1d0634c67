package mock

import (
	"context"

	"github.com/getdocsy/docsee"
	"github.com/google/uuid"
)

var _ docsee.DocumentationRepository = (*Repository)(nil)

// Repository is a mock implementation of docsee.DocumentationRepository.
type Repository struct {
	AddBundleFn         func(ctx context.Context, displayName string, identifier docsee.BundleIdentifier) (*docsee.BundleDetail, error)
	BundleFn            func(ctx context.Context, bundleID uuid.UUID) (*docsee.BundleDetail, error)
	RemoveBundleFn      func(ctx context.Context, bundleID uuid.UUID) error
	AddRevisionFn       func(ctx context.Context, tag string, source string, bundleID uuid.UUID) (*docsee.BundleRevision, error)
	RevisionFn          func(ctx context.Context, tag string, bundleID uuid.UUID) (*docsee.BundleRevision, error)
	RemoveRevisionFn    func(ctx context.Context, tag string, bundleID uuid.UUID) error
	SearchFn            func(ctx context.Context, query docsee.BundleQuery) ([]*docsee.BundleDetail, error)
	SearchCompletionsFn func(ctx context.Context, prefix string, limit int) ([]string, error)
	CloseFn             func() error
}

func (r *Repository) AddBundle(ctx context.Context, displayName string, identifier docsee.BundleIdentifier) (*docsee.BundleDetail, error) {
	return r.AddBundleFn(ctx, displayName, identifier)
}

func (r *Repository) Bundle(ctx context.Context, bundleID uuid.UUID) (*docsee.BundleDetail, error) {
	return r.BundleFn(ctx, bundleID)
}

func (r *Repository) RemoveBundle(ctx context.Context, bundleID uuid.UUID) error {
	return r.RemoveBundleFn(ctx, bundleID)
}

func (r *Repository) AddRevision(ctx context.Context, tag string, source string, bundleID uuid.UUID) (*docsee.BundleRevision, error) {
	return r.AddRevisionFn(ctx, tag, source, bundleID)
}

func (r *Repository) Revision(ctx context.Context, tag string, bundleID uuid.UUID) (*docsee.BundleRevision, error) {
	return r.RevisionFn(ctx, tag, bundleID)
}

func (r *Repository) RemoveRevision(ctx context.Context, tag string, bundleID uuid.UUID) error {
	return r.RemoveRevisionFn(ctx, tag, bundleID)
}

func (r *Repository) Search(ctx context.Context, query docsee.BundleQuery) ([]*docsee.BundleDetail, error) {
	return r.SearchFn(ctx, query)
}

func (r *Repository) SearchCompletions(ctx context.Context, prefix string, limit int) ([]string, error) {
	return r.SearchCompletionsFn(ctx, prefix, limit)
}

func (r *Repository) Close() error {
	if r.CloseFn == nil {
		return nil
	}
	return r.CloseFn()
}
