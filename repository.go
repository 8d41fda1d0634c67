package docsee

import (
	"context"

	"github.com/google/uuid"
)

// BundleMetadata describes a bundle known to the documentation repository.
type BundleMetadata struct {
	// ID is the repository-assigned identifier.
	ID uuid.UUID `json:"id"`

	// DisplayName is the bundle's human-readable name.
	DisplayName string `json:"displayName"`

	// BundleIdentifier is the bundle's reverse-DNS identifier, unique
	// within the repository.
	BundleIdentifier BundleIdentifier `json:"bundleIdentifier"`
}

// BundleRevision is one published revision of a bundle.
type BundleRevision struct {
	// BundleID links to the owning BundleMetadata.
	BundleID uuid.UUID `json:"bundleId"`

	// Tag names the revision, unique per bundle (e.g. "0.1.0").
	Tag string `json:"tag"`

	// Source is the URL the revision's archive can be retrieved from.
	Source string `json:"source"`
}

// BundleDetail combines a bundle's metadata with all of its revisions.
type BundleDetail struct {
	Metadata  BundleMetadata   `json:"metadata"`
	Revisions []BundleRevision `json:"revisions"`
}

// BundleQuery filters a repository search.
type BundleQuery struct {
	// Term is the full-text search term. Nil or empty returns all bundles
	// ordered by display name.
	Term *string `json:"term"`
}

// DocumentationRepository stores bundle metadata and revisions with
// full-text search over display names and bundle identifiers.
//
// Each operation is independently atomic.
type DocumentationRepository interface {
	// AddBundle registers a new bundle.
	// Returns ECONFLICT if the identifier is already registered.
	AddBundle(ctx context.Context, displayName string, identifier BundleIdentifier) (*BundleDetail, error)

	// Bundle retrieves a bundle with all its revisions.
	// Returns ENOTFOUND if the bundle does not exist.
	Bundle(ctx context.Context, bundleID uuid.UUID) (*BundleDetail, error)

	// RemoveBundle deletes a bundle, cascading revision deletion.
	RemoveBundle(ctx context.Context, bundleID uuid.UUID) error

	// AddRevision records a new revision of a bundle.
	// Returns ECONFLICT if the tag already exists for the bundle.
	AddRevision(ctx context.Context, tag string, source string, bundleID uuid.UUID) (*BundleRevision, error)

	// Revision retrieves a single revision.
	// Returns ENOTFOUND if it does not exist.
	Revision(ctx context.Context, tag string, bundleID uuid.UUID) (*BundleRevision, error)

	// RemoveRevision deletes a single revision.
	RemoveRevision(ctx context.Context, tag string, bundleID uuid.UUID) error

	// Search returns bundles matching the query, each with all of its
	// revisions. An empty query returns all bundles ordered by display
	// name.
	Search(ctx context.Context, query BundleQuery) ([]*BundleDetail, error)

	// SearchCompletions returns distinct indexed terms matching the
	// prefix, ranked by relevance and truncated to limit.
	SearchCompletions(ctx context.Context, prefix string, limit int) ([]string, error)

	// Close releases repository resources.
	Close() error
}
