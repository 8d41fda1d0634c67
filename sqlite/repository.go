package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/getdocsy/docsee"
	"github.com/getdocsy/docsee/tokenizer"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ docsee.DocumentationRepository = (*Repository)(nil)

// Repository implements docsee.DocumentationRepository using SQLite with
// an FTS5 full-text index over pre-tokenized bundle names and identifiers.
type Repository struct {
	db *DB
}

// NewRepository creates a Repository on an already opened DB.
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// Open opens (creating if necessary) a repository at path and returns it
// ready for use. Closing the repository closes the underlying database.
func Open(path string) (*Repository, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating repository directory: %w", err)
		}
	}
	db := NewDB(path)
	if err := db.Open(); err != nil {
		return nil, err
	}
	return NewRepository(db), nil
}

// Close closes the underlying database.
func (r *Repository) Close() error {
	return r.db.Close()
}

// searchTerms produces the space-joined stemmed token list indexed for a
// bundle. Both the display name and the identifier contribute terms, so a
// query like "kit" reaches bundles named "DocumentationKit".
func searchTerms(displayName string, identifier docsee.BundleIdentifier) string {
	tokens := tokenizer.Tokenize(displayName + " " + identifier)
	return strings.Join(tokens, " ")
}

// isUniqueViolation reports whether err is a SQLite unique constraint
// failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint")
}

// AddBundle registers a new bundle and indexes its search terms.
func (r *Repository) AddBundle(ctx context.Context, displayName string, identifier docsee.BundleIdentifier) (*docsee.BundleDetail, error) {
	if displayName == "" {
		return nil, docsee.Errorf(docsee.EINVALID, "bundle display name required")
	}
	if identifier == "" {
		return nil, docsee.Errorf(docsee.EINVALID, "bundle identifier required")
	}

	id := uuid.New()

	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO bundles (id, display_name, bundle_identifier)
		VALUES (?, ?, ?)
	`, id.String(), displayName, identifier)
	if isUniqueViolation(err) {
		return nil, docsee.Errorf(docsee.ECONFLICT, "bundle %q already exists", identifier)
	}
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO bundles_search (terms, bundle_id)
		VALUES (?, ?)
	`, searchTerms(displayName, identifier), id.String())
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &docsee.BundleDetail{
		Metadata: docsee.BundleMetadata{
			ID:               id,
			DisplayName:      displayName,
			BundleIdentifier: identifier,
		},
	}, nil
}

// Bundle retrieves a bundle with all of its revisions.
func (r *Repository) Bundle(ctx context.Context, bundleID uuid.UUID) (*docsee.BundleDetail, error) {
	var detail docsee.BundleDetail
	var id string

	err := r.db.QueryRowContext(ctx, `
		SELECT id, display_name, bundle_identifier
		FROM bundles
		WHERE id = ?
	`, bundleID.String()).Scan(&id, &detail.Metadata.DisplayName, &detail.Metadata.BundleIdentifier)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, docsee.Errorf(docsee.ENOTFOUND, "bundle not found")
	}
	if err != nil {
		return nil, err
	}

	detail.Metadata.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bundle id: %w", err)
	}

	detail.Revisions, err = r.revisions(ctx, bundleID)
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// RemoveBundle deletes a bundle, its revisions and its search terms.
func (r *Repository) RemoveBundle(ctx context.Context, bundleID uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Revisions cascade via the foreign key; the FTS table does not.
	if _, err := tx.ExecContext(ctx, `DELETE FROM bundles WHERE id = ?`, bundleID.String()); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM bundles_search WHERE bundle_id = ?`, bundleID.String()); err != nil {
		return err
	}

	return tx.Commit()
}

// AddRevision records a new revision of a bundle.
func (r *Repository) AddRevision(ctx context.Context, tag string, source string, bundleID uuid.UUID) (*docsee.BundleRevision, error) {
	if tag == "" {
		return nil, docsee.Errorf(docsee.EINVALID, "revision tag required")
	}

	var exists int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM bundles WHERE id = ?`, bundleID.String()).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, docsee.Errorf(docsee.ENOTFOUND, "bundle not found")
	}
	if err != nil {
		return nil, err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO revisions (bundle_id, tag, source)
		VALUES (?, ?, ?)
	`, bundleID.String(), tag, source)
	if isUniqueViolation(err) {
		return nil, docsee.Errorf(docsee.ECONFLICT, "revision %q already exists", tag)
	}
	if err != nil {
		return nil, err
	}

	return &docsee.BundleRevision{BundleID: bundleID, Tag: tag, Source: source}, nil
}

// Revision retrieves a single revision.
func (r *Repository) Revision(ctx context.Context, tag string, bundleID uuid.UUID) (*docsee.BundleRevision, error) {
	rev := docsee.BundleRevision{BundleID: bundleID}

	err := r.db.QueryRowContext(ctx, `
		SELECT tag, source
		FROM revisions
		WHERE bundle_id = ? AND tag = ?
	`, bundleID.String(), tag).Scan(&rev.Tag, &rev.Source)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, docsee.Errorf(docsee.ENOTFOUND, "revision not found")
	}
	if err != nil {
		return nil, err
	}
	return &rev, nil
}

// RemoveRevision deletes a single revision.
func (r *Repository) RemoveRevision(ctx context.Context, tag string, bundleID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM revisions
		WHERE bundle_id = ? AND tag = ?
	`, bundleID.String(), tag)
	return err
}

// Search returns bundles matching the query, each carrying all of its
// revisions. An empty term returns every bundle ordered by display name.
func (r *Repository) Search(ctx context.Context, query docsee.BundleQuery) ([]*docsee.BundleDetail, error) {
	var rows *sql.Rows
	var err error

	match := ""
	if query.Term != nil {
		tokens := tokenizer.Tokenize(*query.Term)
		prefixes := make([]string, len(tokens))
		for i, token := range tokens {
			prefixes[i] = token + "*"
		}
		match = strings.Join(prefixes, " ")
	}

	if match == "" {
		rows, err = r.db.QueryContext(ctx, `
			SELECT id, display_name, bundle_identifier
			FROM bundles
			ORDER BY display_name
		`)
	} else {
		rows, err = r.db.QueryContext(ctx, `
			SELECT b.id, b.display_name, b.bundle_identifier
			FROM bundles_search s
			JOIN bundles b ON b.id = s.bundle_id
			WHERE bundles_search MATCH ?
			ORDER BY b.display_name
		`, match)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []*docsee.BundleDetail
	for rows.Next() {
		var id string
		var detail docsee.BundleDetail
		if err := rows.Scan(&id, &detail.Metadata.DisplayName, &detail.Metadata.BundleIdentifier); err != nil {
			return nil, err
		}
		detail.Metadata.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("failed to parse bundle id: %w", err)
		}
		details = append(details, &detail)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, detail := range details {
		detail.Revisions, err = r.revisions(ctx, detail.Metadata.ID)
		if err != nil {
			return nil, err
		}
	}
	return details, nil
}

// SearchCompletions returns indexed terms starting with prefix, most
// frequent first.
func (r *Repository) SearchCompletions(ctx context.Context, prefix string, limit int) ([]string, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" || limit <= 0 {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT term
		FROM bundles_search_vocab
		WHERE term >= ? AND term < ?
		ORDER BY doc DESC, term
		LIMIT ?
	`, prefix, prefix+"￿", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var terms []string
	for rows.Next() {
		var term string
		if err := rows.Scan(&term); err != nil {
			return nil, err
		}
		terms = append(terms, term)
	}
	return terms, rows.Err()
}

// revisions loads a bundle's revisions in insertion order.
func (r *Repository) revisions(ctx context.Context, bundleID uuid.UUID) ([]docsee.BundleRevision, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT tag, source
		FROM revisions
		WHERE bundle_id = ?
		ORDER BY rowid
	`, bundleID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var revisions []docsee.BundleRevision
	for rows.Next() {
		rev := docsee.BundleRevision{BundleID: bundleID}
		if err := rows.Scan(&rev.Tag, &rev.Source); err != nil {
			return nil, err
		}
		revisions = append(revisions, rev)
	}
	return revisions, rows.Err()
}
