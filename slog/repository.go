// Package slog provides logging decorators for the domain interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/getdocsy/docsee"
	"github.com/google/uuid"
)

// Ensure LoggingRepository implements docsee.DocumentationRepository.
var _ docsee.DocumentationRepository = (*LoggingRepository)(nil)

// LoggingRepository wraps a DocumentationRepository with per-operation
// logging.
type LoggingRepository struct {
	next   docsee.DocumentationRepository
	logger *slog.Logger
}

// NewLoggingRepository creates a new LoggingRepository.
func NewLoggingRepository(next docsee.DocumentationRepository, logger *slog.Logger) *LoggingRepository {
	return &LoggingRepository{next: next, logger: logger}
}

func (r *LoggingRepository) log(op string, begin time.Time, err error, attrs ...any) {
	attrs = append(attrs, "op", op, "duration", time.Since(begin))
	if err != nil {
		attrs = append(attrs, "error", err)
		r.logger.Warn("repository operation failed", attrs...)
		return
	}
	r.logger.Debug("repository operation", attrs...)
}

func (r *LoggingRepository) AddBundle(ctx context.Context, displayName string, identifier docsee.BundleIdentifier) (*docsee.BundleDetail, error) {
	begin := time.Now()
	detail, err := r.next.AddBundle(ctx, displayName, identifier)
	r.log("add_bundle", begin, err, "bundle", identifier)
	return detail, err
}

func (r *LoggingRepository) Bundle(ctx context.Context, bundleID uuid.UUID) (*docsee.BundleDetail, error) {
	begin := time.Now()
	detail, err := r.next.Bundle(ctx, bundleID)
	r.log("bundle", begin, err, "id", bundleID)
	return detail, err
}

func (r *LoggingRepository) RemoveBundle(ctx context.Context, bundleID uuid.UUID) error {
	begin := time.Now()
	err := r.next.RemoveBundle(ctx, bundleID)
	r.log("remove_bundle", begin, err, "id", bundleID)
	return err
}

func (r *LoggingRepository) AddRevision(ctx context.Context, tag string, source string, bundleID uuid.UUID) (*docsee.BundleRevision, error) {
	begin := time.Now()
	rev, err := r.next.AddRevision(ctx, tag, source, bundleID)
	r.log("add_revision", begin, err, "id", bundleID, "tag", tag)
	return rev, err
}

func (r *LoggingRepository) Revision(ctx context.Context, tag string, bundleID uuid.UUID) (*docsee.BundleRevision, error) {
	begin := time.Now()
	rev, err := r.next.Revision(ctx, tag, bundleID)
	r.log("revision", begin, err, "id", bundleID, "tag", tag)
	return rev, err
}

func (r *LoggingRepository) RemoveRevision(ctx context.Context, tag string, bundleID uuid.UUID) error {
	begin := time.Now()
	err := r.next.RemoveRevision(ctx, tag, bundleID)
	r.log("remove_revision", begin, err, "id", bundleID, "tag", tag)
	return err
}

func (r *LoggingRepository) Search(ctx context.Context, query docsee.BundleQuery) ([]*docsee.BundleDetail, error) {
	begin := time.Now()
	results, err := r.next.Search(ctx, query)
	term := ""
	if query.Term != nil {
		term = *query.Term
	}
	r.log("search", begin, err, "term", term, "results", len(results))
	return results, err
}

func (r *LoggingRepository) SearchCompletions(ctx context.Context, prefix string, limit int) ([]string, error) {
	begin := time.Now()
	terms, err := r.next.SearchCompletions(ctx, prefix, limit)
	r.log("search_completions", begin, err, "prefix", prefix, "results", len(terms))
	return terms, err
}

func (r *LoggingRepository) Close() error {
	return r.next.Close()
}
