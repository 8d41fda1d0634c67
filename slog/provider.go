package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/getdocsy/docsee"
)

// Ensure LoggingProvider implements docsee.BundleProvider.
var _ docsee.BundleProvider = (*LoggingProvider)(nil)

// LoggingProvider wraps a BundleProvider with per-request logging.
type LoggingProvider struct {
	next   docsee.BundleProvider
	logger *slog.Logger
}

// NewLoggingProvider creates a new LoggingProvider.
func NewLoggingProvider(next docsee.BundleProvider, logger *slog.Logger) *LoggingProvider {
	return &LoggingProvider{next: next, logger: logger}
}

// Data delegates to the wrapped provider, logging the path, size and
// duration of every read.
func (p *LoggingProvider) Data(ctx context.Context, path string) ([]byte, error) {
	begin := time.Now()
	data, err := p.next.Data(ctx, path)
	if err != nil {
		p.logger.Warn("resource read failed",
			"path", path,
			"duration", time.Since(begin),
			"error", err,
		)
		return nil, err
	}
	p.logger.Debug("resource read",
		"path", path,
		"bytes", len(data),
		"duration", time.Since(begin),
	)
	return data, nil
}
