package mock

import (
	"context"

	"github.com/getdocsy/docsee"
)

var _ docsee.BundleProvider = (*Provider)(nil)

// Provider is a mock implementation of docsee.BundleProvider.
type Provider struct {
	DataFn func(ctx context.Context, path string) ([]byte, error)
}

func (p *Provider) Data(ctx context.Context, path string) ([]byte, error) {
	return p.DataFn(ctx, path)
}
