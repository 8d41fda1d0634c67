// Package mock provides function-field test doubles for the domain
// interfaces.
package mock

import (
	"context"

	"github.com/getdocsy/docsee"
)

var _ docsee.DocumentationContext = (*Context)(nil)

// Context is a mock implementation of docsee.DocumentationContext.
type Context struct {
	BundleFn        func(ctx context.Context, identifier docsee.BundleIdentifier) (docsee.Bundle, bool)
	ContentsOfURLFn func(ctx context.Context, uri docsee.DocumentationURI) ([]byte, error)
}

func (c *Context) Bundle(ctx context.Context, identifier docsee.BundleIdentifier) (docsee.Bundle, bool) {
	return c.BundleFn(ctx, identifier)
}

func (c *Context) ContentsOfURL(ctx context.Context, uri docsee.DocumentationURI) ([]byte, error) {
	return c.ContentsOfURLFn(ctx, uri)
}
