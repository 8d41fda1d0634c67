package mock

import (
	"context"

	"github.com/getdocsy/docsee"
)

var _ docsee.Plugin = (*Plugin)(nil)

// Plugin is a mock implementation of docsee.Plugin. Nil lifecycle
// functions are no-ops so tests only wire the calls they care about.
type Plugin struct {
	LoadFn         func(ctx context.Context, project *docsee.Project, dctx docsee.DocumentationContext) error
	DidAddBundleFn func(ctx context.Context, identifier docsee.BundleIdentifier, dctx docsee.DocumentationContext) error
	WillSaveFn     func(ctx context.Context, project *docsee.Project) error
}

func (p *Plugin) Load(ctx context.Context, project *docsee.Project, dctx docsee.DocumentationContext) error {
	if p.LoadFn == nil {
		return nil
	}
	return p.LoadFn(ctx, project, dctx)
}

func (p *Plugin) DidAddBundle(ctx context.Context, identifier docsee.BundleIdentifier, dctx docsee.DocumentationContext) error {
	if p.DidAddBundleFn == nil {
		return nil
	}
	return p.DidAddBundleFn(ctx, identifier, dctx)
}

func (p *Plugin) WillSave(ctx context.Context, project *docsee.Project) error {
	if p.WillSaveFn == nil {
		return nil
	}
	return p.WillSaveFn(ctx, project)
}
