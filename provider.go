package docsee

import "context"

// BundleProvider serves the raw bytes of a bundle's resources.
// Implementations hide the underlying source: local directories, HTTP
// servers, or short-lived local caches.
type BundleProvider interface {
	// Data retrieves the bytes at a provider-relative path.
	// Returns ENOTFOUND if the resource does not exist.
	Data(ctx context.Context, path string) ([]byte, error)
}

// DocumentationContext is the read-only view of a workspace that plugins
// receive during lifecycle calls.
type DocumentationContext interface {
	// Bundle returns the registered bundle with the given identifier, or
	// false if no such bundle is registered.
	Bundle(ctx context.Context, identifier BundleIdentifier) (Bundle, bool)

	// ContentsOfURL retrieves the bytes a documentation URI refers to.
	ContentsOfURL(ctx context.Context, uri DocumentationURI) ([]byte, error)
}

// Plugin is the lifecycle capability interface implemented by workspace
// sub-components. The workspace dispatches lifecycle calls to its plugins
// in a fixed, documented registration order.
type Plugin interface {
	// Load resets the plugin's state entirely for a new project.
	Load(ctx context.Context, project *Project, context DocumentationContext) error

	// DidAddBundle incrementally absorbs one newly registered bundle.
	DidAddBundle(ctx context.Context, identifier BundleIdentifier, context DocumentationContext) error

	// WillSave writes the plugin's in-memory state back into the project
	// before persistence.
	WillSave(ctx context.Context, project *Project) error
}

// NopPlugin provides no-op lifecycle methods for plugins that only care
// about a subset of the protocol. Embed it to satisfy Plugin.
type NopPlugin struct{}

// Load implements Plugin.
func (NopPlugin) Load(context.Context, *Project, DocumentationContext) error { return nil }

// DidAddBundle implements Plugin.
func (NopPlugin) DidAddBundle(context.Context, BundleIdentifier, DocumentationContext) error {
	return nil
}

// WillSave implements Plugin.
func (NopPlugin) WillSave(context.Context, *Project) error { return nil }
