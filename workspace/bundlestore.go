package workspace

import (
	"context"
	"sync"

	"github.com/getdocsy/docsee"
)

// registration pairs a bundle with the provider serving its content.
type registration struct {
	bundle   docsee.Bundle
	provider docsee.BundleProvider
}

// BundleStore is the workspace's bundle registry. All operations are
// linearizable: a registration is either fully visible or not at all.
type BundleStore struct {
	mu      sync.RWMutex
	entries map[docsee.BundleIdentifier]registration
}

// NewBundleStore creates an empty BundleStore.
func NewBundleStore() *BundleStore {
	return &BundleStore{entries: map[docsee.BundleIdentifier]registration{}}
}

// Register adds a bundle and its content provider.
// Returns ECONFLICT if the identifier is already registered.
func (s *BundleStore) Register(bundle docsee.Bundle, provider docsee.BundleProvider) error {
	if err := bundle.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[bundle.Identifier()]; ok {
		return docsee.Errorf(docsee.ECONFLICT, "bundle %q is already registered", bundle.Identifier())
	}
	s.entries[bundle.Identifier()] = registration{bundle: bundle, provider: provider}
	return nil
}

// Unregister removes a bundle. Removing an unknown bundle is a no-op.
func (s *BundleStore) Unregister(identifier docsee.BundleIdentifier) {
	s.mu.Lock()
	delete(s.entries, identifier)
	s.mu.Unlock()
}

// UnregisterAll empties the registry.
func (s *BundleStore) UnregisterAll() {
	s.mu.Lock()
	s.entries = map[docsee.BundleIdentifier]registration{}
	s.mu.Unlock()
}

// Bundle returns the registered bundle with the given identifier.
func (s *BundleStore) Bundle(identifier docsee.BundleIdentifier) (docsee.Bundle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[identifier]
	return entry.bundle, ok
}

// Bundles returns every registered bundle.
func (s *BundleStore) Bundles() []docsee.Bundle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bundles := make([]docsee.Bundle, 0, len(s.entries))
	for _, entry := range s.entries {
		bundles = append(bundles, entry.bundle)
	}
	return bundles
}

// Contents retrieves the bytes a documentation URI refers to by
// delegating to the owning bundle's provider.
// Returns ENOTFOUND for an unregistered bundle.
func (s *BundleStore) Contents(ctx context.Context, uri docsee.DocumentationURI) ([]byte, error) {
	if err := uri.Validate(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	entry, ok := s.entries[uri.BundleIdentifier]
	s.mu.RUnlock()
	if !ok {
		return nil, docsee.Errorf(docsee.ENOTFOUND, "bundle %q is not registered", uri.BundleIdentifier)
	}

	return entry.provider.Data(ctx, uri.Path)
}
