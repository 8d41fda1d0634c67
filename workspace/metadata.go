package workspace

import (
	"context"
	"sync"

	"github.com/getdocsy/docsee"
)

// Ensure Metadata implements docsee.Plugin at compile time.
var _ docsee.Plugin = (*Metadata)(nil)

// Metadata mirrors the open project's identity so display-name edits can
// be made without touching the project until save time.
type Metadata struct {
	docsee.NopPlugin

	mu          sync.Mutex
	loaded      bool
	identifier  string
	displayName string
}

// NewMetadata creates an empty Metadata plugin.
func NewMetadata() *Metadata {
	return &Metadata{}
}

// Load implements docsee.Plugin.
func (m *Metadata) Load(ctx context.Context, project *docsee.Project, dctx docsee.DocumentationContext) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loaded = true
	m.identifier = project.Identifier
	m.displayName = project.DisplayName
	return nil
}

// WillSave writes the mirrored display name back into the project.
// Saving before a project has been loaded is a precondition violation.
func (m *Metadata) WillSave(ctx context.Context, project *docsee.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.loaded {
		return docsee.Errorf(docsee.EPRECONDITION, "no project has been loaded")
	}
	project.DisplayName = m.displayName
	return nil
}

// Identifier returns the loaded project's identifier.
func (m *Metadata) Identifier() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.identifier
}

// DisplayName returns the mirrored display name.
func (m *Metadata) DisplayName() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.displayName
}

// SetDisplayName updates the mirrored display name. The change reaches
// the project on the next save.
func (m *Metadata) SetDisplayName(name string) {
	m.mu.Lock()
	m.displayName = name
	m.mu.Unlock()
}
