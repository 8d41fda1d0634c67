// Package workspace composes bundles, plugins, and persistence into the
// engine behind a documentation browser session.
package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/getdocsy/docsee"
	"github.com/getdocsy/docsee/fs"
	"github.com/getdocsy/docsee/http"
	docslog "github.com/getdocsy/docsee/slog"
	"github.com/getdocsy/docsee/sqlite"
)

// Ensure Workspace implements docsee.DocumentationContext at compile time.
var _ docsee.DocumentationContext = (*Workspace)(nil)

// RepositoryOpener opens the search repository scoped to one project.
type RepositoryOpener func(projectIdentifier string) (docsee.DocumentationRepository, error)

// Option configures a Workspace.
type Option func(*Workspace)

// WithPlugin appends a plugin to the registry. Lifecycle calls run in
// registration order.
func WithPlugin(p docsee.Plugin) Option {
	return func(w *Workspace) {
		w.plugins = append(w.plugins, p)
	}
}

// WithProjectStore sets the store used to persist persistent projects.
func WithProjectStore(store docsee.ProjectStore) Option {
	return func(w *Workspace) {
		w.projectStore = store
	}
}

// WithDataDir stores per-project search databases under dir.
func WithDataDir(dir string) Option {
	return func(w *Workspace) {
		w.openRepo = func(identifier string) (docsee.DocumentationRepository, error) {
			return sqlite.Open(filepath.Join(dir, identifier, "search.db"))
		}
	}
}

// WithRepositoryOpener overrides how the per-project search repository is
// opened.
func WithRepositoryOpener(open RepositoryOpener) Option {
	return func(w *Workspace) {
		w.openRepo = open
	}
}

// Workspace owns the bundle registry, the open project, and an ordered
// plugin registry, and dispatches the plugin lifecycle. It is the
// documentation context handed to plugins.
type Workspace struct {
	logger       *slog.Logger
	store        *BundleStore
	plugins      []docsee.Plugin
	projectStore docsee.ProjectStore
	openRepo     RepositoryOpener

	mu      sync.Mutex
	project *docsee.Project
	repo    docsee.DocumentationRepository
}

// New creates a Workspace. Without WithDataDir the search repository
// lives in memory and vanishes with the process.
func New(logger *slog.Logger, opts ...Option) *Workspace {
	if logger == nil {
		logger = slog.Default()
	}
	w := &Workspace{
		logger: logger,
		store:  NewBundleStore(),
		openRepo: func(string) (docsee.DocumentationRepository, error) {
			return sqlite.Open(":memory:")
		},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Store returns the workspace's bundle registry.
func (w *Workspace) Store() *BundleStore {
	return w.store
}

// Project returns the currently open project, or nil.
func (w *Workspace) Project() *docsee.Project {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.project
}

// Repository returns the search repository scoped to the open project.
func (w *Workspace) Repository() docsee.DocumentationRepository {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.repo
}

// Bundle implements docsee.DocumentationContext.
func (w *Workspace) Bundle(ctx context.Context, identifier docsee.BundleIdentifier) (docsee.Bundle, bool) {
	return w.store.Bundle(identifier)
}

// ContentsOfURL implements docsee.DocumentationContext.
func (w *Workspace) ContentsOfURL(ctx context.Context, uri docsee.DocumentationURI) ([]byte, error) {
	return w.store.Contents(ctx, uri)
}

// Open replaces the current project with project. The incoming project is
// validated, and the outgoing one optionally saved, before any state
// changes; a failure in either leaves the workspace untouched. After the
// swap every plugin loads in registration order and the search repository
// is reopened scoped to the new project.
func (w *Workspace) Open(ctx context.Context, project *docsee.Project, saveCurrent bool) error {
	if err := project.Validate(); err != nil {
		return err
	}

	w.mu.Lock()
	current := w.project
	w.mu.Unlock()

	if saveCurrent && current != nil {
		if err := w.Save(ctx); err != nil {
			return fmt.Errorf("saving current project: %w", err)
		}
	}

	w.store.UnregisterAll()

	for identifier, ref := range project.References {
		bundle, err := ref.Bundle()
		if err != nil {
			return err
		}
		provider, err := w.providerFor(ref)
		if err != nil {
			return err
		}
		if err := w.store.Register(bundle, provider); err != nil {
			return fmt.Errorf("registering bundle %q: %w", identifier, err)
		}
	}

	w.mu.Lock()
	w.project = project
	w.mu.Unlock()

	for _, plugin := range w.plugins {
		if err := plugin.Load(ctx, project, w); err != nil {
			return fmt.Errorf("loading plugin: %w", err)
		}
	}

	repo, err := w.openRepo(project.Identifier)
	if err != nil {
		return fmt.Errorf("opening search repository: %w", err)
	}
	w.mu.Lock()
	old := w.repo
	w.repo = repo
	w.mu.Unlock()
	if old != nil {
		old.Close()
	}

	w.logger.Info("project opened",
		"project", project.Identifier,
		"bundles", len(project.References))
	return nil
}

// Save collects every plugin's state into the project, validates it, and
// persists it when the project is persistent. Transient projects skip
// persistence silently.
func (w *Workspace) Save(ctx context.Context) error {
	w.mu.Lock()
	project := w.project
	w.mu.Unlock()
	if project == nil {
		return docsee.Errorf(docsee.EPRECONDITION, "no project is open")
	}

	for _, plugin := range w.plugins {
		if err := plugin.WillSave(ctx, project); err != nil {
			return fmt.Errorf("collecting plugin state: %w", err)
		}
	}

	if err := project.Validate(); err != nil {
		return err
	}

	if !project.Persistent {
		w.logger.Debug("skipping save of transient project", "project", project.Identifier)
		return nil
	}
	if w.projectStore == nil {
		return docsee.Errorf(docsee.EINTERNAL, "no project store configured")
	}
	if err := w.projectStore.SaveProject(ctx, project); err != nil {
		return fmt.Errorf("persisting project: %w", err)
	}

	w.logger.Info("project saved", "project", project.Identifier)
	return nil
}

// AddBundle registers a bundle with its provider and lets every plugin
// absorb it. A duplicate identifier conflicts before anything mutates; a
// plugin failure rolls the registration back best-effort.
func (w *Workspace) AddBundle(ctx context.Context, bundle docsee.Bundle, provider docsee.BundleProvider) error {
	if err := w.store.Register(bundle, provider); err != nil {
		return err
	}

	for _, plugin := range w.plugins {
		if err := plugin.DidAddBundle(ctx, bundle.Identifier(), w); err != nil {
			w.store.Unregister(bundle.Identifier())
			return fmt.Errorf("plugin rejected bundle %q: %w", bundle.Identifier(), err)
		}
	}

	w.logger.Info("bundle added", "bundle", bundle.Identifier())
	return nil
}

// Close releases the workspace's resources.
func (w *Workspace) Close() error {
	w.mu.Lock()
	repo := w.repo
	w.repo = nil
	w.mu.Unlock()
	if repo != nil {
		return repo.Close()
	}
	return nil
}

// providerFor builds the content provider matching a reference's
// source. Every provider is wrapped to log its resource reads.
func (w *Workspace) providerFor(ref docsee.Reference) (docsee.BundleProvider, error) {
	var provider docsee.BundleProvider
	switch ref.Source.Kind {
	case docsee.SourceKindLocalFS:
		provider = fs.NewProvider(ref.Source.LocalFS.RootPath)
	case docsee.SourceKindIndex:
		provider = fs.NewProvider(ref.Source.Index.Path)
	case docsee.SourceKindHTTP:
		provider = http.NewProvider(ref.Source.HTTP.BaseURL)
	default:
		return nil, docsee.Errorf(docsee.EINVALID, "unknown source kind %q", ref.Source.Kind)
	}
	return docslog.NewLoggingProvider(provider, w.logger), nil
}
