package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/getdocsy/docsee"
	"github.com/getdocsy/docsee/fs"
	"github.com/getdocsy/docsee/navigator"
	docslog "github.com/getdocsy/docsee/slog"
	"github.com/getdocsy/docsee/sqlite"
	"github.com/getdocsy/docsee/workspace"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	DataDir   string
	Workspace *workspace.Workspace
	Navigator *navigator.Navigator
	Metadata  *workspace.Metadata
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging"`

	Open     OpenCmd     `cmd:"" help:"Open a project and show its bundles"`
	Bundles  BundlesCmd  `cmd:"" help:"List the bundles registered by a project"`
	Add      AddCmd      `cmd:"" help:"Add a bundle to a project"`
	Search   SearchCmd   `cmd:"" help:"Search a project's bundle index"`
	Complete CompleteCmd `cmd:"" help:"Complete a search prefix"`
	Path     PathCmd     `cmd:"" help:"Resolve a doc:// URI to a topic path"`
}

// OpenCmd is the "open" subcommand.
type OpenCmd struct {
	Project string `arg:"" help:"Path to the project file"`
}

// BundlesCmd is the "bundles" subcommand.
type BundlesCmd struct {
	Project string `arg:"" help:"Path to the project file"`
}

// AddCmd is the "add" subcommand.
type AddCmd struct {
	Project     string `arg:"" help:"Path to the project file"`
	Identifier  string `arg:"" help:"Bundle identifier (reverse-DNS)"`
	DisplayName string `arg:"" help:"Bundle display name"`
	Source      string `arg:"" help:"Bundle root: a local directory or an http(s) base URL"`
	Tag         string `help:"Revision tag to record in the search index"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Project string `arg:"" help:"Path to the project file"`
	Term    string `arg:"" optional:"" help:"Search term (empty lists everything)"`
}

// CompleteCmd is the "complete" subcommand.
type CompleteCmd struct {
	Project string `arg:"" help:"Path to the project file"`
	Prefix  string `arg:"" help:"Prefix to complete"`
	Limit   int    `default:"10" help:"Maximum completions"`
}

// PathCmd is the "path" subcommand.
type PathCmd struct {
	Project string `arg:"" help:"Path to the project file"`
	URI     string `arg:"" help:"Topic URI (doc://<bundle>/<path>)"`
}

// loadProject reads a project file from disk.
func loadProject(ctx context.Context, path string) (*docsee.Project, error) {
	store := fs.NewProjectStore(filepath.Dir(path))
	identifier := strings.TrimSuffix(filepath.Base(path), ".json")
	return store.LoadProject(ctx, identifier)
}

// openSession opens the project in the workspace and waits for the
// navigator to settle.
func openSession(deps *Dependencies, path string) (*docsee.Project, error) {
	project, err := loadProject(deps.Ctx, path)
	if err != nil {
		return nil, err
	}
	if err := deps.Workspace.Open(deps.Ctx, project, false); err != nil {
		return nil, err
	}
	waitForNavigator(deps.Navigator, 10*time.Second)
	return project, nil
}

// waitForNavigator blocks until no top-level node is still loading.
func waitForNavigator(nav *navigator.Navigator, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		settled := true
		for _, node := range nav.Nodes() {
			if state := node.State(); state == navigator.StatePending || state == navigator.StateLoading {
				settled = false
				break
			}
		}
		if settled {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
}

// openRepository opens the search repository for the project file at
// path, wrapped with logging.
func openRepository(deps *Dependencies, path string) (docsee.DocumentationRepository, error) {
	project, err := loadProject(deps.Ctx, path)
	if err != nil {
		return nil, err
	}
	repo, err := sqlite.Open(filepath.Join(deps.DataDir, project.Identifier, "search.db"))
	if err != nil {
		return nil, fmt.Errorf("opening search index: %w", err)
	}
	return docslog.NewLoggingRepository(repo, deps.Logger), nil
}
