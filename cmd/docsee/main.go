package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/getdocsy/docsee/fs"
	"github.com/getdocsy/docsee/navigator"
	"github.com/getdocsy/docsee/workspace"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Data directory holding per-project search databases.
	// Set before calling Run().
	DataDir string

	// Session components, exposed for end-to-end testing.
	Workspace *workspace.Workspace
	Navigator *navigator.Navigator
	Metadata  *workspace.Metadata
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DataDir: defaultDataDir(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.Workspace != nil {
		return m.Workspace.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:     ctx,
		Stdout:  stdout,
		Stderr:  stderr,
		DataDir: m.DataDir,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docsee"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'docsee --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Logger = logger

	// Wire a workspace session. The project store points at the directory
	// of the project file the invoked command names, so projects can live
	// anywhere on disk.
	m.Metadata = workspace.NewMetadata()
	m.Navigator = navigator.New(logger)

	opts := []workspace.Option{
		workspace.WithPlugin(m.Metadata),
		workspace.WithPlugin(m.Navigator),
		workspace.WithDataDir(m.DataDir),
	}
	if dir := projectDir(cli, cmd); dir != "" {
		opts = append(opts, workspace.WithProjectStore(fs.NewProjectStore(dir)))
	}
	m.Workspace = workspace.New(logger, opts...)
	defer m.Close()

	deps.Workspace = m.Workspace
	deps.Navigator = m.Navigator
	deps.Metadata = m.Metadata

	return kongCtx.Run(deps)
}

// projectDir returns the directory of the project file the command
// operates on, if it has one.
func projectDir(cli *CLI, cmd string) string {
	var path string
	switch cmd {
	case "open":
		path = cli.Open.Project
	case "bundles":
		path = cli.Bundles.Project
	case "add":
		path = cli.Add.Project
	case "path":
		path = cli.Path.Project
	}
	if path == "" {
		return ""
	}
	return filepath.Dir(path)
}

func defaultDataDir() string {
	if dir := os.Getenv("DOCSEE_DATA"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".docsee"
	}
	return filepath.Join(home, ".docsee")
}
