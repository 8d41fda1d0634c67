package workspace_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/getdocsy/docsee"
	"github.com/getdocsy/docsee/fs"
	"github.com/getdocsy/docsee/mock"
	"github.com/getdocsy/docsee/navigator"
	"github.com/getdocsy/docsee/navindex"
	"github.com/getdocsy/docsee/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writeBundleFixture creates a bundle directory with a complete navigator
// index under <root>/index.
func writeBundleFixture(t *testing.T, identifier, title string) string {
	t.Helper()
	root := t.TempDir()
	tree := &navindex.Node{
		ID:       1,
		Title:    title,
		Type:     navindex.PageTypeFramework,
		Language: navindex.LanguageSwift,
		Children: []*navindex.Node{
			{ID: 2, Title: "Overview", Type: navindex.PageTypeArticle, Language: navindex.LanguageSwift},
		},
	}
	paths := []navindex.PathEntry{
		{ID: 1, Language: navindex.LanguageSwift, Path: "/documentation/" + title},
		{ID: 2, Language: navindex.LanguageSwift, Path: "/documentation/" + title + "/overview"},
	}
	require.NoError(t, navindex.WriteIndex(filepath.Join(root, "index"), identifier, tree, paths))
	return root
}

func projectWithBundle(identifier, displayName, root string) *docsee.Project {
	project := docsee.NewProject("Docs")
	project.References[identifier] = docsee.Reference{
		Source:   docsee.LocalFS(root),
		Metadata: docsee.BundleInfo{DisplayName: displayName, Identifier: identifier},
	}
	project.Items = []docsee.Node{docsee.BundleNode(displayName, identifier)}
	return project
}

func TestWorkspace_Open(t *testing.T) {
	t.Parallel()

	t.Run("registers providers and loads plugins in order", func(t *testing.T) {
		t.Parallel()
		root := writeBundleFixture(t, "app.getdocsy.documentationkit", "DocumentationKit")
		project := projectWithBundle("app.getdocsy.documentationkit", "DocumentationKit", root)

		var order []string
		first := &mock.Plugin{LoadFn: func(context.Context, *docsee.Project, docsee.DocumentationContext) error {
			order = append(order, "first")
			return nil
		}}
		second := &mock.Plugin{LoadFn: func(context.Context, *docsee.Project, docsee.DocumentationContext) error {
			order = append(order, "second")
			return nil
		}}

		ws := workspace.New(testLogger(), workspace.WithPlugin(first), workspace.WithPlugin(second))
		t.Cleanup(func() { ws.Close() })

		require.NoError(t, ws.Open(context.Background(), project, false))

		assert.Equal(t, []string{"first", "second"}, order)
		assert.Same(t, project, ws.Project())
		_, ok := ws.Bundle(context.Background(), "app.getdocsy.documentationkit")
		assert.True(t, ok)

		// Content flows through the registered provider.
		data, err := ws.ContentsOfURL(context.Background(),
			docsee.NewDocumentationURI("app.getdocsy.documentationkit", "/index/navigator.index"))
		require.NoError(t, err)
		assert.NotEmpty(t, data)
	})

	t.Run("resource reads through registered providers are logged", func(t *testing.T) {
		t.Parallel()
		root := writeBundleFixture(t, "app.getdocsy.documentationkit", "DocumentationKit")
		project := projectWithBundle("app.getdocsy.documentationkit", "DocumentationKit", root)

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		ws := workspace.New(logger)
		t.Cleanup(func() { ws.Close() })
		require.NoError(t, ws.Open(context.Background(), project, false))

		_, err := ws.ContentsOfURL(context.Background(),
			docsee.NewDocumentationURI("app.getdocsy.documentationkit", "/index/navigator.index"))
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "resource read")
		assert.Contains(t, buf.String(), "/index/navigator.index")
	})

	t.Run("an invalid project leaves the workspace untouched", func(t *testing.T) {
		t.Parallel()
		root := writeBundleFixture(t, "app.getdocsy.documentationkit", "DocumentationKit")
		project := projectWithBundle("app.getdocsy.documentationkit", "DocumentationKit", root)

		ws := workspace.New(testLogger())
		t.Cleanup(func() { ws.Close() })
		require.NoError(t, ws.Open(context.Background(), project, false))

		broken := docsee.NewProject("Broken")
		broken.Items = []docsee.Node{docsee.BundleNode("Ghost", "app.getdocsy.ghost")}

		err := ws.Open(context.Background(), broken, false)
		var verr *docsee.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"app.getdocsy.ghost"}, verr.MissingReferences)

		// The previous session is intact.
		assert.Same(t, project, ws.Project())
		_, ok := ws.Bundle(context.Background(), "app.getdocsy.documentationkit")
		assert.True(t, ok)
	})

	t.Run("a failing save aborts the open", func(t *testing.T) {
		t.Parallel()
		root := writeBundleFixture(t, "app.getdocsy.documentationkit", "DocumentationKit")
		project := projectWithBundle("app.getdocsy.documentationkit", "DocumentationKit", root)
		project.Persistent = true

		saveErr := errors.New("disk full")
		store := &mock.ProjectStore{
			SaveProjectFn: func(context.Context, *docsee.Project) error { return saveErr },
		}

		ws := workspace.New(testLogger(), workspace.WithProjectStore(store))
		t.Cleanup(func() { ws.Close() })
		require.NoError(t, ws.Open(context.Background(), project, false))

		next := projectWithBundle("app.getdocsy.documentationkit", "DocumentationKit", root)
		err := ws.Open(context.Background(), next, true)
		require.ErrorIs(t, err, saveErr)
		assert.Same(t, project, ws.Project())
	})

	t.Run("a failing plugin surfaces the error", func(t *testing.T) {
		t.Parallel()
		root := writeBundleFixture(t, "app.getdocsy.documentationkit", "DocumentationKit")
		project := projectWithBundle("app.getdocsy.documentationkit", "DocumentationKit", root)

		pluginErr := errors.New("corrupt state")
		failing := &mock.Plugin{LoadFn: func(context.Context, *docsee.Project, docsee.DocumentationContext) error {
			return pluginErr
		}}

		ws := workspace.New(testLogger(), workspace.WithPlugin(failing))
		t.Cleanup(func() { ws.Close() })

		err := ws.Open(context.Background(), project, false)
		assert.ErrorIs(t, err, pluginErr)
	})
}

func TestWorkspace_Save(t *testing.T) {
	t.Parallel()

	t.Run("transient projects skip persistence", func(t *testing.T) {
		t.Parallel()
		root := writeBundleFixture(t, "app.getdocsy.documentationkit", "DocumentationKit")
		project := projectWithBundle("app.getdocsy.documentationkit", "DocumentationKit", root)

		saved := false
		store := &mock.ProjectStore{
			SaveProjectFn: func(context.Context, *docsee.Project) error {
				saved = true
				return nil
			},
		}

		ws := workspace.New(testLogger(), workspace.WithProjectStore(store))
		t.Cleanup(func() { ws.Close() })
		require.NoError(t, ws.Open(context.Background(), project, false))

		require.NoError(t, ws.Save(context.Background()))
		assert.False(t, saved)
	})

	t.Run("persistent projects round-trip through the store", func(t *testing.T) {
		t.Parallel()
		root := writeBundleFixture(t, "app.getdocsy.documentationkit", "DocumentationKit")
		project := projectWithBundle("app.getdocsy.documentationkit", "DocumentationKit", root)
		project.Persistent = true

		store := fs.NewProjectStore(t.TempDir())
		ws := workspace.New(testLogger(), workspace.WithProjectStore(store))
		t.Cleanup(func() { ws.Close() })
		require.NoError(t, ws.Open(context.Background(), project, false))
		require.NoError(t, ws.Save(context.Background()))

		got, err := store.LoadProject(context.Background(), project.Identifier)
		require.NoError(t, err)
		assert.Equal(t, project.Items, got.Items)
	})

	t.Run("saving without a project is a precondition violation", func(t *testing.T) {
		t.Parallel()
		ws := workspace.New(testLogger())
		t.Cleanup(func() { ws.Close() })
		err := ws.Save(context.Background())
		assert.Equal(t, docsee.EPRECONDITION, docsee.ErrorCode(err))
	})
}

func TestWorkspace_AddBundle(t *testing.T) {
	t.Parallel()

	t.Run("duplicate identifiers conflict before any plugin runs", func(t *testing.T) {
		t.Parallel()
		calls := 0
		plugin := &mock.Plugin{DidAddBundleFn: func(context.Context, docsee.BundleIdentifier, docsee.DocumentationContext) error {
			calls++
			return nil
		}}

		ws := workspace.New(testLogger(), workspace.WithPlugin(plugin))
		t.Cleanup(func() { ws.Close() })

		bundle := testBundle("app.getdocsy.documentationkit", "DocumentationKit")
		require.NoError(t, ws.AddBundle(context.Background(), bundle, &mock.Provider{}))
		require.Equal(t, 1, calls)

		err := ws.AddBundle(context.Background(), bundle, &mock.Provider{})
		assert.Equal(t, docsee.ECONFLICT, docsee.ErrorCode(err))
		assert.Equal(t, 1, calls)
	})

	t.Run("a plugin failure rolls the registration back", func(t *testing.T) {
		t.Parallel()
		pluginErr := errors.New("index unreadable")
		plugin := &mock.Plugin{DidAddBundleFn: func(context.Context, docsee.BundleIdentifier, docsee.DocumentationContext) error {
			return pluginErr
		}}

		ws := workspace.New(testLogger(), workspace.WithPlugin(plugin))
		t.Cleanup(func() { ws.Close() })

		err := ws.AddBundle(context.Background(), testBundle("app.getdocsy.documentationkit", "DocumentationKit"), &mock.Provider{})
		require.ErrorIs(t, err, pluginErr)

		_, ok := ws.Bundle(context.Background(), "app.getdocsy.documentationkit")
		assert.False(t, ok)
	})
}

// TestWorkspace_EndToEnd opens a project with a real on-disk bundle through
// a navigator plugin and resolves a topic all the way back to its path.
func TestWorkspace_EndToEnd(t *testing.T) {
	t.Parallel()

	root := writeBundleFixture(t, "app.getdocsy.documentationkit", "DocumentationKit")
	project := projectWithBundle("app.getdocsy.documentationkit", "placeholder", root)
	project.Persistent = true

	nav := navigator.New(testLogger())
	meta := workspace.NewMetadata()
	store := fs.NewProjectStore(t.TempDir())

	ws := workspace.New(testLogger(),
		workspace.WithPlugin(meta),
		workspace.WithPlugin(nav),
		workspace.WithProjectStore(store),
		workspace.WithDataDir(t.TempDir()),
	)
	t.Cleanup(func() { ws.Close() })

	require.NoError(t, ws.Open(context.Background(), project, false))

	nodes := nav.Nodes()
	require.Len(t, nodes, 1)
	require.Eventually(t, func() bool {
		return nodes[0].State() == navigator.StateReady
	}, 2*time.Second, 5*time.Millisecond, "bundle never became ready: %v", nodes[0].Err())

	// Resolve the root topic through the composed index.
	id, ok := nav.CompositeIDFor("/documentation/DocumentationKit", navindex.LanguageSwift, "app.getdocsy.documentationkit")
	require.True(t, ok)
	path, ok := nav.Path(id)
	require.True(t, ok)
	assert.Equal(t, "/documentation/DocumentationKit", path)

	// The search repository is scoped to the project and usable.
	repo := ws.Repository()
	require.NotNil(t, repo)
	detail, err := repo.AddBundle(context.Background(), "DocumentationKit", "app.getdocsy.documentationkit")
	require.NoError(t, err)
	results, err := repo.Search(context.Background(), docsee.BundleQuery{Term: func() *string { s := "kit"; return &s }()})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, detail.Metadata.ID, results[0].Metadata.ID)

	// Saving persists the title resolved from the index root.
	require.NoError(t, ws.Save(context.Background()))
	got, err := store.LoadProject(context.Background(), project.Identifier)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "DocumentationKit", got.Items[0].DisplayName)
}
