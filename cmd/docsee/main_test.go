package main_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/getdocsy/docsee"
	main "github.com/getdocsy/docsee/cmd/docsee"
	"github.com/getdocsy/docsee/fs"
	"github.com/getdocsy/docsee/navindex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testContext returns a background context for tests.
func testContext() context.Context {
	return context.Background()
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

// writeProject saves a project to a fresh directory and returns the path of
// the project file.
func writeProject(t *testing.T, project *docsee.Project) string {
	t.Helper()
	dir := t.TempDir()
	store := fs.NewProjectStore(dir)
	require.NoError(t, store.SaveProject(testContext(), project))
	return filepath.Join(dir, project.Identifier+".json")
}

func newTestMain(t *testing.T) *main.Main {
	t.Helper()
	m := main.NewMain()
	m.DataDir = t.TempDir()
	return m
}

func TestRun_HelpFlag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{"--help flag", []string{"--help"}},
		{"-h flag", []string{"-h"}},
		{"help command", []string{"help"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := newTestMain(t)

			stdout := &bytes.Buffer{}
			stderr := &bytes.Buffer{}

			err := m.Run(testContext(), tt.args, stdout, stderr)

			require.NoError(t, err)
			// Usage is printed to stdout when explicitly requested.
			assert.Contains(t, stdout.String(), "docsee")
			assert.Contains(t, stdout.String(), "Commands:")
			assert.Empty(t, stderr.String())
		})
	}
}

func TestRun_NoArgs(t *testing.T) {
	t.Parallel()

	m := newTestMain(t)

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := m.Run(testContext(), []string{}, stdout, stderr)

	// No args should show usage and return an error.
	require.Error(t, err)
	assert.Contains(t, stdout.String(), "Commands:")
}

func TestRun_Open(t *testing.T) {
	t.Parallel()

	t.Run("prints project bundles with their load state", func(t *testing.T) {
		t.Parallel()

		root := writeBundleFixture(t, "app.getdocsy.documentationkit", "DocumentationKit")
		project := docsee.NewProject("Docs")
		project.References["app.getdocsy.documentationkit"] = docsee.Reference{
			Source:   docsee.LocalFS(root),
			Metadata: docsee.BundleInfo{DisplayName: "DocumentationKit", Identifier: "app.getdocsy.documentationkit"},
		}
		project.Items = []docsee.Node{docsee.BundleNode("DocumentationKit", "app.getdocsy.documentationkit")}
		path := writeProject(t, project)

		m := newTestMain(t)
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(testContext(), []string{"open", path}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Docs")
		assert.Contains(t, stdout.String(), "ready")
		assert.Contains(t, stdout.String(), "app.getdocsy.documentationkit")
	})

	t.Run("returns error for a missing project file", func(t *testing.T) {
		t.Parallel()

		m := newTestMain(t)
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(testContext(), []string{"open", filepath.Join(t.TempDir(), "ghost.json")}, stdout, stderr)

		require.Error(t, err)
		assert.Equal(t, docsee.ENOTFOUND, docsee.ErrorCode(err))
		assert.Contains(t, stderr.String(), "error:")
	})
}

func TestRun_Bundles(t *testing.T) {
	t.Parallel()

	t.Run("lists registered bundles sorted by display name", func(t *testing.T) {
		t.Parallel()

		rootB := writeBundleFixture(t, "app.getdocsy.beta", "Beta")
		rootA := writeBundleFixture(t, "app.getdocsy.alpha", "Alpha")
		project := docsee.NewProject("Docs")
		project.References["app.getdocsy.beta"] = docsee.Reference{
			Source:   docsee.LocalFS(rootB),
			Metadata: docsee.BundleInfo{DisplayName: "Beta", Identifier: "app.getdocsy.beta"},
		}
		project.References["app.getdocsy.alpha"] = docsee.Reference{
			Source:   docsee.LocalFS(rootA),
			Metadata: docsee.BundleInfo{DisplayName: "Alpha", Identifier: "app.getdocsy.alpha"},
		}
		project.Items = []docsee.Node{
			docsee.BundleNode("Beta", "app.getdocsy.beta"),
			docsee.BundleNode("Alpha", "app.getdocsy.alpha"),
		}
		path := writeProject(t, project)

		m := newTestMain(t)
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(testContext(), []string{"bundles", path}, stdout, stderr)

		require.NoError(t, err)
		alpha := bytes.Index(stdout.Bytes(), []byte("Alpha"))
		beta := bytes.Index(stdout.Bytes(), []byte("Beta"))
		require.GreaterOrEqual(t, alpha, 0)
		require.GreaterOrEqual(t, beta, 0)
		assert.Less(t, alpha, beta)
	})

	t.Run("shows message for a project with no bundles", func(t *testing.T) {
		t.Parallel()

		project := docsee.NewProject("Empty")
		path := writeProject(t, project)

		m := newTestMain(t)
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(testContext(), []string{"bundles", path}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No bundles registered.")
	})
}

func TestRun_AddSearchComplete(t *testing.T) {
	t.Parallel()

	root := writeBundleFixture(t, "app.getdocsy.documentationkit", "DocumentationKit")
	project := docsee.NewProject("Docs")
	path := writeProject(t, project)

	m := newTestMain(t)

	// Add registers the bundle, persists the project, and indexes it.
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	err := m.Run(testContext(), []string{
		"add", path,
		"app.getdocsy.documentationkit", "DocumentationKit", root,
		"--tag", "1.0.0",
	}, stdout, stderr)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Added DocumentationKit")

	// The saved project carries the new reference.
	store := fs.NewProjectStore(filepath.Dir(path))
	saved, err := store.LoadProject(testContext(), project.Identifier)
	require.NoError(t, err)
	assert.Contains(t, saved.References, "app.getdocsy.documentationkit")

	// Search finds the bundle through its indexed terms.
	stdout.Reset()
	err = m.Run(testContext(), []string{"search", path, "kit"}, stdout, stderr)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "app.getdocsy.documentationkit")
	assert.Contains(t, stdout.String(), "1.0.0")

	// A term no bundle matches reports nothing found.
	stdout.Reset()
	err = m.Run(testContext(), []string{"search", path, "zebra"}, stdout, stderr)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "No bundles found.")

	// Completions surface indexed terms by prefix.
	stdout.Reset()
	err = m.Run(testContext(), []string{"complete", path, "doc"}, stdout, stderr)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "document")
}

func TestRun_Path(t *testing.T) {
	t.Parallel()

	t.Run("resolves a topic URI to its presentation path", func(t *testing.T) {
		t.Parallel()

		root := writeBundleFixture(t, "app.getdocsy.documentationkit", "DocumentationKit")
		project := docsee.NewProject("Docs")
		project.References["app.getdocsy.documentationkit"] = docsee.Reference{
			Source:   docsee.LocalFS(root),
			Metadata: docsee.BundleInfo{DisplayName: "DocumentationKit", Identifier: "app.getdocsy.documentationkit"},
		}
		project.Items = []docsee.Node{docsee.BundleNode("DocumentationKit", "app.getdocsy.documentationkit")}
		path := writeProject(t, project)

		m := newTestMain(t)
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(testContext(), []string{
			"path", path,
			"doc://app.getdocsy.documentationkit/documentation/DocumentationKit",
		}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "/documentation/DocumentationKit")
	})

	t.Run("returns error for an unknown topic", func(t *testing.T) {
		t.Parallel()

		root := writeBundleFixture(t, "app.getdocsy.documentationkit", "DocumentationKit")
		project := docsee.NewProject("Docs")
		project.References["app.getdocsy.documentationkit"] = docsee.Reference{
			Source:   docsee.LocalFS(root),
			Metadata: docsee.BundleInfo{DisplayName: "DocumentationKit", Identifier: "app.getdocsy.documentationkit"},
		}
		project.Items = []docsee.Node{docsee.BundleNode("DocumentationKit", "app.getdocsy.documentationkit")}
		path := writeProject(t, project)

		m := newTestMain(t)
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(testContext(), []string{
			"path", path,
			"doc://app.getdocsy.documentationkit/documentation/ghost",
		}, stdout, stderr)

		require.Error(t, err)
		assert.Equal(t, docsee.ENOTFOUND, docsee.ErrorCode(err))
	})
}
