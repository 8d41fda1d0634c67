package docsee_test

import (
	"encoding/json"
	"testing"

	"github.com/getdocsy/docsee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject_Validate(t *testing.T) {
	t.Parallel()

	t.Run("passes when items and references match", func(t *testing.T) {
		t.Parallel()

		project := docsee.NewProject("Test")
		project.Items = []docsee.Node{
			docsee.BundleNode("Sloth", "com.example.sloth"),
			docsee.GroupMarkerNode("Separator"),
		}
		project.References["com.example.sloth"] = docsee.Reference{
			Source:   docsee.LocalFS("/archives/sloth"),
			Metadata: docsee.BundleInfo{DisplayName: "Sloth", Identifier: "com.example.sloth"},
		}

		assert.NoError(t, project.Validate())
	})

	t.Run("reports missing references", func(t *testing.T) {
		t.Parallel()

		project := docsee.NewProject("Test")
		project.Items = []docsee.Node{docsee.BundleNode("Sloth", "com.example.sloth")}

		err := project.Validate()
		require.Error(t, err)

		var verr *docsee.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"com.example.sloth"}, verr.MissingReferences)
		assert.Empty(t, verr.UnusedReferences)
	})

	t.Run("reports unused references", func(t *testing.T) {
		t.Parallel()

		project := docsee.NewProject("Test")
		project.References["com.example.orphan"] = docsee.Reference{
			Source:   docsee.LocalFS("/archives/orphan"),
			Metadata: docsee.BundleInfo{DisplayName: "Orphan", Identifier: "com.example.orphan"},
		}

		err := project.Validate()
		require.Error(t, err)

		var verr *docsee.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Empty(t, verr.MissingReferences)
		assert.Equal(t, []string{"com.example.orphan"}, verr.UnusedReferences)
	})

	t.Run("group markers need no reference", func(t *testing.T) {
		t.Parallel()

		project := docsee.NewProject("Test")
		project.Items = []docsee.Node{docsee.GroupMarkerNode("Separator")}

		assert.NoError(t, project.Validate())
	})
}

func TestSource_JSONRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source docsee.Source
	}{
		{"localFS", docsee.LocalFS("/archives/sloth")},
		{"index", docsee.Index("/index")},
		{"http", docsee.HTTP("https://docs.example.com", "https://docs.example.com/index")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data, err := json.Marshal(tt.source)
			require.NoError(t, err)

			var decoded docsee.Source
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.Equal(t, tt.source, decoded)
		})
	}
}

func TestSource_UnmarshalUnknownKind(t *testing.T) {
	t.Parallel()

	var source docsee.Source
	err := json.Unmarshal([]byte(`{"kind":"carrier-pigeon","config":{}}`), &source)
	require.Error(t, err)
	assert.Equal(t, docsee.EINVALID, docsee.ErrorCode(err))
}

func TestProject_JSONRoundTrip(t *testing.T) {
	t.Parallel()

	project := docsee.NewProject("My Docs")
	project.Items = []docsee.Node{
		docsee.GroupMarkerNode("Favorites"),
		docsee.BundleNode("Sloth", "com.example.sloth"),
	}
	project.References["com.example.sloth"] = docsee.Reference{
		Source:   docsee.HTTP("https://docs.example.com", "https://docs.example.com/index"),
		Metadata: docsee.BundleInfo{DisplayName: "Sloth", Identifier: "com.example.sloth"},
	}

	data, err := json.Marshal(project)
	require.NoError(t, err)

	var decoded docsee.Project
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, project.Identifier, decoded.Identifier)
	assert.Equal(t, project.DisplayName, decoded.DisplayName)
	assert.Equal(t, project.Items, decoded.Items)
	assert.Equal(t, project.References, decoded.References)
}

func TestReference_Bundle(t *testing.T) {
	t.Parallel()

	t.Run("http source derives index path from URLs", func(t *testing.T) {
		t.Parallel()

		ref := docsee.Reference{
			Source:   docsee.HTTP("https://docs.example.com", "https://docs.example.com/sloth/index"),
			Metadata: docsee.BundleInfo{DisplayName: "Sloth", Identifier: "com.example.sloth"},
		}

		bundle, err := ref.Bundle()
		require.NoError(t, err)
		assert.Equal(t, "/sloth/index", bundle.IndexPath)
		assert.Equal(t, "com.example.sloth", bundle.Identifier())
	})

	t.Run("localFS source uses the conventional index path", func(t *testing.T) {
		t.Parallel()

		ref := docsee.Reference{
			Source:   docsee.LocalFS("/archives/sloth"),
			Metadata: docsee.BundleInfo{DisplayName: "Sloth", Identifier: "com.example.sloth"},
		}

		bundle, err := ref.Bundle()
		require.NoError(t, err)
		assert.Equal(t, "/index", bundle.IndexPath)
	})
}
