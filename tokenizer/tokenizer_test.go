package tokenizer_test

import (
	"testing"

	"github.com/getdocsy/docsee/tokenizer"
	"github.com/stretchr/testify/assert"
)

func TestSplitTerms(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "splits compound identifier into camelCase words",
			input: "DocumentationKit",
			want:  []string{"documentation", "kit"},
		},
		{
			name:  "splits lowercase-led identifier",
			input: "getDocsy",
			want:  []string{"get", "docsy"},
		},
		{
			name:  "preserves plain text",
			input: "plain text",
			want:  []string{"plain text"},
		},
		{
			name:  "splits identifier after a period",
			input: "app.DocumentationServer",
			want:  []string{"app.", "documentation", "server"},
		},
		{
			name:  "mixes plain words and identifiers",
			input: "the DocumentationKit framework",
			want:  []string{"the", "documentation", "kit", "framework"},
		},
		{
			name:  "empty input yields no tokens",
			input: "",
			want:  nil,
		},
		{
			name:  "whitespace-only input yields no tokens",
			input: "   ",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tokenizer.SplitTerms(tt.input))
		})
	}
}

func TestTokenize(t *testing.T) {
	t.Parallel()

	t.Run("stems each camelCase sub-word independently", func(t *testing.T) {
		t.Parallel()

		got := tokenizer.Tokenize("DocumentationKit")
		assert.Equal(t, []string{"document", "kit"}, got)
	})

	t.Run("plain words pass through unchanged when stemming is a no-op", func(t *testing.T) {
		t.Parallel()

		got := tokenizer.Tokenize("plain text")
		assert.Equal(t, []string{"plain", "text"}, got)
	})

	t.Run("splits reverse-DNS identifiers on punctuation", func(t *testing.T) {
		t.Parallel()

		got := tokenizer.Tokenize("app.getdocsy.documentationkit")
		assert.Equal(t, []string{"app", "getdocsi", "documentationkit"}, got)
	})

	t.Run("query and index tokens agree for matching", func(t *testing.T) {
		t.Parallel()

		indexed := tokenizer.Tokenize("DocumentationKit")
		query := tokenizer.Tokenize("kit")
		assert.Contains(t, indexed, query[0])
	})

	t.Run("empty input yields no tokens", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, tokenizer.Tokenize(""))
	})
}
