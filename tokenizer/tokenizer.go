// Package tokenizer provides the camelCase-aware text splitter feeding the
// documentation repository's full-text search index. Compound identifier
// segments such as "DocumentationKit" are split into their constituent
// words before stemming, so a search for "kit" finds "DocumentationKit".
package tokenizer

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/surgebase/porter2"
)

// identifierRun matches a compound identifier segment: a run preceded by
// start-of-string, whitespace, comma, or period, consisting of zero or more
// lowercase letters followed by one or more capital-led groups.
var identifierRun = regexp.MustCompile(`(?:^|[\s.,])([a-z]*(?:[A-Z][a-z0-9]+)+)`)

// SplitTerms splits raw input into pre-tokens. Each compound identifier
// segment is split into its camelCase words (lowercased); text outside
// matched segments is preserved as its own whitespace-trimmed token.
func SplitTerms(input string) []string {
	matches := identifierRun.FindAllStringSubmatchIndex(input, -1)

	var output []string
	current := 0

	for _, m := range matches {
		// m[2]:m[3] is the identifier run itself; the separator preceding
		// it stays with the surrounding text.
		if gap := strings.TrimSpace(input[current:m[2]]); gap != "" {
			output = append(output, gap)
		}
		output = append(output, splitCamelCase(input[m[2]:m[3]])...)
		current = m[1]
	}

	if suffix := strings.TrimSpace(input[current:]); suffix != "" {
		output = append(output, suffix)
	}

	return output
}

// Tokenize produces the final indexed tokens for input: pre-tokens from
// SplitTerms, split into words on non-alphanumeric boundaries, lowercased,
// and stemmed with the Porter2 algorithm. Empty input yields no tokens.
func Tokenize(input string) []string {
	var tokens []string
	for _, pre := range SplitTerms(input) {
		words := strings.FieldsFunc(pre, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		for _, word := range words {
			tokens = append(tokens, porter2.Stem(strings.ToLower(word)))
		}
	}
	return tokens
}

// splitCamelCase splits an identifier run before every uppercase letter
// that is not its first character and lowercases the parts.
func splitCamelCase(run string) []string {
	var words []string
	var current strings.Builder

	for i, r := range run {
		if unicode.IsUpper(r) && i > 0 {
			words = append(words, current.String())
			current.Reset()
		}
		current.WriteRune(unicode.ToLower(r))
	}
	if current.Len() > 0 {
		words = append(words, current.String())
	}

	return words
}
