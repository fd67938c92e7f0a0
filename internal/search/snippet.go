package search

import (
	"strings"
	"unicode"

	"inkwell/api/internal/store"
)

// Annotate computes match metadata for one candidate. The second return is
// false when neither title nor content contains the query.
func Annotate(doc store.Document, query string) (Result, bool) {
	lowerQuery := strings.ToLower(query)
	titleMatch := strings.Contains(strings.ToLower(doc.Title), lowerQuery)
	contentMatch := strings.Contains(strings.ToLower(doc.Content), lowerQuery)
	if !titleMatch && !contentMatch {
		return Result{}, false
	}

	result := Result{
		Document:     doc,
		TitleMatch:   titleMatch,
		ContentMatch: contentMatch,
	}
	if contentMatch {
		result.Snippet = extractSnippet(doc.Content, query)
	}
	return result, true
}

// extractSnippet returns the first case-insensitive occurrence of the query
// with SnippetRadius runes of context each side, ellipsis-marked where the
// window was cut. Matching and slicing both happen in rune space so case
// folds that change byte width cannot shift the window or split a rune.
func extractSnippet(content, query string) string {
	contentRunes := []rune(content)
	queryRunes := lowerRunes([]rune(query))
	idx := indexFold(contentRunes, queryRunes)
	if idx < 0 {
		return ""
	}

	start := idx - SnippetRadius
	if start < 0 {
		start = 0
	}
	end := idx + len(queryRunes) + SnippetRadius
	if end > len(contentRunes) {
		end = len(contentRunes)
	}

	snippet := string(contentRunes[start:end])
	if start > 0 {
		snippet = "..." + snippet
	}
	if end < len(contentRunes) {
		snippet = snippet + "..."
	}
	return snippet
}

// indexFold finds the first rune offset where content matches query under
// rune-by-rune lowercasing, or -1.
func indexFold(content, lowerQuery []rune) int {
	if len(lowerQuery) == 0 || len(lowerQuery) > len(content) {
		return -1
	}
	for i := 0; i+len(lowerQuery) <= len(content); i++ {
		matched := true
		for j, q := range lowerQuery {
			if unicode.ToLower(content[i+j]) != q {
				matched = false
				break
			}
		}
		if matched {
			return i
		}
	}
	return -1
}

func lowerRunes(runes []rune) []rune {
	lowered := make([]rune, len(runes))
	for i, r := range runes {
		lowered[i] = unicode.ToLower(r)
	}
	return lowered
}
