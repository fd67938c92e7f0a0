package search

import (
	"context"

	"inkwell/api/internal/store"
)

const (
	// MinQueryLength is the cheap guard against noisy broad scans; shorter
	// queries return an empty set without touching any backend.
	MinQueryLength = 2
	// MaxResults caps every search response.
	MaxResults = 20
	// SnippetRadius is the number of context characters kept on each side of
	// the first content match.
	SnippetRadius = 50
)

// Result is one search hit: the matching document plus match metadata.
type Result struct {
	Document     store.Document
	TitleMatch   bool
	ContentMatch bool
	Snippet      string
}

// Response is the envelope returned by the search endpoint.
type Response struct {
	Results []Result
	Total   int
	Query   string
}

// DocumentSource is the store surface the search service reads from. Both
// methods only ever return documents the given user may view.
type DocumentSource interface {
	SearchDocuments(ctx context.Context, userID, query string, limit int) ([]store.Document, error)
	GetDocumentsByIDs(ctx context.Context, userID string, ids []string) ([]store.Document, error)
}

// DocumentRecord is the data pushed into the Meilisearch index.
type DocumentRecord struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	AuthorID string `json:"authorId"`
	IsPublic bool   `json:"isPublic"`
}
