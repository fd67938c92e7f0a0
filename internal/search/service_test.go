package search

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"inkwell/api/internal/store"
)

type fakeAccel struct {
	ids      []string
	searched bool
}

func (f *fakeAccel) Healthy() bool { return true }
func (f *fakeAccel) SearchIDs(string, int) ([]string, error) {
	f.searched = true
	return f.ids, nil
}
func (f *fakeAccel) IndexDocument(DocumentRecord) error    { return nil }
func (f *fakeAccel) IndexDocuments([]DocumentRecord) error { return nil }
func (f *fakeAccel) DeleteDocument(string) error           { return nil }

type fakeDocs struct {
	docs     []store.Document
	searched bool
}

// SearchDocuments ignores the limit so tests can prove the service-level cap.
func (f *fakeDocs) SearchDocuments(_ context.Context, _, query string, _ int) ([]store.Document, error) {
	f.searched = true
	lower := strings.ToLower(query)
	matched := make([]store.Document, 0)
	for _, doc := range f.docs {
		if strings.Contains(strings.ToLower(doc.Title), lower) || strings.Contains(strings.ToLower(doc.Content), lower) {
			matched = append(matched, doc)
		}
	}
	return matched, nil
}

func (f *fakeDocs) GetDocumentsByIDs(_ context.Context, _ string, ids []string) ([]store.Document, error) {
	byID := map[string]store.Document{}
	for _, doc := range f.docs {
		byID[doc.ID] = doc
	}
	matched := make([]store.Document, 0)
	for _, id := range ids {
		if doc, ok := byID[id]; ok {
			matched = append(matched, doc)
		}
	}
	return matched, nil
}

func TestSearchShortQueryReturnsEmptyWithoutStoreAccess(t *testing.T) {
	docs := &fakeDocs{docs: []store.Document{{ID: "doc-1", Title: "a"}}}
	svc := NewService(nil, docs)

	resp, err := svc.Search(context.Background(), "usr_1", "a")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(resp.Results) != 0 {
		t.Fatalf("expected no results, got %d", len(resp.Results))
	}
	if docs.searched {
		t.Fatal("store must not be touched for short queries")
	}
}

func TestSearchAnnotatesMatches(t *testing.T) {
	docs := &fakeDocs{docs: []store.Document{
		{ID: "doc-1", Title: "Meeting notes", Content: "The roadmap review went long."},
		{ID: "doc-2", Title: "Roadmap 2026", Content: "nothing relevant"},
	}}
	svc := NewService(nil, docs)

	resp, err := svc.Search(context.Background(), "usr_1", "roadmap")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(resp.Results))
	}

	byID := map[string]Result{}
	for _, r := range resp.Results {
		byID[r.Document.ID] = r
	}

	contentHit := byID["doc-1"]
	if contentHit.TitleMatch || !contentHit.ContentMatch {
		t.Fatalf("doc-1 match flags wrong: %+v", contentHit)
	}
	if !strings.Contains(contentHit.Snippet, "roadmap review") {
		t.Fatalf("doc-1 snippet missing match context: %q", contentHit.Snippet)
	}

	titleHit := byID["doc-2"]
	if !titleHit.TitleMatch || titleHit.ContentMatch {
		t.Fatalf("doc-2 match flags wrong: %+v", titleHit)
	}
	if titleHit.Snippet != "" {
		t.Fatalf("expected empty snippet without content match, got %q", titleHit.Snippet)
	}
}

func TestSearchDeduplicatesAndOrdersByUpdatedAt(t *testing.T) {
	now := time.Now()
	docs := &fakeDocs{docs: []store.Document{
		{ID: "doc-1", Title: "plan old", UpdatedAt: now.Add(-time.Hour)},
		{ID: "doc-1", Title: "plan old", UpdatedAt: now.Add(-time.Hour)},
		{ID: "doc-2", Title: "plan new", UpdatedAt: now},
	}}
	svc := NewService(nil, docs)

	resp, err := svc.Search(context.Background(), "usr_1", "plan")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("expected deduplicated 2 results, got %d", len(resp.Results))
	}
	if resp.Results[0].Document.ID != "doc-2" {
		t.Fatalf("expected most recently updated first, got %s", resp.Results[0].Document.ID)
	}
}

// The accelerator tokenizes, so a mid-word substring match can exist only in
// the store scan. A healthy accelerator must widen the candidate set, never
// replace it.
func TestSearchKeepsScanMatchesWhenAcceleratorActive(t *testing.T) {
	docs := &fakeDocs{docs: []store.Document{
		{ID: "doc-mid", Title: "Infrastructure overview", UpdatedAt: time.Now()},
		{ID: "doc-tok", Title: "Notes", Content: "frastru appears verbatim here", UpdatedAt: time.Now()},
	}}
	accel := &fakeAccel{ids: []string{"doc-tok"}}
	svc := &Service{meili: accel, docs: docs}

	resp, err := svc.Search(context.Background(), "usr_1", "frastru")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if !accel.searched || !docs.searched {
		t.Fatal("both the accelerator and the store scan must run")
	}
	if len(resp.Results) != 2 {
		t.Fatalf("expected union of 2 results, got %d", len(resp.Results))
	}
	found := false
	for _, r := range resp.Results {
		if r.Document.ID == "doc-mid" {
			found = true
		}
	}
	if !found {
		t.Fatal("scan-only match dropped while accelerator active")
	}
}

func TestExtractSnippetKeepsMatchAcrossCaseFoldWidthChange(t *testing.T) {
	// U+0130 lowercases to a different byte width; byte-index arithmetic
	// would shift the window off the match and split runes.
	padding := strings.Repeat("İ", 60)
	content := padding + " needle sits here " + padding

	snippet := extractSnippet(content, "needle")
	if !utf8.ValidString(snippet) {
		t.Fatalf("snippet is not valid UTF-8: %q", snippet)
	}
	if !strings.Contains(snippet, "needle") {
		t.Fatalf("snippet lost the match: %q", snippet)
	}
	if !strings.HasPrefix(snippet, "...") || !strings.HasSuffix(snippet, "...") {
		t.Fatalf("expected ellipses on both clipped sides: %q", snippet)
	}
}

func TestExtractSnippetWindowCountsRunes(t *testing.T) {
	padding := strings.Repeat("İ", 60)
	content := padding + "needle" + padding

	snippet := extractSnippet(content, "NEEDLE")
	// 50 runes of context each side plus the match plus two ellipses.
	if got := strings.Count(snippet, "İ"); got != 2*SnippetRadius {
		t.Fatalf("expected %d context runes, got %d (%q)", 2*SnippetRadius, got, snippet)
	}
}

func TestExtractSnippetNoEllipsisWhenUnclipped(t *testing.T) {
	snippet := extractSnippet("short needle text", "needle")
	if snippet != "short needle text" {
		t.Fatalf("unexpected snippet: %q", snippet)
	}
}

func TestSearchCapsResults(t *testing.T) {
	many := make([]store.Document, 0, MaxResults+10)
	for i := 0; i < MaxResults+10; i++ {
		many = append(many, store.Document{
			ID:        string(rune('a'+i%26)) + string(rune('0'+i/26)),
			Title:     "budget",
			UpdatedAt: time.Now(),
		})
	}
	// Store-level limit already applies in production; feed the service more
	// to prove the hard cap.
	svc := NewService(nil, &fakeDocs{docs: many})
	resp, err := svc.Search(context.Background(), "usr_1", "budget")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(resp.Results) > MaxResults {
		t.Fatalf("expected at most %d results, got %d", MaxResults, len(resp.Results))
	}
}
