package search

import (
	"context"
	"log"
	"sort"
	"strings"
	"unicode/utf8"

	"inkwell/api/internal/store"
)

// accelerator is the slice of the Meilisearch client the service consumes.
type accelerator interface {
	Healthy() bool
	SearchIDs(query string, limit int) ([]string, error)
	IndexDocument(doc DocumentRecord) error
	IndexDocuments(documents []DocumentRecord) error
	DeleteDocument(id string) error
}

// Service answers document searches. Meilisearch, when configured and
// healthy, proposes extra candidates; the relational store is always the
// authority for visibility and the substring-match contract.
type Service struct {
	meili accelerator
	docs  DocumentSource
}

// NewService creates a search service. meili may be nil when Meilisearch is
// not configured.
func NewService(meili *Meili, docs DocumentSource) *Service {
	s := &Service{docs: docs}
	if meili != nil {
		s.meili = meili
	}
	return s
}

// Search returns up to MaxResults viewable documents matching the query,
// most recently updated first. Queries below MinQueryLength return an empty
// response without touching any backend.
func (s *Service) Search(ctx context.Context, userID, query string) (Response, error) {
	q := strings.TrimSpace(query)
	if utf8.RuneCountInString(q) < MinQueryLength {
		return Response{Results: []Result{}, Query: q}, nil
	}

	candidates, err := s.candidates(ctx, userID, q)
	if err != nil {
		return Response{}, err
	}

	seen := make(map[string]struct{}, len(candidates))
	results := make([]Result, 0, len(candidates))
	for _, doc := range candidates {
		if _, dup := seen[doc.ID]; dup {
			continue
		}
		seen[doc.ID] = struct{}{}
		if result, ok := Annotate(doc, q); ok {
			results = append(results, result)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Document.UpdatedAt.After(results[j].Document.UpdatedAt)
	})
	if len(results) > MaxResults {
		results = results[:MaxResults]
	}

	return Response{Results: results, Total: len(results), Query: q}, nil
}

// candidates unions the authoritative ILIKE scan with the accelerator's hit
// set. The scan always runs: Meilisearch tokenizes, so it can miss mid-word
// substring matches the contract requires, and its index can lag behind
// writes. Duplicates are collapsed by the caller.
func (s *Service) candidates(ctx context.Context, userID, query string) ([]store.Document, error) {
	scanned, err := s.docs.SearchDocuments(ctx, userID, query, MaxResults)
	if err != nil {
		return nil, err
	}

	if s.meili == nil || !s.meili.Healthy() {
		return scanned, nil
	}

	ids, err := s.meili.SearchIDs(query, MaxResults*2)
	if err != nil {
		log.Printf("search: meilisearch error, using store scan only: %v", err)
		return scanned, nil
	}
	accelerated, err := s.docs.GetDocumentsByIDs(ctx, userID, ids)
	if err != nil {
		return nil, err
	}
	return append(scanned, accelerated...), nil
}

// IndexDocument pushes a document into Meilisearch, fire-and-forget.
func (s *Service) IndexDocument(doc store.Document) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.IndexDocument(toRecord(doc)); err != nil {
			log.Printf("search: index document %s: %v", doc.ID, err)
		}
	}()
}

// DeleteDocument removes a document from Meilisearch, fire-and-forget.
func (s *Service) DeleteDocument(id string) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.DeleteDocument(id); err != nil {
			log.Printf("search: delete document %s: %v", id, err)
		}
	}()
}

// Reindex pushes the full document set into Meilisearch, fire-and-forget.
// Run at startup so an empty or stale index catches up without manual work.
func (s *Service) Reindex(docs []store.Document) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	records := make([]DocumentRecord, 0, len(docs))
	for _, doc := range docs {
		records = append(records, toRecord(doc))
	}
	go func() {
		if err := s.meili.IndexDocuments(records); err != nil {
			log.Printf("search: reindex %d documents: %v", len(records), err)
		}
	}()
}

func toRecord(doc store.Document) DocumentRecord {
	return DocumentRecord{
		ID:       doc.ID,
		Title:    doc.Title,
		Content:  doc.Content,
		AuthorID: doc.AuthorID,
		IsPublic: doc.IsPublic,
	}
}
