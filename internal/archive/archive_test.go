package archive

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestArchiveLifecycle(t *testing.T) {
	tempDir := t.TempDir()
	svc := New(tempDir)

	initial := Snapshot{
		Title:   "Quarterly Notes",
		Content: "First draft.",
		Version: 1,
		Summary: "Initial version",
	}

	if err := svc.EnsureRepo("doc_1", initial, "Avery"); err != nil {
		t.Fatalf("EnsureRepo() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(tempDir, "doc_1")); err != nil {
		t.Fatalf("repo directory missing: %v", err)
	}

	// Calling again for an existing document is a no-op.
	if err := svc.EnsureRepo("doc_1", initial, "Avery"); err != nil {
		t.Fatalf("EnsureRepo() second call error = %v", err)
	}

	next := Snapshot{
		Title:   "Quarterly Notes",
		Content: "Second draft with more detail.",
		Version: 2,
		Summary: "Content updated",
	}
	commit, err := svc.CommitSnapshot("doc_1", next, "Avery")
	if err != nil {
		t.Fatalf("CommitSnapshot() error = %v", err)
	}
	if commit.Hash == "" {
		t.Fatal("expected commit hash")
	}
	if !strings.Contains(commit.Message, "Content updated") {
		t.Fatalf("unexpected commit message %q", commit.Message)
	}

	history, err := svc.History("doc_1", 10)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(history))
	}

	got, err := svc.SnapshotAt("doc_1", commit.Hash)
	if err != nil {
		t.Fatalf("SnapshotAt() error = %v", err)
	}
	if got.Content != next.Content || got.Version != 2 {
		t.Fatalf("unexpected snapshot: %+v", got)
	}

	if err := svc.Remove("doc_1"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(tempDir, "doc_1")); !os.IsNotExist(err) {
		t.Fatalf("repo directory should be gone, stat err = %v", err)
	}
}

func TestMissingRepoAndRevisionSentinels(t *testing.T) {
	tempDir := t.TempDir()
	svc := New(tempDir)

	if _, err := svc.History("doc_missing", 10); !errors.Is(err, ErrNoArchive) {
		t.Fatalf("History() on absent repo err = %v, want ErrNoArchive", err)
	}
	if _, err := svc.SnapshotAt("doc_missing", "deadbeef"); !errors.Is(err, ErrNoArchive) {
		t.Fatalf("SnapshotAt() on absent repo err = %v, want ErrNoArchive", err)
	}

	initial := Snapshot{Title: "Doc", Content: "base", Version: 1, Summary: "Initial version"}
	if err := svc.EnsureRepo("doc_1", initial, "Avery"); err != nil {
		t.Fatalf("EnsureRepo() error = %v", err)
	}
	if _, err := svc.SnapshotAt("doc_1", "0000000000000000000000000000000000000000"); !errors.Is(err, ErrUnknownRevision) {
		t.Fatalf("SnapshotAt() with bogus hash err = %v, want ErrUnknownRevision", err)
	}
}

func TestConcurrentCommitSnapshot(t *testing.T) {
	tempDir := t.TempDir()
	svc := New(tempDir)

	initial := Snapshot{Title: "Doc", Content: "base", Version: 1}
	if err := svc.EnsureRepo("doc_1", initial, "Avery"); err != nil {
		t.Fatalf("EnsureRepo() error = %v", err)
	}

	const writers = 12
	var wg sync.WaitGroup
	errCh := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			snap := Snapshot{
				Title:   "Doc",
				Content: fmt.Sprintf("revision-%02d", idx),
				Version: idx + 2,
				Summary: "Content updated",
			}
			if _, err := svc.CommitSnapshot("doc_1", snap, "Avery"); err != nil {
				errCh <- err
			}
		}(i)
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		if err != nil {
			t.Fatalf("CommitSnapshot() concurrent error = %v", err)
		}
	}

	history, err := svc.History("doc_1", 100)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) < writers+1 {
		t.Fatalf("expected at least %d commits, got %d", writers+1, len(history))
	}
}
