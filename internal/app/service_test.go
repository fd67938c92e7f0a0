package app

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"reflect"
	"sync"
	"testing"
	"time"

	"inkwell/api/internal/archive"
	"inkwell/api/internal/authpw"
	"inkwell/api/internal/config"
	"inkwell/api/internal/export"
	"inkwell/api/internal/search"
	"inkwell/api/internal/store"
)

type fakeStore struct {
	getUserByIDFn          func(context.Context, string) (store.User, error)
	getUserByEmailFn       func(context.Context, string) (store.User, error)
	searchUsersFn          func(context.Context, string, string, int) ([]store.User, error)
	createDocumentFn       func(context.Context, store.Document) (store.Document, error)
	getDocumentFn          func(context.Context, string) (store.Document, error)
	listDocumentsForUserFn func(context.Context, string) ([]store.Document, error)
	updateDocumentFn       func(context.Context, string, store.DocumentUpdate, string) (store.Document, bool, error)
	deleteDocumentFn       func(context.Context, string) error
	getShareFn             func(context.Context, string, string) (*store.Share, error)
	upsertShareFn          func(context.Context, store.Share) (store.Share, error)
	listSharesFn           func(context.Context, string) ([]store.Share, error)
	deleteShareFn          func(context.Context, string, string) error
	listVersionsFn         func(context.Context, string) ([]store.Version, error)
}

func (f *fakeStore) GetUserByID(ctx context.Context, userID string) (store.User, error) {
	if f.getUserByIDFn != nil {
		return f.getUserByIDFn(ctx, userID)
	}
	return store.User{ID: userID}, nil
}
func (f *fakeStore) GetUserByEmail(ctx context.Context, email string) (store.User, error) {
	if f.getUserByEmailFn != nil {
		return f.getUserByEmailFn(ctx, email)
	}
	return store.User{}, sql.ErrNoRows
}
func (f *fakeStore) SearchUsers(ctx context.Context, query, excludeUserID string, limit int) ([]store.User, error) {
	if f.searchUsersFn != nil {
		return f.searchUsersFn(ctx, query, excludeUserID, limit)
	}
	return nil, nil
}
func (f *fakeStore) CreateDocument(ctx context.Context, item store.Document) (store.Document, error) {
	if f.createDocumentFn != nil {
		return f.createDocumentFn(ctx, item)
	}
	item.Version = 1
	return item, nil
}
func (f *fakeStore) GetDocument(ctx context.Context, documentID string) (store.Document, error) {
	if f.getDocumentFn != nil {
		return f.getDocumentFn(ctx, documentID)
	}
	return store.Document{}, sql.ErrNoRows
}
func (f *fakeStore) ListDocumentsForUser(ctx context.Context, userID string) ([]store.Document, error) {
	if f.listDocumentsForUserFn != nil {
		return f.listDocumentsForUserFn(ctx, userID)
	}
	return nil, nil
}
func (f *fakeStore) UpdateDocument(ctx context.Context, documentID string, update store.DocumentUpdate, editorID string) (store.Document, bool, error) {
	if f.updateDocumentFn != nil {
		return f.updateDocumentFn(ctx, documentID, update, editorID)
	}
	return store.Document{ID: documentID}, false, nil
}
func (f *fakeStore) DeleteDocument(ctx context.Context, documentID string) error {
	if f.deleteDocumentFn != nil {
		return f.deleteDocumentFn(ctx, documentID)
	}
	return nil
}
func (f *fakeStore) GetShare(ctx context.Context, documentID, userID string) (*store.Share, error) {
	if f.getShareFn != nil {
		return f.getShareFn(ctx, documentID, userID)
	}
	return nil, nil
}
func (f *fakeStore) UpsertShare(ctx context.Context, item store.Share) (store.Share, error) {
	if f.upsertShareFn != nil {
		return f.upsertShareFn(ctx, item)
	}
	return item, nil
}
func (f *fakeStore) ListShares(ctx context.Context, documentID string) ([]store.Share, error) {
	if f.listSharesFn != nil {
		return f.listSharesFn(ctx, documentID)
	}
	return nil, nil
}
func (f *fakeStore) DeleteShare(ctx context.Context, documentID, userID string) error {
	if f.deleteShareFn != nil {
		return f.deleteShareFn(ctx, documentID, userID)
	}
	return nil
}
func (f *fakeStore) ListVersions(ctx context.Context, documentID string) ([]store.Version, error) {
	if f.listVersionsFn != nil {
		return f.listVersionsFn(ctx, documentID)
	}
	return nil, nil
}
func (f *fakeStore) InsertAttachment(ctx context.Context, item store.Attachment) (store.Attachment, error) {
	return item, nil
}
func (f *fakeStore) GetAttachment(context.Context, string, string) (store.Attachment, error) {
	return store.Attachment{}, sql.ErrNoRows
}
func (f *fakeStore) ListAttachments(context.Context, string) ([]store.Attachment, error) {
	return nil, nil
}
func (f *fakeStore) Ping(context.Context) error { return nil }

// DocumentSource methods so the fake can back the search service too.
func (f *fakeStore) SearchDocuments(context.Context, string, string, int) ([]store.Document, error) {
	return nil, nil
}
func (f *fakeStore) GetDocumentsByIDs(context.Context, string, []string) ([]store.Document, error) {
	return nil, nil
}

// fakeResets is an in-memory ResetTokenStore.
type fakeResets struct {
	mu     sync.Mutex
	tokens map[string]string
}

func newFakeResets() *fakeResets {
	return &fakeResets{tokens: make(map[string]string)}
}

func (f *fakeResets) SaveResetToken(_ context.Context, tokenHash, userID string, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[tokenHash] = userID
	return nil
}

func (f *fakeResets) LookupResetToken(_ context.Context, tokenHash string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	userID, ok := f.tokens[tokenHash]
	if !ok {
		return "", errors.New("token not found")
	}
	return userID, nil
}

func (f *fakeResets) ConsumeResetToken(_ context.Context, tokenHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tokens, tokenHash)
	return nil
}

func newTestService(fs *fakeStore) *Service {
	cfg := config.Config{
		JWTSecret:     "test-secret",
		SessionTTL:    time.Hour,
		ResetTokenTTL: time.Hour,
		AppBaseURL:    "http://localhost:3000",
		DevMode:       true,
	}
	return &Service{
		cfg:    cfg,
		store:  fs,
		auth:   authpw.NewService(authTestStore{fs}, newFakeResets(), cfg.ResetTokenTTL),
		search: search.NewService(nil, fs),
		export: export.NewService(),
	}
}

// authTestStore adapts fakeStore to the narrower authpw interfaces.
type authTestStore struct{ fs *fakeStore }

func (a authTestStore) GetUserByEmail(ctx context.Context, email string) (store.User, error) {
	return a.fs.GetUserByEmail(ctx, email)
}
func (a authTestStore) CreateUser(_ context.Context, user store.User) (store.User, error) {
	return user, nil
}
func (a authTestStore) TouchLastLogin(context.Context, string) error         { return nil }
func (a authTestStore) UpdateUserPassword(context.Context, string, string) error { return nil }

func domainStatus(t *testing.T, err error) int {
	t.Helper()
	var domainErr *DomainError
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected DomainError, got %v", err)
	}
	return domainErr.Status
}

func privateDoc() store.Document {
	return store.Document{
		ID:       "doc_1",
		Title:    "Hi",
		Content:  "hello there",
		IsPublic: false,
		AuthorID: "usr_a",
		Version:  1,
	}
}

func TestGetDocumentDeniesOutsider(t *testing.T) {
	fs := &fakeStore{
		getDocumentFn: func(context.Context, string) (store.Document, error) {
			return privateDoc(), nil
		},
	}
	svc := newTestService(fs)

	_, err := svc.GetDocument(context.Background(), Session{UserID: "usr_b"}, "doc_1")
	if status := domainStatus(t, err); status != http.StatusForbidden {
		t.Fatalf("expected 403 for authenticated outsider, got %d", status)
	}
}

func TestGetDocumentAnonymousPrivateGets401(t *testing.T) {
	fs := &fakeStore{
		getDocumentFn: func(context.Context, string) (store.Document, error) {
			return privateDoc(), nil
		},
	}
	svc := newTestService(fs)

	_, err := svc.GetDocument(context.Background(), Session{}, "doc_1")
	if status := domainStatus(t, err); status != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous on private doc, got %d", status)
	}
}

func TestGetDocumentAnonymousPublicSucceeds(t *testing.T) {
	fs := &fakeStore{
		getDocumentFn: func(context.Context, string) (store.Document, error) {
			doc := privateDoc()
			doc.IsPublic = true
			return doc, nil
		},
	}
	svc := newTestService(fs)

	payload, err := svc.GetDocument(context.Background(), Session{}, "doc_1")
	if err != nil {
		t.Fatalf("GetDocument() error = %v", err)
	}
	doc := payload["document"].(map[string]any)
	if doc["id"] != "doc_1" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if _, present := doc["permission"]; present {
		t.Fatal("anonymous viewer must not get a permission field")
	}
}

func TestGetDocumentAttachesSharePermission(t *testing.T) {
	fs := &fakeStore{
		getDocumentFn: func(context.Context, string) (store.Document, error) {
			return privateDoc(), nil
		},
		getShareFn: func(context.Context, string, string) (*store.Share, error) {
			return &store.Share{DocumentID: "doc_1", UserID: "usr_b", Permission: "view"}, nil
		},
	}
	svc := newTestService(fs)

	payload, err := svc.GetDocument(context.Background(), Session{UserID: "usr_b"}, "doc_1")
	if err != nil {
		t.Fatalf("GetDocument() error = %v", err)
	}
	doc := payload["document"].(map[string]any)
	if doc["permission"] != "view" {
		t.Fatalf("expected permission 'view' attached, got %v", doc["permission"])
	}
}

func TestGetDocumentAuthorOmitsPermission(t *testing.T) {
	fs := &fakeStore{
		getDocumentFn: func(context.Context, string) (store.Document, error) {
			return privateDoc(), nil
		},
		getShareFn: func(context.Context, string, string) (*store.Share, error) {
			t.Fatal("author lookup must not consult the share registry")
			return nil, nil
		},
	}
	svc := newTestService(fs)

	payload, err := svc.GetDocument(context.Background(), Session{UserID: "usr_a"}, "doc_1")
	if err != nil {
		t.Fatalf("GetDocument() error = %v", err)
	}
	doc := payload["document"].(map[string]any)
	if _, present := doc["permission"]; present {
		t.Fatal("author must not get a permission field")
	}
}

func TestUpdateDocumentViewShareCannotEdit(t *testing.T) {
	fs := &fakeStore{
		getDocumentFn: func(context.Context, string) (store.Document, error) {
			return privateDoc(), nil
		},
		getShareFn: func(context.Context, string, string) (*store.Share, error) {
			return &store.Share{Permission: "view"}, nil
		},
		updateDocumentFn: func(context.Context, string, store.DocumentUpdate, string) (store.Document, bool, error) {
			t.Fatal("update must not reach the store without edit access")
			return store.Document{}, false, nil
		},
	}
	svc := newTestService(fs)

	title := "New title"
	_, err := svc.UpdateDocument(context.Background(), Session{UserID: "usr_b"}, "doc_1", UpdateDocumentInput{Title: &title})
	if status := domainStatus(t, err); status != http.StatusForbidden {
		t.Fatalf("expected 403 for view-only share, got %d", status)
	}
}

func TestUpdateDocumentEditShareSucceeds(t *testing.T) {
	var gotEditor string
	var gotUpdate store.DocumentUpdate
	fs := &fakeStore{
		getDocumentFn: func(context.Context, string) (store.Document, error) {
			return privateDoc(), nil
		},
		getShareFn: func(context.Context, string, string) (*store.Share, error) {
			return &store.Share{Permission: "edit"}, nil
		},
		updateDocumentFn: func(_ context.Context, documentID string, update store.DocumentUpdate, editorID string) (store.Document, bool, error) {
			gotEditor = editorID
			gotUpdate = update
			doc := privateDoc()
			doc.Version = 2
			doc.Content = *update.Content
			return doc, true, nil
		},
	}
	svc := newTestService(fs)

	content := "brand new content"
	payload, err := svc.UpdateDocument(context.Background(), Session{UserID: "usr_b"}, "doc_1", UpdateDocumentInput{Content: &content})
	if err != nil {
		t.Fatalf("UpdateDocument() error = %v", err)
	}
	if gotEditor != "usr_b" {
		t.Fatalf("snapshot creator should be the editor, got %q", gotEditor)
	}
	if gotUpdate.Content == nil || *gotUpdate.Content != content {
		t.Fatalf("content not forwarded: %+v", gotUpdate)
	}
	doc := payload["document"].(map[string]any)
	if doc["version"] != 2 {
		t.Fatalf("expected version 2 in payload, got %v", doc["version"])
	}
}

func TestUpdateDocumentRejectsEmptyInput(t *testing.T) {
	fs := &fakeStore{
		getDocumentFn: func(context.Context, string) (store.Document, error) {
			t.Fatal("empty update must not touch the store")
			return store.Document{}, nil
		},
	}
	svc := newTestService(fs)

	_, err := svc.UpdateDocument(context.Background(), Session{UserID: "usr_a"}, "doc_1", UpdateDocumentInput{})
	if status := domainStatus(t, err); status != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty update, got %d", status)
	}
}

func TestDeleteDocumentEditorForbidden(t *testing.T) {
	fs := &fakeStore{
		getDocumentFn: func(context.Context, string) (store.Document, error) {
			return privateDoc(), nil
		},
		deleteDocumentFn: func(context.Context, string) error {
			t.Fatal("delete must not reach the store for a non-author")
			return nil
		},
	}
	svc := newTestService(fs)

	err := svc.DeleteDocument(context.Background(), Session{UserID: "usr_b"}, "doc_1")
	if status := domainStatus(t, err); status != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", status)
	}
}

func TestShareDocumentValidation(t *testing.T) {
	fs := &fakeStore{
		getDocumentFn: func(context.Context, string) (store.Document, error) {
			return privateDoc(), nil
		},
	}
	svc := newTestService(fs)
	owner := Session{UserID: "usr_a"}

	if _, err := svc.ShareDocument(context.Background(), owner, "doc_1", "b@example.com", "admin"); domainStatus(t, err) != http.StatusBadRequest {
		t.Fatal("invalid permission should be 400")
	}

	if _, err := svc.ShareDocument(context.Background(), owner, "doc_1", "missing@example.com", "view"); domainStatus(t, err) != http.StatusNotFound {
		t.Fatal("unknown target email should be 404")
	}

	if _, err := svc.ShareDocument(context.Background(), Session{UserID: "usr_b"}, "doc_1", "b@example.com", "view"); domainStatus(t, err) != http.StatusForbidden {
		t.Fatal("non-author share should be 403")
	}
}

func TestShareDocumentUpserts(t *testing.T) {
	var gotShare store.Share
	fs := &fakeStore{
		getDocumentFn: func(context.Context, string) (store.Document, error) {
			return privateDoc(), nil
		},
		getUserByEmailFn: func(_ context.Context, email string) (store.User, error) {
			return store.User{ID: "usr_b", Email: email}, nil
		},
		upsertShareFn: func(_ context.Context, item store.Share) (store.Share, error) {
			gotShare = item
			return item, nil
		},
	}
	svc := newTestService(fs)

	payload, err := svc.ShareDocument(context.Background(), Session{UserID: "usr_a"}, "doc_1", "b@example.com", "edit")
	if err != nil {
		t.Fatalf("ShareDocument() error = %v", err)
	}
	if gotShare.UserID != "usr_b" || gotShare.Permission != "edit" || gotShare.SharedBy != "usr_a" {
		t.Fatalf("unexpected share row: %+v", gotShare)
	}
	share := payload["share"].(map[string]any)
	if share["permission"] != "edit" {
		t.Fatalf("unexpected payload: %+v", share)
	}
}

func TestRevokeShareIdempotent(t *testing.T) {
	calls := 0
	fs := &fakeStore{
		getDocumentFn: func(context.Context, string) (store.Document, error) {
			return privateDoc(), nil
		},
		deleteShareFn: func(context.Context, string, string) error {
			calls++
			return nil
		},
	}
	svc := newTestService(fs)
	owner := Session{UserID: "usr_a"}

	if err := svc.RevokeShare(context.Background(), owner, "doc_1", "usr_b"); err != nil {
		t.Fatalf("RevokeShare() error = %v", err)
	}
	// A second revoke of the now-absent share still succeeds.
	if err := svc.RevokeShare(context.Background(), owner, "doc_1", "usr_b"); err != nil {
		t.Fatalf("second RevokeShare() error = %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 delete calls, got %d", calls)
	}
}

func TestListVersionsRequiresView(t *testing.T) {
	fs := &fakeStore{
		getDocumentFn: func(context.Context, string) (store.Document, error) {
			return privateDoc(), nil
		},
		listVersionsFn: func(context.Context, string) ([]store.Version, error) {
			t.Fatal("version list must not load without view access")
			return nil, nil
		},
	}
	svc := newTestService(fs)

	_, err := svc.ListVersions(context.Background(), Session{UserID: "usr_b"}, "doc_1")
	if status := domainStatus(t, err); status != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", status)
	}
}

func TestListVersionsNewestFirstPayload(t *testing.T) {
	fs := &fakeStore{
		getDocumentFn: func(context.Context, string) (store.Document, error) {
			return privateDoc(), nil
		},
		listVersionsFn: func(context.Context, string) ([]store.Version, error) {
			return []store.Version{
				{ID: "ver_2", VersionNumber: 2, ChangeSummary: "Content updated"},
				{ID: "ver_1", VersionNumber: 1, ChangeSummary: "Initial version"},
			}, nil
		},
	}
	svc := newTestService(fs)

	payload, err := svc.ListVersions(context.Background(), Session{UserID: "usr_a"}, "doc_1")
	if err != nil {
		t.Fatalf("ListVersions() error = %v", err)
	}
	versions := payload["versions"].([]map[string]any)
	if len(versions) != 2 || versions[0]["versionNumber"] != 2 {
		t.Fatalf("unexpected versions payload: %+v", versions)
	}
}

func TestSearchUsersShortQuerySkipsStore(t *testing.T) {
	fs := &fakeStore{
		searchUsersFn: func(context.Context, string, string, int) ([]store.User, error) {
			t.Fatal("store must not be queried for a short query")
			return nil, nil
		},
	}
	svc := newTestService(fs)

	payload, err := svc.SearchUsers(context.Background(), Session{UserID: "usr_a"}, "a")
	if err != nil {
		t.Fatalf("SearchUsers() error = %v", err)
	}
	if users := payload["users"].([]map[string]any); len(users) != 0 {
		t.Fatalf("expected empty users, got %+v", users)
	}
}

func TestSearchUsersExcludesCaller(t *testing.T) {
	var gotExclude string
	fs := &fakeStore{
		searchUsersFn: func(_ context.Context, _ string, excludeUserID string, _ int) ([]store.User, error) {
			gotExclude = excludeUserID
			return []store.User{{ID: "usr_b", Email: "b@example.com"}}, nil
		},
	}
	svc := newTestService(fs)

	if _, err := svc.SearchUsers(context.Background(), Session{UserID: "usr_a"}, "bo"); err != nil {
		t.Fatalf("SearchUsers() error = %v", err)
	}
	if gotExclude != "usr_a" {
		t.Fatalf("caller not excluded, got %q", gotExclude)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	fs := &fakeStore{
		getUserByIDFn: func(_ context.Context, userID string) (store.User, error) {
			return store.User{ID: userID, Email: "a@example.com", FirstName: "Ada"}, nil
		},
	}
	svc := newTestService(fs)

	issued, err := svc.issueSession(store.User{ID: "usr_a", Email: "a@example.com"})
	if err != nil {
		t.Fatalf("issueSession() error = %v", err)
	}

	session, err := svc.SessionFromToken(context.Background(), issued.Token)
	if err != nil {
		t.Fatalf("SessionFromToken() error = %v", err)
	}
	if session.UserID != "usr_a" || session.Email != "a@example.com" {
		t.Fatalf("unexpected session: %+v", session)
	}
}

func TestSessionFromTokenDeletedUser(t *testing.T) {
	fs := &fakeStore{
		getUserByIDFn: func(context.Context, string) (store.User, error) {
			return store.User{}, sql.ErrNoRows
		},
	}
	svc := newTestService(fs)

	issued, err := svc.issueSession(store.User{ID: "usr_gone"})
	if err != nil {
		t.Fatalf("issueSession() error = %v", err)
	}
	if _, err := svc.SessionFromToken(context.Background(), issued.Token); err == nil {
		t.Fatal("expected error for deleted user")
	}
}

func TestForgotPasswordUnknownEmailStaysSilent(t *testing.T) {
	svc := newTestService(&fakeStore{})

	payload := svc.ForgotPassword(context.Background(), "nobody@example.com")
	if _, leaked := payload["devResetToken"]; leaked {
		t.Fatal("unknown email must not yield a token")
	}
	if payload["message"] == "" {
		t.Fatal("expected generic message")
	}
}

func TestPasswordResetRoundTrip(t *testing.T) {
	fs := &fakeStore{
		getUserByEmailFn: func(_ context.Context, email string) (store.User, error) {
			return store.User{ID: "usr_a", Email: email}, nil
		},
	}
	svc := newTestService(fs)

	payload := svc.ForgotPassword(context.Background(), "a@example.com")
	token, ok := payload["devResetToken"].(string)
	if !ok || token == "" {
		t.Fatalf("expected dev token in dev mode, got %+v", payload)
	}

	if err := svc.ResetPassword(context.Background(), token, "brand-new-password"); err != nil {
		t.Fatalf("ResetPassword() error = %v", err)
	}

	// The token is single use.
	err := svc.ResetPassword(context.Background(), token, "another-password-1")
	if !errors.Is(err, authpw.ErrInvalidResetToken) {
		t.Fatalf("expected invalid token on reuse, got %v", err)
	}
}

// Outside dev mode the forgot-password payload must be identical for known
// and unknown emails, even when no mailer is configured.
func TestForgotPasswordUniformOutsideDevMode(t *testing.T) {
	fs := &fakeStore{
		getUserByEmailFn: func(_ context.Context, email string) (store.User, error) {
			if email == "a@example.com" {
				return store.User{ID: "usr_a", Email: email}, nil
			}
			return store.User{}, sql.ErrNoRows
		},
	}
	svc := newTestService(fs)
	svc.cfg.DevMode = false

	known := svc.ForgotPassword(context.Background(), "a@example.com")
	unknown := svc.ForgotPassword(context.Background(), "nobody@example.com")
	if !reflect.DeepEqual(known, unknown) {
		t.Fatalf("responses differ: known=%+v unknown=%+v", known, unknown)
	}
	if _, leaked := known["devResetToken"]; leaked {
		t.Fatal("dev token must not appear outside dev mode")
	}
}

func TestArchiveEndpointsUnavailableWhenUnconfigured(t *testing.T) {
	svc := newTestService(&fakeStore{})

	_, err := svc.ArchiveHistory(context.Background(), Session{UserID: "usr_a"}, "doc_1")
	if status := domainStatus(t, err); status != http.StatusServiceUnavailable {
		t.Fatalf("ArchiveHistory without archive: got %d, want 503", status)
	}
	_, err = svc.ArchiveSnapshot(context.Background(), Session{UserID: "usr_a"}, "doc_1", "deadbeef")
	if status := domainStatus(t, err); status != http.StatusServiceUnavailable {
		t.Fatalf("ArchiveSnapshot without archive: got %d, want 503", status)
	}
}

func TestArchiveHistoryEmptyForUnarchivedDocument(t *testing.T) {
	fs := &fakeStore{
		getDocumentFn: func(context.Context, string) (store.Document, error) {
			return privateDoc(), nil
		},
	}
	svc := newTestService(fs)
	svc.archive = archive.New(t.TempDir())

	payload, err := svc.ArchiveHistory(context.Background(), Session{UserID: "usr_a"}, "doc_1")
	if err != nil {
		t.Fatalf("ArchiveHistory() error = %v", err)
	}
	commits, ok := payload["commits"].([]archive.CommitInfo)
	if !ok {
		t.Fatalf("unexpected commits payload: %+v", payload)
	}
	if len(commits) != 0 {
		t.Fatalf("expected empty history before first snapshot, got %d commits", len(commits))
	}
}

func TestArchiveSnapshotUnknownRevisionIs404(t *testing.T) {
	fs := &fakeStore{
		getDocumentFn: func(context.Context, string) (store.Document, error) {
			return privateDoc(), nil
		},
	}
	svc := newTestService(fs)
	svc.archive = archive.New(t.TempDir())

	_, err := svc.ArchiveSnapshot(context.Background(), Session{UserID: "usr_a"}, "doc_1", "deadbeef")
	if status := domainStatus(t, err); status != http.StatusNotFound {
		t.Fatalf("ArchiveSnapshot on absent repo: got %d, want 404", status)
	}
}

func TestPresignAttachmentUnavailableWhenUnconfigured(t *testing.T) {
	svc := newTestService(&fakeStore{})

	_, err := svc.PresignAttachment(context.Background(), Session{UserID: "usr_a"}, "doc_1", "att_1")
	if status := domainStatus(t, err); status != http.StatusServiceUnavailable {
		t.Fatalf("PresignAttachment without storage: got %d, want 503", status)
	}
}
