package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"inkwell/api/internal/access"
	"inkwell/api/internal/archive"
	"inkwell/api/internal/attach"
	"inkwell/api/internal/auth"
	"inkwell/api/internal/authpw"
	"inkwell/api/internal/config"
	"inkwell/api/internal/email"
	"inkwell/api/internal/export"
	"inkwell/api/internal/search"
	"inkwell/api/internal/store"
	"inkwell/api/internal/util"
)

// Session is the resolved caller identity for one request. A zero Session
// (empty UserID) means the caller is anonymous.
type Session struct {
	Token     string
	UserID    string
	Email     string
	FirstName string
	LastName  string
	ExpiresAt time.Time
}

func (s Session) anonymous() bool {
	return s.UserID == ""
}

type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type UpdateDocumentInput struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	IsPublic *bool   `json:"isPublic"`
}

type dataStore interface {
	GetUserByID(ctx context.Context, userID string) (store.User, error)
	GetUserByEmail(ctx context.Context, email string) (store.User, error)
	SearchUsers(ctx context.Context, query, excludeUserID string, limit int) ([]store.User, error)
	CreateDocument(ctx context.Context, item store.Document) (store.Document, error)
	GetDocument(ctx context.Context, documentID string) (store.Document, error)
	ListDocumentsForUser(ctx context.Context, userID string) ([]store.Document, error)
	UpdateDocument(ctx context.Context, documentID string, update store.DocumentUpdate, editorID string) (store.Document, bool, error)
	DeleteDocument(ctx context.Context, documentID string) error
	GetShare(ctx context.Context, documentID, userID string) (*store.Share, error)
	UpsertShare(ctx context.Context, item store.Share) (store.Share, error)
	ListShares(ctx context.Context, documentID string) ([]store.Share, error)
	DeleteShare(ctx context.Context, documentID, userID string) error
	ListVersions(ctx context.Context, documentID string) ([]store.Version, error)
	InsertAttachment(ctx context.Context, item store.Attachment) (store.Attachment, error)
	GetAttachment(ctx context.Context, documentID, attachmentID string) (store.Attachment, error)
	ListAttachments(ctx context.Context, documentID string) ([]store.Attachment, error)
	Ping(ctx context.Context) error
}

// Deps are the optional and required collaborators around the store. Attach
// and Archive may be nil when their backing services are unconfigured.
type Deps struct {
	Auth    *authpw.Service
	Search  *search.Service
	Email   *email.Service
	Export  *export.Service
	Attach  *attach.Service
	Archive *archive.Service
}

type Service struct {
	cfg     config.Config
	store   dataStore
	auth    *authpw.Service
	search  *search.Service
	email   *email.Service
	export  *export.Service
	attach  *attach.Service
	archive *archive.Service
}

func New(cfg config.Config, dataStore *store.PostgresStore, deps Deps) *Service {
	return &Service{
		cfg:     cfg,
		store:   dataStore,
		auth:    deps.Auth,
		search:  deps.Search,
		email:   deps.Email,
		export:  deps.Export,
		attach:  deps.Attach,
		archive: deps.Archive,
	}
}

// ── Authentication ──

func (s *Service) Register(ctx context.Context, input RegisterInput) (map[string]any, error) {
	user, err := s.auth.Register(ctx, authpw.RegisterRequest{
		Email:     input.Email,
		Password:  input.Password,
		FirstName: input.FirstName,
		LastName:  input.LastName,
	})
	if err != nil {
		if errors.Is(err, authpw.ErrEmailTaken) {
			return nil, err
		}
		return nil, domainError(http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
	}

	session, err := s.issueSession(user)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"user":  userPayload(user),
		"token": session.Token,
	}, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (map[string]any, error) {
	user, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	session, err := s.issueSession(user)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"user":  userPayload(user),
		"token": session.Token,
	}, nil
}

func (s *Service) Me(ctx context.Context, session Session) (map[string]any, error) {
	user, err := s.store.GetUserByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	return map[string]any{"user": userPayload(user)}, nil
}

// ForgotPassword is enumeration-safe: the payload is identical whether or not
// the email maps to an account. Mail delivery is best-effort.
func (s *Service) ForgotPassword(ctx context.Context, emailAddr string) map[string]any {
	token, err := s.auth.RequestPasswordReset(ctx, emailAddr)
	if err != nil {
		log.Printf("password reset request failed: %v", err)
	}

	response := map[string]any{
		"message": "If an account exists, a reset email has been sent",
	}
	if token == "" {
		return response
	}

	if s.email != nil && s.email.IsConfigured() {
		resetURL := s.cfg.AppBaseURL + "/reset-password?token=" + token
		go func(to, url string) {
			user, err := s.store.GetUserByEmail(context.Background(), to)
			if err != nil {
				return
			}
			if err := s.email.SendPasswordResetEmail(user.Email, user.FirstName, url); err != nil {
				log.Printf("send password reset email: %v", err)
			}
		}(emailAddr, resetURL)
	}
	if s.cfg.DevMode {
		// Dev bypass only. In production the payload stays uniform even when
		// mail is down, so the endpoint never confirms an account exists.
		response["devResetToken"] = token
	}
	return response
}

func (s *Service) ResetPassword(ctx context.Context, token, password string) error {
	if err := s.auth.ResetPassword(ctx, token, password); err != nil {
		if errors.Is(err, authpw.ErrInvalidResetToken) {
			return err
		}
		return domainError(http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
	}
	return nil
}

func (s *Service) issueSession(user store.User) (Session, error) {
	expiresAt := time.Now().Add(s.cfg.SessionTTL)
	token, err := auth.IssueToken([]byte(s.cfg.JWTSecret), user.ID, util.NewID("jti"), s.cfg.SessionTTL)
	if err != nil {
		return Session{}, fmt.Errorf("issue session token: %w", err)
	}
	return Session{
		Token:     token,
		UserID:    user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *Service) SessionFromToken(ctx context.Context, token string) (Session, error) {
	userID, err := auth.ParseToken([]byte(s.cfg.JWTSecret), token)
	if err != nil {
		return Session{}, err
	}
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return Session{}, auth.ErrInvalidToken
	}
	return Session{
		Token:     token,
		UserID:    user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}, nil
}

// ── Documents ──

func (s *Service) CreateDocument(ctx context.Context, session Session, title, content string, isPublic bool) (map[string]any, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domainError(http.StatusBadRequest, "VALIDATION_ERROR", "title is required", nil)
	}

	doc, err := s.store.CreateDocument(ctx, store.Document{
		ID:       util.NewID("doc"),
		Title:    title,
		Content:  content,
		IsPublic: isPublic,
		AuthorID: session.UserID,
	})
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}

	s.search.IndexDocument(doc)
	if s.archive != nil {
		go func(doc store.Document, author string) {
			if err := s.archive.EnsureRepo(doc.ID, archive.Snapshot{
				Title:   doc.Title,
				Content: doc.Content,
				Version: doc.Version,
				Summary: "Initial version",
			}, author); err != nil {
				log.Printf("archive init for %s: %v", doc.ID, err)
			}
		}(doc, session.displayName())
	}

	return map[string]any{"document": documentPayload(doc)}, nil
}

// loadDocumentForViewer fetches a document and the viewer's share row, then
// applies the view policy. Anonymous viewers denied on a private document get
// 401 rather than 403 so clients know signing in could help.
func (s *Service) loadDocumentForViewer(ctx context.Context, viewer Session, documentID string) (store.Document, *store.Share, error) {
	doc, err := s.store.GetDocument(ctx, documentID)
	if err != nil {
		return store.Document{}, nil, err
	}

	var share *store.Share
	if !viewer.anonymous() && viewer.UserID != doc.AuthorID {
		share, err = s.store.GetShare(ctx, documentID, viewer.UserID)
		if err != nil {
			return store.Document{}, nil, fmt.Errorf("load share: %w", err)
		}
	}

	if !access.CanView(viewer.UserID, doc, share) {
		if viewer.anonymous() {
			return store.Document{}, nil, domainError(http.StatusUnauthorized, "AUTHENTICATION_REQUIRED", "Authentication required", nil)
		}
		return store.Document{}, nil, domainError(http.StatusForbidden, "FORBIDDEN", "You do not have access to this document", nil)
	}
	return doc, share, nil
}

func (s *Service) GetDocument(ctx context.Context, viewer Session, documentID string) (map[string]any, error) {
	doc, share, err := s.loadDocumentForViewer(ctx, viewer, documentID)
	if err != nil {
		return nil, err
	}

	payload := documentPayload(doc)
	if share != nil {
		payload["permission"] = share.Permission
	}
	return map[string]any{"document": payload}, nil
}

func (s *Service) ListDocuments(ctx context.Context, session Session) (map[string]any, error) {
	documents, err := s.store.ListDocumentsForUser(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	items := make([]map[string]any, 0, len(documents))
	for _, doc := range documents {
		items = append(items, documentPayload(doc))
	}
	return map[string]any{"documents": items}, nil
}

func (s *Service) UpdateDocument(ctx context.Context, session Session, documentID string, input UpdateDocumentInput) (map[string]any, error) {
	if input.Title == nil && input.Content == nil && input.IsPublic == nil {
		return nil, domainError(http.StatusBadRequest, "VALIDATION_ERROR", "nothing to update", nil)
	}
	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		return nil, domainError(http.StatusBadRequest, "VALIDATION_ERROR", "title cannot be empty", nil)
	}

	doc, share, err := s.loadDocumentForViewer(ctx, session, documentID)
	if err != nil {
		return nil, err
	}
	if !access.CanEdit(session.UserID, doc, share) {
		return nil, domainError(http.StatusForbidden, "FORBIDDEN", "You do not have edit access to this document", nil)
	}

	updated, snapshotted, err := s.store.UpdateDocument(ctx, documentID, store.DocumentUpdate{
		Title:    input.Title,
		Content:  input.Content,
		IsPublic: input.IsPublic,
	}, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("update document: %w", err)
	}

	s.search.IndexDocument(updated)
	if snapshotted && s.archive != nil {
		go func(doc store.Document, author string) {
			if _, err := s.archive.CommitSnapshot(doc.ID, archive.Snapshot{
				Title:   doc.Title,
				Content: doc.Content,
				Version: doc.Version,
				Summary: "Content updated",
			}, author); err != nil {
				log.Printf("archive commit for %s: %v", doc.ID, err)
			}
		}(updated, session.displayName())
	}

	return map[string]any{"document": documentPayload(updated)}, nil
}

func (s *Service) DeleteDocument(ctx context.Context, session Session, documentID string) error {
	doc, err := s.store.GetDocument(ctx, documentID)
	if err != nil {
		return err
	}
	if !access.CanManage(session.UserID, doc) {
		return domainError(http.StatusForbidden, "FORBIDDEN", "Only the author can delete a document", nil)
	}

	if err := s.store.DeleteDocument(ctx, documentID); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	s.search.DeleteDocument(documentID)
	if s.archive != nil {
		go func(id string) {
			if err := s.archive.Remove(id); err != nil {
				log.Printf("archive remove for %s: %v", id, err)
			}
		}(documentID)
	}
	if s.attach != nil {
		go func(id string) {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := s.attach.RemovePrefix(ctx, "documents/"+id); err != nil {
				log.Printf("attachment cleanup for %s: %v", id, err)
			}
		}(documentID)
	}
	return nil
}

// ── Shares ──

func (s *Service) ShareDocument(ctx context.Context, session Session, documentID, userEmail, permission string) (map[string]any, error) {
	perm := access.Permission(permission)
	if !perm.Valid() {
		return nil, domainError(http.StatusBadRequest, "VALIDATION_ERROR", "permission must be 'view' or 'edit'", nil)
	}

	doc, err := s.store.GetDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if !access.CanManage(session.UserID, doc) {
		return nil, domainError(http.StatusForbidden, "FORBIDDEN", "Only the author can share a document", nil)
	}

	target, err := s.store.GetUserByEmail(ctx, strings.TrimSpace(userEmail))
	if err != nil {
		return nil, domainError(http.StatusNotFound, "USER_NOT_FOUND", "No user with that email", nil)
	}

	share, err := s.store.UpsertShare(ctx, store.Share{
		ID:         util.NewID("shr"),
		DocumentID: documentID,
		UserID:     target.ID,
		Permission: string(perm),
		SharedBy:   session.UserID,
	})
	if err != nil {
		return nil, fmt.Errorf("upsert share: %w", err)
	}

	if s.email != nil && s.email.IsConfigured() {
		documentURL := s.cfg.AppBaseURL + "/documents/" + documentID
		go func(to, userName, ownerName, title, permission, url string) {
			if err := s.email.SendShareNoticeEmail(to, userName, ownerName, title, permission, url); err != nil {
				log.Printf("send share notice: %v", err)
			}
		}(target.Email, target.FirstName, session.displayName(), doc.Title, string(perm), documentURL)
	}

	return map[string]any{"share": sharePayload(share)}, nil
}

func (s *Service) ListShares(ctx context.Context, session Session, documentID string) (map[string]any, error) {
	doc, err := s.store.GetDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if !access.CanManage(session.UserID, doc) {
		return nil, domainError(http.StatusForbidden, "FORBIDDEN", "Only the author can list shares", nil)
	}

	shares, err := s.store.ListShares(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("list shares: %w", err)
	}
	items := make([]map[string]any, 0, len(shares))
	for _, share := range shares {
		items = append(items, sharePayload(share))
	}
	return map[string]any{"shares": items}, nil
}

// RevokeShare is idempotent: revoking an absent share succeeds.
func (s *Service) RevokeShare(ctx context.Context, session Session, documentID, userID string) error {
	doc, err := s.store.GetDocument(ctx, documentID)
	if err != nil {
		return err
	}
	if !access.CanManage(session.UserID, doc) {
		return domainError(http.StatusForbidden, "FORBIDDEN", "Only the author can revoke shares", nil)
	}
	if err := s.store.DeleteShare(ctx, documentID, userID); err != nil {
		return fmt.Errorf("delete share: %w", err)
	}
	return nil
}

// ── Versions ──

func (s *Service) ListVersions(ctx context.Context, session Session, documentID string) (map[string]any, error) {
	if _, _, err := s.loadDocumentForViewer(ctx, session, documentID); err != nil {
		return nil, err
	}

	versions, err := s.store.ListVersions(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	items := make([]map[string]any, 0, len(versions))
	for _, version := range versions {
		items = append(items, versionPayload(version))
	}
	return map[string]any{"versions": items}, nil
}

// ── Search ──

func (s *Service) Search(ctx context.Context, session Session, query string) (map[string]any, error) {
	response, err := s.search.Search(ctx, session.UserID, query)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	items := make([]map[string]any, 0, len(response.Results))
	for _, result := range response.Results {
		payload := documentPayload(result.Document)
		payload["titleMatch"] = result.TitleMatch
		payload["contentMatch"] = result.ContentMatch
		payload["snippet"] = result.Snippet
		items = append(items, payload)
	}
	return map[string]any{
		"results": items,
		"total":   response.Total,
		"query":   response.Query,
	}, nil
}

// SearchUsers is the mention-candidate lookup. It shares the minimum query
// length with document search and never returns the caller.
func (s *Service) SearchUsers(ctx context.Context, session Session, query string) (map[string]any, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < search.MinQueryLength {
		return map[string]any{"users": []map[string]any{}}, nil
	}

	users, err := s.store.SearchUsers(ctx, query, session.UserID, 10)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	items := make([]map[string]any, 0, len(users))
	for _, user := range users {
		items = append(items, userPayload(user))
	}
	return map[string]any{"users": items}, nil
}

// ── Export ──

func (s *Service) ExportDocument(ctx context.Context, viewer Session, documentID string, format export.Format) (*export.Result, error) {
	doc, _, err := s.loadDocumentForViewer(ctx, viewer, documentID)
	if err != nil {
		return nil, err
	}

	result, err := s.export.Export(doc, format)
	if err != nil {
		if errors.Is(err, export.ErrUnsupportedFormat) {
			return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "format must be 'markdown', 'html' or 'pdf'", nil)
		}
		if errors.Is(err, export.ErrPDFDependencyMissing) {
			return nil, domainError(http.StatusServiceUnavailable, "EXPORT_UNAVAILABLE", "PDF export is not available on this server", nil)
		}
		return nil, fmt.Errorf("export document: %w", err)
	}
	return result, nil
}

// ── Attachments ──

func (s *Service) UploadAttachment(ctx context.Context, session Session, documentID, filename, contentType string, size int64, body io.Reader) (map[string]any, error) {
	if s.attach == nil {
		return nil, domainError(http.StatusServiceUnavailable, "ATTACHMENTS_UNAVAILABLE", "Attachment storage not configured", nil)
	}
	if strings.TrimSpace(filename) == "" {
		return nil, domainError(http.StatusBadRequest, "VALIDATION_ERROR", "filename is required", nil)
	}

	doc, share, err := s.loadDocumentForViewer(ctx, session, documentID)
	if err != nil {
		return nil, err
	}
	if !access.CanEdit(session.UserID, doc, share) {
		return nil, domainError(http.StatusForbidden, "FORBIDDEN", "You do not have edit access to this document", nil)
	}

	attachmentID := util.NewID("att")
	key := attach.ObjectKey(documentID, attachmentID, filename)
	if err := s.attach.Put(ctx, key, body, size, contentType); err != nil {
		return nil, fmt.Errorf("store attachment: %w", err)
	}

	item, err := s.store.InsertAttachment(ctx, store.Attachment{
		ID:          attachmentID,
		DocumentID:  documentID,
		FileName:    filename,
		ContentType: contentType,
		Size:        size,
		UploadedBy:  session.UserID,
	})
	if err != nil {
		return nil, fmt.Errorf("record attachment: %w", err)
	}
	return map[string]any{"attachment": attachmentPayload(item)}, nil
}

func (s *Service) ListAttachments(ctx context.Context, viewer Session, documentID string) (map[string]any, error) {
	if _, _, err := s.loadDocumentForViewer(ctx, viewer, documentID); err != nil {
		return nil, err
	}

	attachments, err := s.store.ListAttachments(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	items := make([]map[string]any, 0, len(attachments))
	for _, item := range attachments {
		items = append(items, attachmentPayload(item))
	}
	return map[string]any{"attachments": items}, nil
}

// PresignAttachment returns a short-lived direct download URL for an
// attachment, so large files stream from object storage instead of through
// the API process.
func (s *Service) PresignAttachment(ctx context.Context, viewer Session, documentID, attachmentID string) (map[string]any, error) {
	if s.attach == nil {
		return nil, domainError(http.StatusServiceUnavailable, "ATTACHMENTS_UNAVAILABLE", "Attachment storage not configured", nil)
	}

	if _, _, err := s.loadDocumentForViewer(ctx, viewer, documentID); err != nil {
		return nil, err
	}

	item, err := s.store.GetAttachment(ctx, documentID, attachmentID)
	if err != nil {
		return nil, err
	}

	const expiry = 15 * time.Minute
	key := attach.ObjectKey(documentID, item.ID, item.FileName)
	url, err := s.attach.PresignGet(ctx, key, item.FileName, expiry)
	if err != nil {
		return nil, fmt.Errorf("presign attachment: %w", err)
	}
	return map[string]any{
		"url":       url,
		"expiresAt": time.Now().Add(expiry),
	}, nil
}

// OpenAttachment returns the attachment row and its content stream. The
// caller owns closing the stream.
func (s *Service) OpenAttachment(ctx context.Context, viewer Session, documentID, attachmentID string) (store.Attachment, io.ReadCloser, error) {
	if s.attach == nil {
		return store.Attachment{}, nil, domainError(http.StatusServiceUnavailable, "ATTACHMENTS_UNAVAILABLE", "Attachment storage not configured", nil)
	}

	if _, _, err := s.loadDocumentForViewer(ctx, viewer, documentID); err != nil {
		return store.Attachment{}, nil, err
	}

	item, err := s.store.GetAttachment(ctx, documentID, attachmentID)
	if err != nil {
		return store.Attachment{}, nil, err
	}

	key := attach.ObjectKey(documentID, item.ID, item.FileName)
	body, err := s.attach.Get(ctx, key)
	if err != nil {
		return store.Attachment{}, nil, fmt.Errorf("open attachment: %w", err)
	}
	return item, body, nil
}

// ── Archive ──

// ArchiveHistory lists the git-backed snapshot trail for a document, newest
// first. Documents created before the archive was enabled have no repository
// yet, which reads as an empty history rather than an error.
func (s *Service) ArchiveHistory(ctx context.Context, viewer Session, documentID string) (map[string]any, error) {
	if s.archive == nil {
		return nil, domainError(http.StatusServiceUnavailable, "ARCHIVE_UNAVAILABLE", "Document archive not configured", nil)
	}

	if _, _, err := s.loadDocumentForViewer(ctx, viewer, documentID); err != nil {
		return nil, err
	}

	commits, err := s.archive.History(documentID, 50)
	if errors.Is(err, archive.ErrNoArchive) {
		commits = nil
	} else if err != nil {
		return nil, fmt.Errorf("archive history: %w", err)
	}

	items := make([]archive.CommitInfo, 0, len(commits))
	items = append(items, commits...)
	return map[string]any{"commits": items}, nil
}

func (s *Service) ArchiveSnapshot(ctx context.Context, viewer Session, documentID, hash string) (map[string]any, error) {
	if s.archive == nil {
		return nil, domainError(http.StatusServiceUnavailable, "ARCHIVE_UNAVAILABLE", "Document archive not configured", nil)
	}

	if _, _, err := s.loadDocumentForViewer(ctx, viewer, documentID); err != nil {
		return nil, err
	}

	snapshot, err := s.archive.SnapshotAt(documentID, hash)
	if errors.Is(err, archive.ErrNoArchive) || errors.Is(err, archive.ErrUnknownRevision) {
		return nil, domainError(http.StatusNotFound, "NOT_FOUND", "Archive revision not found", nil)
	}
	if err != nil {
		return nil, fmt.Errorf("archive snapshot: %w", err)
	}

	return map[string]any{
		"snapshot": map[string]any{
			"title":   snapshot.Title,
			"content": snapshot.Content,
			"version": snapshot.Version,
			"summary": snapshot.Summary,
		},
	}, nil
}

// ── Health ──

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s Session) displayName() string {
	name := strings.TrimSpace(s.FirstName + " " + s.LastName)
	if name == "" {
		return s.Email
	}
	return name
}

// ── Payload shaping ──

func userPayload(user store.User) map[string]any {
	payload := map[string]any{
		"id":        user.ID,
		"email":     user.Email,
		"firstName": user.FirstName,
		"lastName":  user.LastName,
		"createdAt": user.CreatedAt,
	}
	if user.LastLogin != nil {
		payload["lastLogin"] = *user.LastLogin
	}
	return payload
}

func documentPayload(doc store.Document) map[string]any {
	return map[string]any{
		"id":        doc.ID,
		"title":     doc.Title,
		"content":   doc.Content,
		"isPublic":  doc.IsPublic,
		"authorId":  doc.AuthorID,
		"version":   doc.Version,
		"createdAt": doc.CreatedAt,
		"updatedAt": doc.UpdatedAt,
		"author": map[string]any{
			"email":     doc.AuthorEmail,
			"firstName": doc.AuthorFirstName,
			"lastName":  doc.AuthorLastName,
		},
	}
}

func sharePayload(share store.Share) map[string]any {
	return map[string]any{
		"id":         share.ID,
		"documentId": share.DocumentID,
		"userId":     share.UserID,
		"permission": share.Permission,
		"sharedBy":   share.SharedBy,
		"createdAt":  share.CreatedAt,
		"user": map[string]any{
			"email":     share.UserEmail,
			"firstName": share.UserFirstName,
			"lastName":  share.UserLastName,
		},
		"sharedByUser": map[string]any{
			"email":     share.SharedByEmail,
			"firstName": share.SharedByFirstName,
			"lastName":  share.SharedByLastName,
		},
	}
}

func versionPayload(version store.Version) map[string]any {
	return map[string]any{
		"id":            version.ID,
		"documentId":    version.DocumentID,
		"versionNumber": version.VersionNumber,
		"title":         version.Title,
		"content":       version.Content,
		"createdBy":     version.CreatedBy,
		"createdAt":     version.CreatedAt,
		"changeSummary": version.ChangeSummary,
		"creator": map[string]any{
			"email":     version.CreatedByEmail,
			"firstName": version.CreatedByFirstName,
			"lastName":  version.CreatedByLastName,
		},
	}
}

func attachmentPayload(item store.Attachment) map[string]any {
	return map[string]any{
		"id":          item.ID,
		"documentId":  item.DocumentID,
		"fileName":    item.FileName,
		"contentType": item.ContentType,
		"size":        item.Size,
		"uploadedBy":  item.UploadedBy,
		"createdAt":   item.CreatedAt,
	}
}
