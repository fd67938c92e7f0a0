package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"inkwell/api/internal/util"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicate reports a unique-constraint violation on insert.
var ErrDuplicate = errors.New("duplicate row")

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// likePattern wraps a user query for ILIKE, escaping the pattern
// metacharacters so `%` and `_` in the query match literally.
func likePattern(query string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(query)
	return "%" + escaped + "%"
}

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// ---- users ----

func (s *PostgresStore) CreateUser(ctx context.Context, user User) (User, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (id, email, password_hash, first_name, last_name)
		VALUES ($1, LOWER($2), $3, $4, $5)
		RETURNING created_at
	`, user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName).Scan(&user.CreatedAt)
	if isUniqueViolation(err) {
		return User{}, ErrDuplicate
	}
	if err != nil {
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var user User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, first_name, last_name, created_at, last_login
		FROM users
		WHERE email = LOWER($1)
	`, email).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName, &user.CreatedAt, &user.LastLogin)
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func (s *PostgresStore) GetUserByID(ctx context.Context, userID string) (User, error) {
	var user User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, first_name, last_name, created_at, last_login
		FROM users
		WHERE id = $1
	`, userID).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName, &user.CreatedAt, &user.LastLogin)
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func (s *PostgresStore) TouchLastLogin(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE users SET last_login = NOW() WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateUserPassword(ctx context.Context, userID, passwordHash string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1`, userID, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// SearchUsers matches email or name case-insensitively, excluding the caller.
func (s *PostgresStore) SearchUsers(ctx context.Context, query, excludeUserID string, limit int) ([]User, error) {
	pattern := likePattern(query)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, email, first_name, last_name, created_at
		FROM users
		WHERE id <> $2
			AND (email ILIKE $1 OR first_name ILIKE $1 OR last_name ILIKE $1)
		ORDER BY email
		LIMIT $3
	`, pattern, excludeUserID, limit)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	defer rows.Close()

	items := make([]User, 0)
	for rows.Next() {
		var user User
		if err := rows.Scan(&user.ID, &user.Email, &user.FirstName, &user.LastName, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		items = append(items, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return items, nil
}

// ---- documents ----

const documentColumns = `
	d.id, d.title, d.content, d.is_public, d.author_id, d.version, d.created_at, d.updated_at,
	u.email, u.first_name, u.last_name
`

func scanDocument(row interface{ Scan(...any) error }) (Document, error) {
	var item Document
	err := row.Scan(
		&item.ID, &item.Title, &item.Content, &item.IsPublic, &item.AuthorID,
		&item.Version, &item.CreatedAt, &item.UpdatedAt,
		&item.AuthorEmail, &item.AuthorFirstName, &item.AuthorLastName,
	)
	return item, err
}

// CreateDocument inserts the document row and its first version snapshot in
// one transaction so the two can never diverge.
func (s *PostgresStore) CreateDocument(ctx context.Context, item Document) (Document, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Document{}, fmt.Errorf("begin create document: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO documents (id, title, content, is_public, author_id, version)
		VALUES ($1, $2, $3, $4, $5, 1)
		RETURNING created_at, updated_at
	`, item.ID, item.Title, item.Content, item.IsPublic, item.AuthorID).Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return Document{}, fmt.Errorf("insert document: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO document_versions (id, document_id, version_number, title, content, created_by, change_summary)
		VALUES ($1, $2, 1, $3, $4, $5, 'Initial version')
	`, util.NewID("ver"), item.ID, item.Title, item.Content, item.AuthorID); err != nil {
		return Document{}, fmt.Errorf("insert initial version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Document{}, fmt.Errorf("commit create document: %w", err)
	}
	item.Version = 1
	return s.GetDocument(ctx, item.ID)
}

func (s *PostgresStore) GetDocument(ctx context.Context, documentID string) (Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+documentColumns+`
		FROM documents d
		JOIN users u ON u.id = d.author_id
		WHERE d.id = $1
	`, documentID)
	return scanDocument(row)
}

// ListDocumentsForUser returns the union of documents the user authored and
// documents shared with them, most recently updated first.
func (s *PostgresStore) ListDocumentsForUser(ctx context.Context, userID string) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+documentColumns+`
		FROM documents d
		JOIN users u ON u.id = d.author_id
		WHERE d.author_id = $1
			OR EXISTS (SELECT 1 FROM shares sh WHERE sh.document_id = d.id AND sh.user_id = $1)
		ORDER BY d.updated_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()
	return collectDocuments(rows)
}

// ListAllDocuments streams every document, oldest first. Used to rebuild the
// search index at startup.
func (s *PostgresStore) ListAllDocuments(ctx context.Context) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+documentColumns+`
		FROM documents d
		JOIN users u ON u.id = d.author_id
		ORDER BY d.created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list all documents: %w", err)
	}
	defer rows.Close()
	return collectDocuments(rows)
}

// UpdateDocument applies a partial update inside a transaction. The version
// counter is bumped on every accepted update; a snapshot is appended only
// when content is present and actually changed. Returns the updated document
// and whether a snapshot was written.
func (s *PostgresStore) UpdateDocument(ctx context.Context, documentID string, update DocumentUpdate, editorID string) (Document, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Document{}, false, fmt.Errorf("begin update document: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var prior Document
	err = tx.QueryRowContext(ctx, `
		SELECT title, content, is_public, version
		FROM documents
		WHERE id = $1
		FOR UPDATE
	`, documentID).Scan(&prior.Title, &prior.Content, &prior.IsPublic, &prior.Version)
	if err != nil {
		return Document{}, false, err
	}

	title := prior.Title
	if update.Title != nil {
		title = *update.Title
	}
	content := prior.Content
	if update.Content != nil {
		content = *update.Content
	}
	isPublic := prior.IsPublic
	if update.IsPublic != nil {
		isPublic = *update.IsPublic
	}
	newVersion := prior.Version + 1

	if _, err := tx.ExecContext(ctx, `
		UPDATE documents
		SET title=$2, content=$3, is_public=$4, version=$5, updated_at=NOW()
		WHERE id=$1
	`, documentID, title, content, isPublic, newVersion); err != nil {
		return Document{}, false, fmt.Errorf("update document: %w", err)
	}

	snapshotted := update.Content != nil && *update.Content != prior.Content
	if snapshotted {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO document_versions (id, document_id, version_number, title, content, created_by, change_summary)
			VALUES ($1, $2, $3, $4, $5, $6, 'Content updated')
		`, util.NewID("ver"), documentID, newVersion, title, content, editorID); err != nil {
			return Document{}, false, fmt.Errorf("insert version snapshot: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Document{}, false, fmt.Errorf("commit update document: %w", err)
	}

	item, err := s.GetDocument(ctx, documentID)
	if err != nil {
		return Document{}, false, err
	}
	return item, snapshotted, nil
}

// DeleteDocument removes the row; shares, versions, and attachment records go
// with it via ON DELETE CASCADE.
func (s *PostgresStore) DeleteDocument(ctx context.Context, documentID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, documentID)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete document result: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ---- shares ----

// GetShare returns nil without error when no grant exists.
func (s *PostgresStore) GetShare(ctx context.Context, documentID, userID string) (*Share, error) {
	var item Share
	err := s.db.QueryRowContext(ctx, `
		SELECT id, document_id, user_id, permission, shared_by, created_at
		FROM shares
		WHERE document_id = $1 AND user_id = $2
	`, documentID, userID).Scan(&item.ID, &item.DocumentID, &item.UserID, &item.Permission, &item.SharedBy, &item.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get share: %w", err)
	}
	return &item, nil
}

// UpsertShare inserts or overwrites the grant for (document_id, user_id);
// last write wins.
func (s *PostgresStore) UpsertShare(ctx context.Context, item Share) (Share, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO shares (id, document_id, user_id, permission, shared_by)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (document_id, user_id)
			DO UPDATE SET permission = EXCLUDED.permission, shared_by = EXCLUDED.shared_by
		RETURNING id, created_at
	`, item.ID, item.DocumentID, item.UserID, item.Permission, item.SharedBy).Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		return Share{}, fmt.Errorf("upsert share: %w", err)
	}
	return item, nil
}

func (s *PostgresStore) ListShares(ctx context.Context, documentID string) ([]Share, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sh.id, sh.document_id, sh.user_id, sh.permission, sh.shared_by, sh.created_at,
			grantee.email, grantee.first_name, grantee.last_name,
			granter.email, granter.first_name, granter.last_name
		FROM shares sh
		JOIN users grantee ON grantee.id = sh.user_id
		JOIN users granter ON granter.id = sh.shared_by
		WHERE sh.document_id = $1
		ORDER BY sh.created_at
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("list shares: %w", err)
	}
	defer rows.Close()

	items := make([]Share, 0)
	for rows.Next() {
		var item Share
		if err := rows.Scan(
			&item.ID, &item.DocumentID, &item.UserID, &item.Permission, &item.SharedBy, &item.CreatedAt,
			&item.UserEmail, &item.UserFirstName, &item.UserLastName,
			&item.SharedByEmail, &item.SharedByFirstName, &item.SharedByLastName,
		); err != nil {
			return nil, fmt.Errorf("scan share: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shares: %w", err)
	}
	return items, nil
}

// DeleteShare is idempotent; revoking an absent grant is not an error.
func (s *PostgresStore) DeleteShare(ctx context.Context, documentID, userID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM shares WHERE document_id = $1 AND user_id = $2`, documentID, userID)
	if err != nil {
		return fmt.Errorf("delete share: %w", err)
	}
	return nil
}

// ---- versions ----

func (s *PostgresStore) ListVersions(ctx context.Context, documentID string) ([]Version, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT v.id, v.document_id, v.version_number, v.title, v.content, v.created_by, v.created_at, v.change_summary,
			u.email, u.first_name, u.last_name
		FROM document_versions v
		JOIN users u ON u.id = v.created_by
		WHERE v.document_id = $1
		ORDER BY v.version_number DESC
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()

	items := make([]Version, 0)
	for rows.Next() {
		var item Version
		if err := rows.Scan(
			&item.ID, &item.DocumentID, &item.VersionNumber, &item.Title, &item.Content,
			&item.CreatedBy, &item.CreatedAt, &item.ChangeSummary,
			&item.CreatedByEmail, &item.CreatedByFirstName, &item.CreatedByLastName,
		); err != nil {
			return nil, fmt.Errorf("scan version: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate versions: %w", err)
	}
	return items, nil
}

// ---- password reset tokens ----

func (s *PostgresStore) SaveResetToken(ctx context.Context, tokenHash, userID string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO password_reset_tokens (id, user_id, token_hash, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (token_hash) DO UPDATE SET user_id = EXCLUDED.user_id, expires_at = EXCLUDED.expires_at
	`, util.NewID("prt"), userID, tokenHash, expiresAt)
	if err != nil {
		return fmt.Errorf("save reset token: %w", err)
	}
	return nil
}

func (s *PostgresStore) LookupResetToken(ctx context.Context, tokenHash string) (string, error) {
	var userID string
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id
		FROM password_reset_tokens
		WHERE token_hash = $1 AND expires_at > NOW()
	`, tokenHash).Scan(&userID)
	if err != nil {
		return "", err
	}
	return userID, nil
}

// ConsumeResetToken deletes the row; reset tokens are single use.
func (s *PostgresStore) ConsumeResetToken(ctx context.Context, tokenHash string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM password_reset_tokens WHERE token_hash = $1`, tokenHash)
	if err != nil {
		return fmt.Errorf("consume reset token: %w", err)
	}
	return nil
}

// ---- search ----

// SearchDocuments returns viewable documents whose title or content contains
// the query, case-insensitively, most recently updated first. Visibility is
// evaluated in SQL with the same rule the access package applies in memory.
func (s *PostgresStore) SearchDocuments(ctx context.Context, userID, query string, limit int) ([]Document, error) {
	pattern := likePattern(query)
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+documentColumns+`
		FROM documents d
		JOIN users u ON u.id = d.author_id
		WHERE (d.is_public
				OR d.author_id = $2
				OR EXISTS (SELECT 1 FROM shares sh WHERE sh.document_id = d.id AND sh.user_id = $2))
			AND (d.title ILIKE $1 OR d.content ILIKE $1)
		ORDER BY d.updated_at DESC
		LIMIT $3
	`, pattern, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}
	defer rows.Close()
	return collectDocuments(rows)
}

// GetDocumentsByIDs loads documents by id, restricted to those the user may
// view. Used by the search accelerator path.
func (s *PostgresStore) GetDocumentsByIDs(ctx context.Context, userID string, ids []string) ([]Document, error) {
	if len(ids) == 0 {
		return []Document{}, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+documentColumns+`
		FROM documents d
		JOIN users u ON u.id = d.author_id
		WHERE d.id = ANY($1)
			AND (d.is_public
				OR d.author_id = $2
				OR EXISTS (SELECT 1 FROM shares sh WHERE sh.document_id = d.id AND sh.user_id = $2))
		ORDER BY d.updated_at DESC
	`, ids, userID)
	if err != nil {
		return nil, fmt.Errorf("load documents by id: %w", err)
	}
	defer rows.Close()
	return collectDocuments(rows)
}

func collectDocuments(rows *sql.Rows) ([]Document, error) {
	items := make([]Document, 0)
	for rows.Next() {
		item, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return items, nil
}

// ---- attachments ----

func (s *PostgresStore) InsertAttachment(ctx context.Context, item Attachment) (Attachment, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO attachments (id, document_id, file_name, content_type, size, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, item.ID, item.DocumentID, item.FileName, item.ContentType, item.Size, item.UploadedBy).Scan(&item.CreatedAt)
	if err != nil {
		return Attachment{}, fmt.Errorf("insert attachment: %w", err)
	}
	return item, nil
}

func (s *PostgresStore) GetAttachment(ctx context.Context, documentID, attachmentID string) (Attachment, error) {
	var item Attachment
	err := s.db.QueryRowContext(ctx, `
		SELECT id, document_id, file_name, content_type, size, uploaded_by, created_at
		FROM attachments
		WHERE document_id = $1 AND id = $2
	`, documentID, attachmentID).Scan(&item.ID, &item.DocumentID, &item.FileName, &item.ContentType, &item.Size, &item.UploadedBy, &item.CreatedAt)
	if err != nil {
		return Attachment{}, err
	}
	return item, nil
}

func (s *PostgresStore) ListAttachments(ctx context.Context, documentID string) ([]Attachment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document_id, file_name, content_type, size, uploaded_by, created_at
		FROM attachments
		WHERE document_id = $1
		ORDER BY created_at
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	defer rows.Close()

	items := make([]Attachment, 0)
	for rows.Next() {
		var item Attachment
		if err := rows.Scan(&item.ID, &item.DocumentID, &item.FileName, &item.ContentType, &item.Size, &item.UploadedBy, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan attachment: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attachments: %w", err)
	}
	return items, nil
}
