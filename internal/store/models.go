package store

import "time"

type User struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	CreatedAt    time.Time
	LastLogin    *time.Time
}

type Document struct {
	ID        string
	Title     string
	Content   string
	IsPublic  bool
	AuthorID  string
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
	// Joined author display fields for API responses
	AuthorEmail     string
	AuthorFirstName string
	AuthorLastName  string
}

// Share grants one non-owner user view or edit access to one document.
// Unique on (document_id, user_id); re-sharing overwrites the grant.
type Share struct {
	ID         string
	DocumentID string
	UserID     string
	Permission string // 'view' or 'edit'
	SharedBy   string
	CreatedAt  time.Time
	// Joined grantee and granter identity for API responses
	UserEmail         string
	UserFirstName     string
	UserLastName      string
	SharedByEmail     string
	SharedByFirstName string
	SharedByLastName  string
}

// Version is one immutable snapshot of a document's title and content.
// version_number is unique per document and strictly increasing.
type Version struct {
	ID            string
	DocumentID    string
	VersionNumber int
	Title         string
	Content       string
	CreatedBy     string
	CreatedAt     time.Time
	ChangeSummary string
	// Joined creator display fields
	CreatedByEmail     string
	CreatedByFirstName string
	CreatedByLastName  string
}

type PasswordReset struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

type Attachment struct {
	ID          string
	DocumentID  string
	FileName    string
	ContentType string
	Size        int64
	UploadedBy  string
	CreatedAt   time.Time
}

// DocumentUpdate carries a partial update; nil fields are left unchanged.
type DocumentUpdate struct {
	Title    *string
	Content  *string
	IsPublic *bool
}
