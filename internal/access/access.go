// Package access is the single policy point deciding what a user may do with
// a document. Every handler consults it on every request; decisions are never
// cached because ownership and shares can change between calls.
package access

import "inkwell/api/internal/store"

type Permission string

const (
	PermissionView Permission = "view"
	PermissionEdit Permission = "edit"
)

// Valid reports whether p is a grantable share permission.
func (p Permission) Valid() bool {
	return p == PermissionView || p == PermissionEdit
}

// CanView allows public documents for anyone, plus the author and any user
// holding a share of either permission. userID is empty for anonymous
// callers, who can only pass via the public branch.
func CanView(userID string, doc store.Document, share *store.Share) bool {
	if doc.IsPublic {
		return true
	}
	if userID == "" {
		return false
	}
	if userID == doc.AuthorID {
		return true
	}
	return share != nil
}

// CanEdit allows the author and holders of an edit share. Public visibility
// alone never grants edit.
func CanEdit(userID string, doc store.Document, share *store.Share) bool {
	if userID == "" {
		return false
	}
	if userID == doc.AuthorID {
		return true
	}
	return share != nil && Permission(share.Permission) == PermissionEdit
}

// CanManage covers sharing and deletion; owner only.
func CanManage(userID string, doc store.Document) bool {
	return userID != "" && userID == doc.AuthorID
}
