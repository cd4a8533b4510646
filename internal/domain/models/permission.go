package models

import "time"

// Grant levels. Viewer and editor both satisfy reads; only editor satisfies
// writes (creating children). Grants are additive and do not cascade to
// descendant folders.
const (
	PermissionViewer = "viewer"
	PermissionEditor = "editor"
)

// FolderPermission is an explicit (folder, user, level) grant.
type FolderPermission struct {
	ID         string     `json:"id" db:"id"`
	FolderID   string     `json:"folder_id" db:"folder_id"`
	UserID     string     `json:"user_id" db:"user_id"`
	Permission string     `json:"permission" db:"permission"`
	CreatedAt  *time.Time `json:"created_at" db:"created_at"`
}

type ShareFolderRequest struct {
	UserID     string `json:"user_id"`
	Permission string `json:"permission"`
}

// AllowsRead reports whether the level satisfies read access.
func AllowsRead(level string) bool {
	return level == PermissionViewer || level == PermissionEditor
}

// AllowsWrite reports whether the level satisfies write access.
func AllowsWrite(level string) bool {
	return level == PermissionEditor
}
