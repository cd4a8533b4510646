package models

import "time"

// VirtualRootID is the literal folder id clients use to address their own
// top-level namespace. It is never persisted; see FolderRef.
const VirtualRootID = "root"

// VirtualRootName is the display name of the synthesized root folder.
const VirtualRootName = "My Drive"

type Folder struct {
	ID        string     `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	ParentID  *string    `json:"parent_id" db:"parent_id"` // NULL = top level
	OwnerID   string     `json:"owner_id" db:"owner_id"`
	IsPublic  bool       `json:"is_public" db:"is_public"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// FolderRef distinguishes a persisted folder from a user's virtual root.
// The root folder is synthesized per request and scoped to its owner, so
// cache keys derived from a ref must never collide across users.
type FolderRef struct {
	ID      string // persisted folder id; empty for a virtual root
	OwnerID string // owning user for a virtual root; empty otherwise
}

// RealFolder returns a ref to a persisted folder.
func RealFolder(id string) FolderRef {
	return FolderRef{ID: id}
}

// VirtualRoot returns a ref to userID's synthesized top-level folder.
func VirtualRoot(userID string) FolderRef {
	return FolderRef{OwnerID: userID}
}

// IsVirtualRoot reports whether the ref addresses a synthesized root.
func (r FolderRef) IsVirtualRoot() bool {
	return r.ID == ""
}

// CacheKey returns the cache key segment for this ref. Virtual roots embed
// the owner id so per-user root listings never share an entry.
func (r FolderRef) CacheKey() string {
	if r.IsVirtualRoot() {
		return VirtualRootID + ":" + r.OwnerID
	}
	return r.ID
}

// SyntheticRoot materializes the virtual root folder for a user. It is never
// written to the store; its children are rows with a NULL parent owned by the
// user.
func SyntheticRoot(userID string) *Folder {
	now := time.Now()
	return &Folder{
		ID:        VirtualRootID,
		Name:      VirtualRootName,
		ParentID:  nil,
		OwnerID:   userID,
		IsPublic:  false,
		CreatedAt: &now,
	}
}

type CreateFolderRequest struct {
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id,omitempty"` // nil or "root" = virtual root
	IsPublic *bool   `json:"is_public,omitempty"`
}

// FolderListing is the orchestrator's response: the folder itself plus its
// immediate children.
type FolderListing struct {
	Folder     *Folder  `json:"folder"`
	Subfolders []Folder `json:"subfolders"`
	Files      []File   `json:"files"`
}
