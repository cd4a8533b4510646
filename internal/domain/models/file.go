package models

import "time"

type File struct {
	ID         string     `json:"id" db:"id"`
	Name       string     `json:"name" db:"name"`
	FolderID   *string    `json:"folder_id" db:"folder_id"` // NULL = owner's virtual root
	OwnerID    string     `json:"owner_id" db:"owner_id"`
	StorageKey string     `json:"storage_key" db:"storage_key"` // opaque object-store locator
	Size       int64      `json:"size" db:"size"`
	MimeType   string     `json:"mime_type,omitempty" db:"mime_type"`
	IsPublic   bool       `json:"is_public" db:"is_public"`
	CreatedAt  *time.Time `json:"created_at" db:"created_at"`
}

type UploadFileRequest struct {
	Name     string  `json:"name"`
	FolderID *string `json:"folder_id,omitempty"` // nil or "root" = virtual root
	Size     int64   `json:"size"`
	MimeType string  `json:"mime_type"`
}

type UploadFileResponse struct {
	FileID       string `json:"file_id"`
	PresignedURL string `json:"presigned_url"`
	StorageKey   string `json:"storage_key"`
}

type DownloadFileResponse struct {
	URL string `json:"url"`
}
