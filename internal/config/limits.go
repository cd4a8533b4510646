package config

const (
	// MaxNameLength is the maximum length for folder and file names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxNameLength = 255

	// MaxMimeTypeLength bounds the declared MIME type of an upload.
	MaxMimeTypeLength = 255

	// MinPasswordLength and MaxPasswordLength bound account passwords.
	// The upper bound keeps bcrypt input well under its 72-byte limit
	// ceiling for multibyte input.
	MinPasswordLength = 8
	MaxPasswordLength = 64
)
