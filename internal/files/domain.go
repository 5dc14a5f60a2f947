package files

import (
	"errors"
	"time"
)

// ErrTooLarge indicates a declared size over the configured limit.
var ErrTooLarge = errors.New("file exceeds the size limit")

// File is stored object metadata. The bytes themselves live in external
// storage addressed by ObjectKey.
type File struct {
	ID         int64
	ClubID     *int64
	OwnerID    int64
	Name       string
	ObjectKey  string
	MimeType   string
	SizeBytes  int64
	UploadedAt time.Time
}
