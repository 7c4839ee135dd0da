package domain

import "context"

// Upload is an image file received alongside a request.
type Upload struct {
	Filename string // Original client-side filename
	Data     []byte
}

// FileStore abstracts raw file byte storage.
// The default implementation stores BLOBs in SQLite; MinIO is available
// for deployments that keep uploads in object storage.
type FileStore interface {
	Save(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
