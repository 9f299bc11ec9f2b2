package domain

import (
	"context"
	"time"
)

// FileInfo is a stored backup artifact as seen by a Storage.
type FileInfo struct {
	Name    string
	ModTime time.Time
}

// Catalog is a location whose backups can be listed and pruned.
type Catalog interface {
	List(ctx context.Context, prefix string) ([]FileInfo, error)
	Delete(ctx context.Context, remoteName string) error
}

// Storage is a Catalog that also accepts uploads.
type Storage interface {
	Catalog
	Upload(ctx context.Context, localPath string, remoteName string) error
}

// Notifier is implemented by storages that can deliver plain text messages.
type Notifier interface {
	SendNotification(message string) error
}

// HostResolver turns a database host into the identifier used in filenames.
type HostResolver interface {
	Resolve(ctx context.Context, host string) string
}
