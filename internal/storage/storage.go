package storage

import (
	"context"
	"time"
)

type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified *time.Time
}

// Service persists weather record snapshots in remote object storage.
type Service interface {
	// Upload writes body to bucket/key and returns the object location.
	Upload(ctx context.Context, bucket, key string, body []byte) (string, error)
	ListObjects(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error)
	// DeletePrefix removes every object under prefix and returns how many
	// were deleted.
	DeletePrefix(ctx context.Context, bucket, prefix string) (int, error)
}
