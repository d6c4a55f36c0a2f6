package service

import (
	"context"
	"io"

	"comicshare/internal/storage"
)

// storeImage validates r as an image no larger than maxSize and uploads it
// under key.
func storeImage(ctx context.Context, store storage.Storage, key string, r io.Reader, maxSize int64) (string, *storage.Media, error) {
	media, err := storage.Inspect(r, maxSize)
	if err != nil {
		return "", nil, err
	}

	url, err := store.Upload(ctx, key, media.Reader(), media.Size(), media.ContentType)
	if err != nil {
		return "", nil, err
	}
	return url, media, nil
}
