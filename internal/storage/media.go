package storage

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp"

	"comicshare/internal/apperr"
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Media is an uploaded image that passed inspection, buffered for upload.
type Media struct {
	ContentType string
	Width       int
	Height      int
	data        []byte
}

func (m *Media) Size() int64 { return int64(len(m.data)) }

func (m *Media) Reader() io.Reader { return bytes.NewReader(m.data) }

// Inspect reads at most maxSize bytes from r, sniffs the content type and
// decodes the image header. Anything that is not a supported image is a
// validation error.
func Inspect(r io.Reader, maxSize int64) (*Media, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > maxSize {
		return nil, apperr.Validation(fmt.Sprintf("file exceeds the %s upload limit", humanize.IBytes(uint64(maxSize))))
	}
	if len(data) == 0 {
		return nil, apperr.Validation("file is empty")
	}

	mtype := mimetype.Detect(data)
	contentType := mtype.String()
	if parent := mtype.Parent(); parent != nil && !allowedImageTypes[contentType] {
		contentType = parent.String()
	}
	if !allowedImageTypes[contentType] {
		return nil, apperr.Validation(fmt.Sprintf("unsupported file type %s", mtype.String()))
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, apperr.Validation("image could not be decoded")
	}

	return &Media{
		ContentType: contentType,
		Width:       cfg.Width,
		Height:      cfg.Height,
		data:        data,
	}, nil
}
