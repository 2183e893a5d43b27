package export

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/spf13/afero"
)

// DirSaver writes each saved link into Dir on Fs.
type DirSaver struct {
	Fs    afero.Fs
	Dir   string
	Blobs BlobStore
}

func (d DirSaver) Save(ctx context.Context, link Link) error {
	data, _, err := Resolve(ctx, d.Blobs, link.Href)
	if err != nil {
		return err
	}
	if err := d.Fs.MkdirAll(d.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	return afero.WriteFile(d.Fs, filepath.Join(d.Dir, filepath.Base(link.Filename)), data, 0o644)
}

// ResponseSaver streams a saved link to an HTTP client as an attachment.
type ResponseSaver struct {
	W     http.ResponseWriter
	Blobs BlobStore
}

func (r ResponseSaver) Save(ctx context.Context, link Link) error {
	data, contentType, err := Resolve(ctx, r.Blobs, link.Href)
	if err != nil {
		return err
	}
	h := r.W.Header()
	h.Set("Content-Type", contentType)
	h.Set("Content-Length", strconv.Itoa(len(data)))
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": link.Filename}))
	h.Set("Cache-Control", "no-store")
	r.W.WriteHeader(http.StatusOK)
	if _, err := r.W.Write(data); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}
