// Package export hands composed QR documents to a save target under a
// fixed filename, managing the transient handles a save needs.
package export

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

var (
	ErrSaveTriggerUnavailable = errors.New("no save mechanism available")
	ErrUnknownFormat          = errors.New("unknown export format")
)

// Format is an output file format.
type Format string

const (
	SVG Format = "svg"
	PNG Format = "png"
)

const (
	FilenameSVG = "qrcode.svg"
	FilenamePNG = "qrcode.png"
)

// ParseFormat accepts "svg" or "png", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case SVG:
		return SVG, nil
	case PNG:
		return PNG, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Filename is the fixed download name for f.
func (f Format) Filename() string {
	if f == PNG {
		return FilenamePNG
	}
	return FilenameSVG
}

// ContentType is the media type for f.
func (f Format) ContentType() string {
	if f == PNG {
		return "image/png"
	}
	return "image/svg+xml"
}

// Artifact is a fully composed document ready to save. It is either a
// Vector or a Raster.
type Artifact interface {
	Format() Format
	Bytes() []byte
}

type Vector struct {
	Document []byte
}

func (Vector) Format() Format  { return SVG }
func (v Vector) Bytes() []byte { return v.Document }

type Raster struct {
	Document      []byte
	Width, Height int
}

func (Raster) Format() Format  { return PNG }
func (r Raster) Bytes() []byte { return r.Document }

// Link is a one-shot save trigger: the resource at Href saved as Filename.
type Link struct {
	Href     string
	Filename string
}

// Saver performs the save a Link describes.
type Saver interface {
	Save(ctx context.Context, link Link) error
}

// SaverFunc adapts a function to Saver.
type SaverFunc func(ctx context.Context, link Link) error

func (f SaverFunc) Save(ctx context.Context, link Link) error { return f(ctx, link) }

// DataURL encodes data as a base64 data URL.
func DataURL(contentType string, data []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Resolve returns the bytes and media type behind a blob: or data: href.
func Resolve(ctx context.Context, blobs BlobStore, href string) ([]byte, string, error) {
	switch {
	case strings.HasPrefix(href, BlobScheme):
		if blobs == nil {
			return nil, "", ErrBlobNotFound
		}
		return blobs.Open(ctx, href)
	case strings.HasPrefix(href, "data:"):
		meta, payload, ok := strings.Cut(strings.TrimPrefix(href, "data:"), ",")
		if !ok {
			return nil, "", fmt.Errorf("malformed data URL")
		}
		contentType, isBase64 := strings.CutSuffix(meta, ";base64")
		if !isBase64 {
			return []byte(payload), contentType, nil
		}
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, "", fmt.Errorf("malformed data URL: %w", err)
		}
		return data, contentType, nil
	default:
		return nil, "", fmt.Errorf("unsupported href scheme in %q", href)
	}
}

// Exporter saves artifacts. Vector documents go through a transient blob
// handle that is revoked once the save has been attempted; rasters are
// saved from a data URL.
type Exporter struct {
	blobs  BlobStore
	logger *slog.Logger
}

func NewExporter(blobs BlobStore, logger *slog.Logger) *Exporter {
	if blobs == nil {
		blobs = NewMemoryBlobs()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{blobs: blobs, logger: logger}
}

// Export saves a under filename using saver.
func (e *Exporter) Export(ctx context.Context, saver Saver, a Artifact, filename string) error {
	if saver == nil {
		return ErrSaveTriggerUnavailable
	}

	switch art := a.(type) {
	case Vector:
		href, err := e.blobs.Create(ctx, art.Document, SVG.ContentType())
		if err != nil {
			return fmt.Errorf("failed to create blob: %w", err)
		}
		defer func() {
			if err := e.blobs.Revoke(context.WithoutCancel(ctx), href); err != nil {
				e.logger.Warn("failed to revoke blob", "href", href, "error", err)
			}
		}()
		return e.save(ctx, saver, Link{Href: href, Filename: filename})
	case Raster:
		return e.save(ctx, saver, Link{Href: DataURL(PNG.ContentType(), art.Document), Filename: filename})
	default:
		return fmt.Errorf("unsupported artifact %T", a)
	}
}

func (e *Exporter) save(ctx context.Context, saver Saver, link Link) error {
	if err := saver.Save(ctx, link); err != nil {
		return fmt.Errorf("failed to save %s: %w", link.Filename, err)
	}
	e.logger.Debug("export saved", "filename", link.Filename)
	return nil
}
