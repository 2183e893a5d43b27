// Package compose turns a rendered QR path plus colors into a standalone
// SVG document and a PNG rasterization of that document.
package compose

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"image"
	"image/draw"
	"image/png"
	"strings"

	"github.com/cristianadrielbraun/qrforge/internal/render"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

var (
	ErrSurfaceCreationFailed = errors.New("could not create drawing surface")
	ErrImageDecodeFailed     = errors.New("could not decode vector document")
)

// RasterSize is the side of the PNG output in pixels.
const RasterSize = 290

// Config holds the user's color choices. Colors are passed through to
// the document untouched; validating them is the caller's job.
type Config struct {
	Foreground  string
	Background  string
	Transparent bool
}

// DefaultConfig is black on opaque white.
func DefaultConfig() Config {
	return Config{Foreground: "#000000", Background: "#FFFFFF"}
}

// Vector builds the SVG document for p. The background rect is omitted
// when cfg.Transparent is set.
func Vector(p render.Path, cfg Config, symbolSize int) []byte {
	v := p.Viewport(symbolSize)

	b := strings.Builder{}
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	b.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" version="1.1" viewBox="0 0 %d %d">`, v, v))
	if !cfg.Transparent {
		b.WriteString(fmt.Sprintf(`<rect width="%d" height="%d" fill="%s"/>`, v, v, html.EscapeString(cfg.Background)))
	}
	b.WriteString(fmt.Sprintf(`<path d="%s" fill="%s" stroke="none"/>`, p.String(), html.EscapeString(cfg.Foreground)))
	b.WriteString(`</svg>`)
	return []byte(b.String())
}

// Bitmap is an encoded PNG and its pixel size.
type Bitmap struct {
	PNG           []byte
	Width, Height int
}

// SurfaceFunc allocates the drawing surface for one rasterization.
type SurfaceFunc func(width, height int) (draw.Image, error)

func newRGBA(width, height int) (draw.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid surface size %dx%d", width, height)
	}
	return image.NewRGBA(image.Rect(0, 0, width, height)), nil
}

// Composer rasterizes vector documents. The zero value is not usable;
// call New.
type Composer struct {
	size       int
	newSurface SurfaceFunc
}

type Option func(*Composer)

// WithSize overrides the raster side length.
func WithSize(px int) Option {
	return func(c *Composer) {
		c.size = px
	}
}

// WithSurface replaces the surface allocator.
func WithSurface(fn SurfaceFunc) Option {
	return func(c *Composer) {
		c.newSurface = fn
	}
}

func New(opts ...Option) *Composer {
	c := &Composer{
		size:       RasterSize,
		newSurface: newRGBA,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Pending is an in-flight rasterization. Its surface is written only by
// the decode goroutine until Done is closed.
type Pending struct {
	done    chan struct{}
	surface draw.Image
	size    int
	err     error
}

// Done is closed once the document has been decoded and drawn.
func (p *Pending) Done() <-chan struct{} { return p.done }

// Wait blocks until decoding completes or ctx ends, then encodes the
// surface as PNG.
func (p *Pending) Wait(ctx context.Context) (Bitmap, error) {
	select {
	case <-ctx.Done():
		return Bitmap{}, ctx.Err()
	case <-p.done:
	}
	if p.err != nil {
		return Bitmap{}, p.err
	}

	buf := &bytes.Buffer{}
	if err := png.Encode(buf, p.surface); err != nil {
		return Bitmap{}, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return Bitmap{PNG: buf.Bytes(), Width: p.size, Height: p.size}, nil
}

// Raster starts drawing doc onto a fresh surface and returns without
// waiting. Surface allocation errors are reported immediately; decode
// errors are reported by Wait.
func (c *Composer) Raster(doc []byte) (*Pending, error) {
	surface, err := c.newSurface(c.size, c.size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSurfaceCreationFailed, err)
	}

	p := &Pending{
		done:    make(chan struct{}),
		surface: surface,
		size:    c.size,
	}
	go func() {
		defer close(p.done)
		p.err = rasterize(doc, surface, c.size)
	}()
	return p, nil
}

// rasterize decodes doc and draws it exactly once, scaled to fill the surface.
func rasterize(doc []byte, surface draw.Image, size int) error {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(doc))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrImageDecodeFailed, err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	scanner := rasterx.NewScannerGV(size, size, surface, surface.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)
	return nil
}

// Target selects the renderings Compose produces.
type Target int

const (
	// TargetVector skips rasterization.
	TargetVector Target = iota
	// TargetRaster also rasterizes the vector document.
	TargetRaster
)

// Documents holds the renderings of one composition. Raster is empty
// for TargetVector.
type Documents struct {
	Vector []byte
	Raster Bitmap
}

// Compose builds the vector document and, for TargetRaster, waits for its
// rasterization.
func (c *Composer) Compose(ctx context.Context, p render.Path, cfg Config, symbolSize int, target Target) (Documents, error) {
	doc := Vector(p, cfg, symbolSize)
	if target == TargetVector {
		return Documents{Vector: doc}, nil
	}
	pending, err := c.Raster(doc)
	if err != nil {
		return Documents{}, err
	}
	bmp, err := pending.Wait(ctx)
	if err != nil {
		return Documents{}, err
	}
	return Documents{Vector: doc, Raster: bmp}, nil
}
