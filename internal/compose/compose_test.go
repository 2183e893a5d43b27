package compose

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/draw"
	"image/png"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cristianadrielbraun/qrforge/internal/qr"
	"github.com/cristianadrielbraun/qrforge/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func helloPath(t *testing.T) (render.Path, int) {
	t.Helper()
	g, err := qr.Yeqown{}.Encode("HELLO", qr.Low)
	require.NoError(t, err)
	return render.Render(g, render.DefaultBorder), g.Size()
}

func TestVectorOpaque(t *testing.T) {
	p, n := helloPath(t)
	doc := string(Vector(p, DefaultConfig(), n))

	assert.Contains(t, doc, `viewBox="0 0 29 29"`)
	assert.Equal(t, 1, strings.Count(doc, "<rect"))
	assert.Contains(t, doc, `<rect width="29" height="29" fill="#FFFFFF"/>`)
	assert.Equal(t, 1, strings.Count(doc, "<path"))
	assert.Contains(t, doc, `<path d="`+p.String()+`" fill="#000000" stroke="none"/>`)
	assert.Less(t, strings.Index(doc, "<rect"), strings.Index(doc, "<path"), "background is drawn beneath the path")
}

func TestVectorTransparentOmitsBackground(t *testing.T) {
	p, n := helloPath(t)
	for _, bg := range []string{"#FFFFFF", "#123456", "", "red"} {
		doc := string(Vector(p, Config{Foreground: "#00FF00", Background: bg, Transparent: true}, n))
		assert.NotContains(t, doc, "<rect", "background %q", bg)
		assert.Contains(t, doc, `fill="#00FF00"`)
	}
}

func TestVectorEscapesColors(t *testing.T) {
	p, n := helloPath(t)
	doc := string(Vector(p, Config{Foreground: `"><script>`, Background: "#fff"}, n))
	assert.NotContains(t, doc, "<script>")
}

func decode(t *testing.T, b Bitmap) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(b.PNG))
	require.NoError(t, err)
	return img
}

func TestRasterDefaultColors(t *testing.T) {
	p, n := helloPath(t)
	docs, err := New().Compose(context.Background(), p, DefaultConfig(), n, TargetRaster)
	require.NoError(t, err)

	assert.Equal(t, RasterSize, docs.Raster.Width)
	assert.Equal(t, RasterSize, docs.Raster.Height)
	img := decode(t, docs.Raster)
	assert.Equal(t, image.Rect(0, 0, 290, 290), img.Bounds())

	// Quiet zone is background, the first finder module is foreground.
	r, g, b, a := img.At(5, 5).RGBA()
	assert.Equal(t, []uint32{0xffff, 0xffff, 0xffff, 0xffff}, []uint32{r, g, b, a})
	r, g, b, a = img.At(45, 45).RGBA()
	assert.Equal(t, []uint32{0, 0, 0, 0xffff}, []uint32{r, g, b, a})
}

func TestRasterTransparent(t *testing.T) {
	p, n := helloPath(t)
	cfg := Config{Foreground: "#FF0000", Background: "#FFFFFF", Transparent: true}
	docs, err := New().Compose(context.Background(), p, cfg, n, TargetRaster)
	require.NoError(t, err)

	img := decode(t, docs.Raster)
	_, _, _, a := img.At(5, 5).RGBA()
	assert.Zero(t, a)
	r, g, _, a := img.At(45, 45).RGBA()
	assert.Equal(t, uint32(0xffff), a)
	assert.Greater(t, r, uint32(0xf000))
	assert.Less(t, g, uint32(0x1000))
}

func TestRasterDecodeFailure(t *testing.T) {
	pending, err := New().Raster([]byte(`<svg xmlns="http://www.w3.org/2000/svg"><path d=`))
	require.NoError(t, err)

	_, err = pending.Wait(context.Background())
	assert.ErrorIs(t, err, ErrImageDecodeFailed)
}

func TestRasterSurfaceFailure(t *testing.T) {
	c := New(WithSurface(func(int, int) (draw.Image, error) {
		return nil, errors.New("out of canvases")
	}))
	p, n := helloPath(t)

	_, err := c.Compose(context.Background(), p, DefaultConfig(), n, TargetRaster)
	assert.ErrorIs(t, err, ErrSurfaceCreationFailed)

	// Vector-only composition never asks for a surface.
	docs, err := c.Compose(context.Background(), p, DefaultConfig(), n, TargetVector)
	require.NoError(t, err)
	assert.Contains(t, string(docs.Vector), "<path")
	assert.Nil(t, docs.Raster.PNG)
}

// gatedSurface holds the decode goroutine on its first Bounds call
// until gate is closed.
type gatedSurface struct {
	*image.RGBA
	gate chan struct{}
	once sync.Once
}

func (s *gatedSurface) Bounds() image.Rectangle {
	s.once.Do(func() { <-s.gate })
	return s.RGBA.Bounds()
}

func TestRasterWaitsForCompletion(t *testing.T) {
	gate := make(chan struct{})
	c := New(WithSize(58), WithSurface(func(w, h int) (draw.Image, error) {
		return &gatedSurface{RGBA: image.NewRGBA(image.Rect(0, 0, w, h)), gate: gate}, nil
	}))
	p, n := helloPath(t)

	pending, err := c.Raster(Vector(p, DefaultConfig(), n))
	require.NoError(t, err)

	select {
	case <-pending.Done():
		t.Fatal("completion signalled before the document was drawn")
	default:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = pending.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(gate)
	<-pending.Done()
	bmp, err := pending.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 58, bmp.Width)
	assert.Equal(t, image.Rect(0, 0, 58, 58), decode(t, bmp).Bounds())
}
