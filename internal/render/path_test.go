package render

import (
	"testing"

	"github.com/cristianadrielbraun/qrforge/internal/qr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grid(t *testing.T, rows ...string) qr.Grid {
	t.Helper()
	mods := make([][]bool, len(rows))
	for y, r := range rows {
		mods[y] = make([]bool, len(r))
		for x, ch := range r {
			mods[y][x] = ch == '#'
		}
	}
	g, err := qr.NewGrid(mods)
	require.NoError(t, err)
	return g
}

func TestRender(t *testing.T) {
	g := grid(t,
		"#.#",
		"...",
		".##",
	)

	p := Render(g, 4)
	assert.Equal(t, []Command{
		{X: 4, Y: 4},
		{X: 6, Y: 4},
		{X: 5, Y: 6},
		{X: 6, Y: 6},
	}, p.Commands)
	assert.Equal(t, g.DarkCount(), len(p.Commands))
	assert.Equal(t, "M4,4h1v1h-1z M6,4h1v1h-1z M5,6h1v1h-1z M6,6h1v1h-1z", p.String())
	assert.Equal(t, 11, p.Viewport(g.Size()))
}

func TestRenderZeroBorder(t *testing.T) {
	p := Render(grid(t, "#.", ".#"), 0)
	assert.Equal(t, "M0,0h1v1h-1z M1,1h1v1h-1z", p.String())
	assert.Equal(t, 2, p.Viewport(2))
}

func TestRenderAllLight(t *testing.T) {
	p := Render(grid(t, "...", "...", "..."), DefaultBorder)
	assert.True(t, p.Empty())
	assert.Equal(t, "", p.String())
}

func TestRenderNegativeBorderPanics(t *testing.T) {
	assert.Panics(t, func() { Render(grid(t, "#"), -1) })
}

func TestRenderDeterministic(t *testing.T) {
	g, err := qr.Yeqown{}.Encode("HELLO", qr.Low)
	require.NoError(t, err)

	a := Render(g, DefaultBorder)
	b := Render(g, DefaultBorder)
	assert.Equal(t, a.String(), b.String())
	assert.Len(t, a.Commands, g.DarkCount())
	assert.Equal(t, 29, a.Viewport(g.Size()))

	for i := 1; i < len(a.Commands); i++ {
		prev, cur := a.Commands[i-1], a.Commands[i]
		assert.True(t, prev.Y < cur.Y || (prev.Y == cur.Y && prev.X < cur.X), "row-major order at %d", i)
	}
}
