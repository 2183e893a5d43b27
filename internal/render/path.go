// Package render converts module grids into SVG path geometry.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cristianadrielbraun/qrforge/internal/qr"
)

// DefaultBorder is the quiet zone, in modules, added around the symbol.
const DefaultBorder = 4

// Command draws one closed 1x1 square with its top-left corner at X, Y.
type Command struct {
	X, Y int
}

func (c Command) String() string {
	return "M" + strconv.Itoa(c.X) + "," + strconv.Itoa(c.Y) + "h1v1h-1z"
}

// Path is the ordered list of unit squares for every dark module.
type Path struct {
	Border   int
	Commands []Command
}

// Render emits one Command per dark module in row-major order, each
// offset by border. It panics if border is negative.
func Render(grid qr.Grid, border int) Path {
	if border < 0 {
		panic(fmt.Sprintf("render: negative border %d", border))
	}
	p := Path{Border: border}
	n := grid.Size()
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if grid.Dark(x, y) {
				p.Commands = append(p.Commands, Command{X: x + border, Y: y + border})
			}
		}
	}
	return p
}

// Empty reports whether the path draws nothing.
func (p Path) Empty() bool { return len(p.Commands) == 0 }

// Viewport returns the side of the square viewport, in modules, for a
// symbol of symbolSize modules.
func (p Path) Viewport(symbolSize int) int {
	return symbolSize + 2*p.Border
}

// String returns the path as SVG path data.
func (p Path) String() string {
	var b strings.Builder
	for i, c := range p.Commands {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(c.String())
	}
	return b.String()
}
