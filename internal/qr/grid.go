package qr

import (
	"errors"
	"fmt"
)

// ErrCapacityExceeded is returned when the text does not fit in any
// symbol version at the requested error correction level.
var ErrCapacityExceeded = errors.New("text exceeds QR capacity")

// ECCLevel is the error correction level used when encoding.
type ECCLevel int

const (
	Low ECCLevel = iota
	Medium
	Quartile
	High
)

func (l ECCLevel) String() string {
	switch l {
	case Low:
		return "L"
	case Medium:
		return "M"
	case Quartile:
		return "Q"
	case High:
		return "H"
	default:
		return fmt.Sprintf("ECCLevel(%d)", int(l))
	}
}

// Encoder turns text into a module grid.
type Encoder interface {
	Encode(text string, level ECCLevel) (Grid, error)
}

// Grid is a square matrix of modules, true meaning dark.
// A Grid is never mutated after construction.
type Grid struct {
	modules [][]bool
}

// NewGrid copies rows into a Grid. All rows must have len(rows) entries.
func NewGrid(rows [][]bool) (Grid, error) {
	n := len(rows)
	mods := make([][]bool, n)
	for y, row := range rows {
		if len(row) != n {
			return Grid{}, fmt.Errorf("grid row %d has %d modules, want %d", y, len(row), n)
		}
		mods[y] = append([]bool(nil), row...)
	}
	return Grid{modules: mods}, nil
}

// Size returns the side length in modules.
func (g Grid) Size() int { return len(g.modules) }

// Dark reports whether the module at column x, row y is dark.
func (g Grid) Dark(x, y int) bool { return g.modules[y][x] }

// DarkCount returns the number of dark modules.
func (g Grid) DarkCount() int {
	n := 0
	for _, row := range g.modules {
		for _, v := range row {
			if v {
				n++
			}
		}
	}
	return n
}
