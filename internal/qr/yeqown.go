package qr

import (
	"fmt"

	"github.com/yeqown/go-qrcode/v2"
)

// Yeqown encodes with github.com/yeqown/go-qrcode.
type Yeqown struct{}

func (Yeqown) Encode(text string, level ECCLevel) (Grid, error) {
	qrc, err := qrcode.NewWith(text, yeqownLevel(level))
	if err != nil {
		return Grid{}, fmt.Errorf("%w at level %s: %v", ErrCapacityExceeded, level, err)
	}

	w := &matrixWriter{}
	if err := qrc.Save(w); err != nil {
		return Grid{}, fmt.Errorf("failed to read QR matrix: %w", err)
	}
	return NewGrid(w.rows)
}

func yeqownLevel(l ECCLevel) qrcode.EncodeOption {
	switch l {
	case Medium:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionMedium)
	case Quartile:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionQuart)
	case High:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionHighest)
	default:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionLow)
	}
}

// matrixWriter implements qrcode.Writer and captures the bare symbol
// matrix instead of drawing it, so no quiet zone is included.
type matrixWriter struct {
	rows [][]bool
}

func (w *matrixWriter) Write(mat qrcode.Matrix) error {
	if mat.Width() != mat.Height() {
		return fmt.Errorf("non-square matrix %dx%d", mat.Width(), mat.Height())
	}
	n := mat.Width()
	w.rows = make([][]bool, n)
	for y := range w.rows {
		w.rows[y] = make([]bool, n)
	}
	mat.Iterate(qrcode.IterDirection_ROW, func(x, y int, v qrcode.QRValue) {
		w.rows[y][x] = v.IsSet()
	})
	return nil
}

func (w *matrixWriter) Close() error { return nil }
