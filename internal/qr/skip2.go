package qr

import (
	"fmt"

	skip2 "github.com/skip2/go-qrcode"
)

// Skip2 encodes with github.com/skip2/go-qrcode.
type Skip2 struct{}

func (Skip2) Encode(text string, level ECCLevel) (Grid, error) {
	code, err := skip2.New(text, skip2Level(level))
	if err != nil {
		return Grid{}, fmt.Errorf("%w at level %s: %v", ErrCapacityExceeded, level, err)
	}
	// Bitmap includes the quiet zone unless it is disabled.
	code.DisableBorder = true
	return NewGrid(code.Bitmap())
}

func skip2Level(l ECCLevel) skip2.RecoveryLevel {
	switch l {
	case Medium:
		return skip2.Medium
	case Quartile:
		return skip2.High
	case High:
		return skip2.Highest
	default:
		return skip2.Low
	}
}

// Engine names accepted by NewEncoder.
const (
	EngineYeqown = "yeqown"
	EngineSkip2  = "skip2"
)

// NewEncoder returns the encoder registered under name.
func NewEncoder(name string) (Encoder, error) {
	switch name {
	case "", EngineYeqown:
		return Yeqown{}, nil
	case EngineSkip2:
		return Skip2{}, nil
	default:
		return nil, fmt.Errorf("unknown encoder engine %q", name)
	}
}
