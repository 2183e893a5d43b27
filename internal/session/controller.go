// Package session holds the per-user QR editing state and the
// transitions that change it.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/cristianadrielbraun/qrforge/internal/compose"
	"github.com/cristianadrielbraun/qrforge/internal/export"
	"github.com/cristianadrielbraun/qrforge/internal/metrics"
	"github.com/cristianadrielbraun/qrforge/internal/qr"
	"github.com/cristianadrielbraun/qrforge/internal/render"
)

var (
	// ErrInvalidTransition means the action is not allowed in the current
	// state. Callers should hide or disable the action instead.
	ErrInvalidTransition = errors.New("action not allowed in current state")
	// ErrBusy rejects a generate or export while another one is running.
	ErrBusy = errors.New("another generate or export is in progress")
	// ErrTextChanged is returned when the text was edited while a
	// generation was running; the result is discarded.
	ErrTextChanged = errors.New("text changed during generation")
)

// State is the controller's position in the editing flow.
type State int

const (
	Idle State = iota
	Editing
	Generated
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Editing:
		return "editing"
	case Generated:
		return "generated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Level is the error correction level used for every generation.
const Level = qr.Low

// Snapshot is a copy of the session state.
type Snapshot struct {
	State      State
	Text       string
	Config     compose.Config
	Path       *render.Path
	SymbolSize int
}

// Controller owns one session's state. All methods are safe for
// concurrent use; Generate and Export run one at a time.
type Controller struct {
	encoder  qr.Encoder
	composer *compose.Composer
	exporter *export.Exporter
	metrics  *metrics.Recorder
	logger   *slog.Logger

	mu   sync.Mutex
	busy bool
	rev  uint64
	text string
	path *render.Path
	size int
	cfg  compose.Config
}

type Option func(*Controller)

func WithEncoder(enc qr.Encoder) Option {
	return func(c *Controller) {
		c.encoder = enc
	}
}

func WithComposer(comp *compose.Composer) Option {
	return func(c *Controller) {
		c.composer = comp
	}
}

func WithExporter(exp *export.Exporter) Option {
	return func(c *Controller) {
		c.exporter = exp
	}
}

func WithMetrics(m *metrics.Recorder) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// NewController starts a session with empty text and default colors.
func NewController(opts ...Option) *Controller {
	c := &Controller{
		encoder: qr.Yeqown{},
		cfg:     compose.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.composer == nil {
		c.composer = compose.New()
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.exporter == nil {
		c.exporter = export.NewExporter(nil, c.logger)
	}
	return c
}

func (c *Controller) stateLocked() State {
	switch {
	case c.text == "":
		return Idle
	case c.path == nil:
		return Editing
	default:
		return Generated
	}
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Snapshot{
		State:      c.stateLocked(),
		Text:       c.text,
		Config:     c.cfg,
		SymbolSize: c.size,
	}
	if c.path != nil {
		p := *c.path
		s.Path = &p
	}
	return s
}

// SetText replaces the input text and always drops the generated path,
// even when t equals the current text.
func (c *Controller) SetText(t string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = t
	c.path = nil
	c.size = 0
	c.rev++
}

// SetForeground sets the module color used at the next composition.
func (c *Controller) SetForeground(color string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg.Foreground = color
}

// SetBackground sets the background color used at the next composition.
func (c *Controller) SetBackground(color string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg.Background = color
}

// SetTransparent toggles the background fill.
func (c *Controller) SetTransparent(transparent bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg.Transparent = transparent
}

// begin marks the controller busy if the current state is one of want.
func (c *Controller) begin(want ...State) error {
	if c.busy {
		return ErrBusy
	}
	st := c.stateLocked()
	if !slices.Contains(want, st) {
		return fmt.Errorf("%w: %s requires %s", ErrInvalidTransition, st, want[0])
	}
	c.busy = true
	return nil
}

func (c *Controller) end() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false
}

// Generate encodes the current text and stores its path. It is valid
// while Editing, and again once Generated, where it re-encodes the same
// text. On failure the state is left untouched.
func (c *Controller) Generate(ctx context.Context) (err error) {
	c.mu.Lock()
	if err := c.begin(Editing, Generated); err != nil {
		c.mu.Unlock()
		return err
	}
	text, rev := c.text, c.rev
	c.mu.Unlock()
	defer c.end()
	defer func() { c.metrics.Generation(err) }()

	if err := ctx.Err(); err != nil {
		return err
	}
	grid, err := c.encoder.Encode(text, Level)
	if err != nil {
		c.logger.Info("generate failed", "chars", len(text), "error", err)
		return err
	}
	path := render.Render(grid, render.DefaultBorder)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rev != rev {
		return ErrTextChanged
	}
	c.path = &path
	c.size = grid.Size()
	c.logger.Debug("generated", "chars", len(text), "modules", grid.Size(), "dark", len(path.Commands))
	return nil
}

// Document returns the vector document for the current path and colors.
func (c *Controller) Document() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if st := c.stateLocked(); st != Generated {
		return nil, fmt.Errorf("%w: %s has no document", ErrInvalidTransition, st)
	}
	return compose.Vector(*c.path, c.cfg, c.size), nil
}

// Export composes the current path with the current colors and saves it
// through saver. It is only valid once Generated.
func (c *Controller) Export(ctx context.Context, format export.Format, saver export.Saver) (err error) {
	c.mu.Lock()
	if err := c.begin(Generated); err != nil {
		c.mu.Unlock()
		return err
	}
	path, size, cfg := *c.path, c.size, c.cfg
	c.mu.Unlock()
	defer c.end()

	start := time.Now()
	defer func() { c.metrics.Export(string(format), time.Since(start), err) }()

	art, err := c.artifact(ctx, format, path, cfg, size)
	if err != nil {
		c.logger.Warn("compose failed", "format", format, "error", err)
		return err
	}
	return c.exporter.Export(ctx, saver, art, format.Filename())
}

func (c *Controller) artifact(ctx context.Context, format export.Format, path render.Path, cfg compose.Config, size int) (export.Artifact, error) {
	switch format {
	case export.SVG:
		docs, err := c.composer.Compose(ctx, path, cfg, size, compose.TargetVector)
		if err != nil {
			return nil, err
		}
		return export.Vector{Document: docs.Vector}, nil
	case export.PNG:
		docs, err := c.composer.Compose(ctx, path, cfg, size, compose.TargetRaster)
		if err != nil {
			return nil, err
		}
		return export.Raster{Document: docs.Raster.PNG, Width: docs.Raster.Width, Height: docs.Raster.Height}, nil
	default:
		return nil, fmt.Errorf("%w: %q", export.ErrUnknownFormat, format)
	}
}
