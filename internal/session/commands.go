package session

import (
	"context"

	"github.com/cristianadrielbraun/qrforge/internal/export"
)

// Command is one user action.
type Command interface {
	apply(ctx context.Context, c *Controller) error
}

type SetText struct{ Text string }

type SetForeground struct{ Color string }

type SetBackground struct{ Color string }

type SetTransparent struct{ Transparent bool }

type Generate struct{}

// Export saves the current code in Format through Saver.
type Export struct {
	Format export.Format
	Saver  export.Saver
}

func (cmd SetText) apply(_ context.Context, c *Controller) error {
	c.SetText(cmd.Text)
	return nil
}

func (cmd SetForeground) apply(_ context.Context, c *Controller) error {
	c.SetForeground(cmd.Color)
	return nil
}

func (cmd SetBackground) apply(_ context.Context, c *Controller) error {
	c.SetBackground(cmd.Color)
	return nil
}

func (cmd SetTransparent) apply(_ context.Context, c *Controller) error {
	c.SetTransparent(cmd.Transparent)
	return nil
}

func (Generate) apply(ctx context.Context, c *Controller) error {
	return c.Generate(ctx)
}

func (cmd Export) apply(ctx context.Context, c *Controller) error {
	return c.Export(ctx, cmd.Format, cmd.Saver)
}

// Dispatch applies cmds in order and stops at the first error. Nothing
// further is applied once ctx is done.
func (c *Controller) Dispatch(ctx context.Context, cmds ...Command) error {
	for _, cmd := range cmds {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := cmd.apply(ctx, c); err != nil {
			return err
		}
	}
	return nil
}
