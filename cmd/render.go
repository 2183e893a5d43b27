package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/cristianadrielbraun/qrforge/internal/export"
	"github.com/cristianadrielbraun/qrforge/internal/hexcolor"
	"github.com/cristianadrielbraun/qrforge/internal/session"
	"github.com/spf13/cobra"
)

type renderOptions struct {
	fg          string
	bg          string
	transparent bool
	formats     []string
	out         string
}

func newRenderCmd(load loader) *cobra.Command {
	opts := renderOptions{}

	cmd := &cobra.Command{
		Use:   "render TEXT",
		Short: "Write TEXT as qrcode.svg and/or qrcode.png",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load(cmd)
			if err != nil {
				return err
			}
			defer a.close()
			return runRender(cmd, a, args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.fg, "fg", "#000000", "module color (#RGB or #RRGGBB)")
	cmd.Flags().StringVar(&opts.bg, "bg", "#FFFFFF", "background color (#RGB or #RRGGBB)")
	cmd.Flags().BoolVar(&opts.transparent, "transparent", false, "omit the background")
	cmd.Flags().StringSliceVarP(&opts.formats, "format", "f", []string{"svg", "png"}, "formats to write: svg, png")
	cmd.Flags().StringVarP(&opts.out, "out", "o", ".", "output directory")
	return cmd
}

func runRender(cmd *cobra.Command, a *app, text string, opts renderOptions) error {
	fg, err := hexcolor.Normalize(opts.fg)
	if err != nil {
		return fmt.Errorf("--fg: %w", err)
	}
	bg, err := hexcolor.Normalize(opts.bg)
	if err != nil {
		return fmt.Errorf("--bg: %w", err)
	}

	formats := make([]export.Format, 0, len(opts.formats))
	for _, f := range opts.formats {
		format, err := export.ParseFormat(f)
		if err != nil {
			return err
		}
		formats = append(formats, format)
	}

	ctrl := a.newController()
	cmds := []session.Command{
		session.SetText{Text: text},
		session.SetForeground{Color: fg},
		session.SetBackground{Color: bg},
		session.SetTransparent{Transparent: opts.transparent},
		session.Generate{},
	}
	saver := export.DirSaver{Fs: a.fs, Dir: opts.out, Blobs: a.blobs}
	for _, format := range formats {
		cmds = append(cmds, session.Export{Format: format, Saver: saver})
	}
	if err := ctrl.Dispatch(cmd.Context(), cmds...); err != nil {
		return err
	}

	for _, format := range formats {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(opts.out, format.Filename())); err != nil {
			return err
		}
	}
	return nil
}
