package cmd

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func Execute() error {
	return newRootCmd(afero.NewOsFs()).Execute()
}

func newRootCmd(fs afero.Fs) *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:           "qrforge",
		Short:         "qrforge: turn text into QR codes as SVG or PNG",
		Long:          "qrforge encodes text as a QR code and exports it as an SVG document or a 290x290 PNG, either from the command line or through a small web editor.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to a qrforge.toml config file")

	load := func(cmd *cobra.Command) (*app, error) {
		return wireApp(configFile, fs, cmd.ErrOrStderr())
	}

	rootCmd.AddCommand(
		newServeCmd(load),
		newRenderCmd(load),
		newConfigCmd(load),
	)

	return rootCmd
}
