package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/cristianadrielbraun/qrforge/internal/config"
	"github.com/cristianadrielbraun/qrforge/internal/export"
	"github.com/cristianadrielbraun/qrforge/internal/logging"
	"github.com/cristianadrielbraun/qrforge/internal/metrics"
	"github.com/cristianadrielbraun/qrforge/internal/qr"
	"github.com/cristianadrielbraun/qrforge/internal/session"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type loader func(cmd *cobra.Command) (*app, error)

type app struct {
	cfg      config.Config
	fs       afero.Fs
	logger   *slog.Logger
	encoder  qr.Encoder
	blobs    export.BlobStore
	exporter *export.Exporter
	metrics  *metrics.Recorder
}

func wireApp(configFile string, fs afero.Fs, stderr io.Writer) (*app, error) {
	cfg, err := config.Load(viper.New(), configFile)
	if err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("wire logger: %w", err)
	}
	logger := logging.NewWriter(stderr, level)

	encoder, err := qr.NewEncoder(cfg.Encoder.Engine)
	if err != nil {
		return nil, fmt.Errorf("wire encoder: %w", err)
	}

	var blobs export.BlobStore
	switch cfg.Blob.Store {
	case "redis":
		blobs = export.NewRedisBlobs(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, export.WithBlobTTL(cfg.Blob.TTL))
	default:
		blobs = export.NewMemoryBlobs()
	}

	return &app{
		cfg:      cfg,
		fs:       fs,
		logger:   logger,
		encoder:  encoder,
		blobs:    blobs,
		exporter: export.NewExporter(blobs, logger),
		metrics:  metrics.New(),
	}, nil
}

func (a *app) newController() *session.Controller {
	return session.NewController(
		session.WithEncoder(a.encoder),
		session.WithExporter(a.exporter),
		session.WithMetrics(a.metrics),
		session.WithLogger(a.logger),
	)
}

func (a *app) close() {
	if c, ok := a.blobs.(io.Closer); ok {
		if err := c.Close(); err != nil {
			a.logger.Warn("failed to close blob store", "error", err)
		}
	}
}
