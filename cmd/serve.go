package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cristianadrielbraun/qrforge/internal/handlers"
	"github.com/cristianadrielbraun/qrforge/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const (
	shutdownTimeout = 5 * time.Second
	sweepInterval   = time.Minute
)

func newServeCmd(load loader) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web editor",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := load(cmd)
			if err != nil {
				return err
			}
			defer a.close()
			if addr != "" {
				a.cfg.Server.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, a)
		},
	}
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address, overrides server.addr")
	return cmd
}

func newRouter(a *app, sessions *session.Manager) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	handlers.New(sessions, a.newController, a.blobs, a.logger).Routes(r)
	r.GET("/metrics", gin.WrapH(a.metrics.Handler()))
	return r
}

func serve(ctx context.Context, a *app) error {
	sessions := session.NewManager(a.newController, a.cfg.Session.IdleTimeout)
	go sessions.Run(ctx, sweepInterval)

	srv := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           newRouter(a, sessions),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		a.logger.Info("qrforge listening", "addr", srv.Addr, "encoder", a.cfg.Encoder.Engine, "blob_store", a.cfg.Blob.Store)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		a.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
			return srv.Close()
		}
		return nil
	}
}
