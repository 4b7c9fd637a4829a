package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/yaoapp/kun/log"

	"logistics_control_tower/config"
	"logistics_control_tower/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(envFile)
		if err != nil {
			return err
		}
		closer := config.SetupLog(cfg)
		defer closer.Close()

		responder, err := newResponder(cfg)
		if err != nil {
			return err
		}
		srv, err := server.New(responder, cfg)
		if err != nil {
			return err
		}

		listen := cfg.Addr()
		if serveAddr != "" {
			listen = serveAddr
		}
		httpServer := &http.Server{
			Addr:              listen,
			Handler:           srv.Routes(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			log.Info("[server] starting logistics control tower API on %s", listen)
			log.Info("[server] health check: http://%s/health", listen)
			log.Info("[server] ai assistant: http://%s/api/assistant", listen)
			log.Info("[server] daily briefing: http://%s/api/briefing", listen)
			errCh <- httpServer.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}

		log.Info("[server] shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "http listen address (overrides TOWER_HOST/PORT)")
}
