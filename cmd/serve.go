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

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/kilianp07/hallsched/api/schedule"
	"github.com/kilianp07/hallsched/app"
	"github.com/kilianp07/hallsched/infra/logger"
	"github.com/kilianp07/hallsched/infra/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the scheduling HTTP API",
	RunE:  serve,
}

func init() {
	serveCmd.Flags().String("address", "", "listen address (server.address when empty)")
	rootCmd.AddCommand(serveCmd)
}

func serve(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logg := logger.New("server")
	addr := cfg.Server.Address
	if a, _ := cmd.Flags().GetString("address"); a != "" {
		addr = a
	}

	svc, err := app.NewFromConfig(cfg)
	if err != nil {
		return err
	}
	gin.SetMode(cfg.Server.Mode)
	router := schedule.NewRouter(schedule.NewHandler(svc, cfg.Generator, nil, schedule.WithMaxHalls(cfg.Server.MaxHalls)))
	srv := &http.Server{Addr: addr, Handler: router, ReadHeaderTimeout: 5 * time.Second}

	if cfg.Server.PrometheusAddress != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, cfg.Server.PrometheusAddress); err != nil {
				logg.Errorf("prom server: %v", err)
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Infof("listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logg.Infof("shutting down")
	return srv.Shutdown(shutdownCtx)
}
