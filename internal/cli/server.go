package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"seenjeem-admin/internal/config"
	transport "seenjeem-admin/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the admin API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, log, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	ctx, cancelRelay := context.WithCancel(ctx)
	defer cancelRelay()

	b, err := buildBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer b.Close()
	b.runRelay(ctx)

	media, err := buildMedia(cfg, log)
	if err != nil {
		return err
	}

	api := transport.NewServer(transport.Deps{
		Catalog:        b.catalog,
		Importer:       b.importer,
		Reports:        b.reports,
		Media:          media,
		History:        b.history,
		Feed:           b.feed,
		Metrics:        b.metrics,
		MetricsHandler: promhttp.HandlerFor(b.registry, promhttp.HandlerOpts{}),
		Log:            log,
		MaxUpload:      cfg.Server.MaxUploadMB << 20,
	})

	server := &http.Server{
		Addr:        ":" + finalPort,
		Handler:     api.Routes(),
		ReadTimeout: 30 * time.Second,
		// Spreadsheet imports run row by row and can take a while on large files.
		WriteTimeout: 5 * time.Minute,
	}

	go func() {
		log.WithField("port", finalPort).Info("starting admin api")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("failed to start server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server...")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		config.TTLDuration(cfg.Server.ShutdownTimeout, 10*time.Second))
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
