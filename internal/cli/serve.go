package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/jobad-analyser/internal/database"
	"github.com/vijay-prabhu/jobad-analyser/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start an HTTP API for analysing job ads.

Endpoints:
  POST   /api/analyse          {"text": "..."} or {"url": "..."}
  GET    /api/terms            ?category=&severity=
  GET    /api/analyses         ?grade=&since=&limit=&offset=
  GET    /api/analyses/{id}
  DELETE /api/analyses/{id}
  GET    /api/stats
  GET    /health
  GET    /metrics              Prometheus metrics`,
	RunE: runServe,
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, :8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	analyser, err := buildAnalyser(cfg, "")
	if err != nil {
		return err
	}

	var db *database.DB
	if cfg.History.Enabled {
		db, err = openHistory(cfg)
		if err != nil {
			return err
		}
		defer db.Close()
	}

	srv := server.New(server.Options{
		Analyser:       analyser,
		DB:             db,
		Fetcher:        newScraper(cfg),
		SaveHistory:    cfg.History.Enabled,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         logger,
	})

	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "Listening on %s\n", addr)
	if err := srv.ListenAndServe(ctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
