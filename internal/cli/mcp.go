package cli

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/jobad-analyser/internal/database"
	"github.com/vijay-prabhu/jobad-analyser/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server (stdio transport)",
	Long: `Start the MCP (Model Context Protocol) server using stdio transport.

This lets AI assistants score job ads, look up the bias dictionary and
browse saved analyses.

Add to the assistant's MCP server config:

{
  "mcpServers": {
    "jobad": {
      "command": "/path/to/jobad",
      "args": ["mcp"]
    }
  }
}`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if !cfg.MCP.Enabled {
		return fmt.Errorf("MCP server is disabled in config")
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

	server := mcp.New(mcp.Options{
		Analyser:    analyser,
		DB:          db,
		Fetcher:     newScraper(cfg),
		SaveHistory: cfg.History.Enabled,
		Version:     version,
		Logger:      logger,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	logger.Info("mcp server listening on stdio", "history", db != nil)
	return server.Start(ctx)
}
