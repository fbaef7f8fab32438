package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pmarkov/newsmind/internal/api"
	"github.com/pmarkov/newsmind/internal/store"
)

var servePort int

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the read-only HTTP API",
	Long: `Serve exposes the persisted clusters, articles, and trends over a
read-only HTTP API.

Example:
  newsmind serve
  newsmind serve --port 9090`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.API.Port = servePort
	}

	st, err := store.NewFileStore(cfg.Storage.BaseDir)
	if err != nil {
		return fmt.Errorf("open state dir: %w", err)
	}

	server := api.NewServer(cfg, st, logger)
	logger.Info("serving api", "port", cfg.API.Port)
	return server.Run()
}
