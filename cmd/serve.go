package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/schoolhub/facerec/internal/config"
	"github.com/schoolhub/facerec/internal/provider"
	"github.com/schoolhub/facerec/internal/web"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the face recognition HTTP server",
	Long: `Start the face recognition web server.
The server exposes encoding, recognition, matching and attendance
endpoints for school management systems.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "Port to listen on (overrides PORT)")
	serveCmd.Flags().String("host", "", "Host to bind to (overrides HOST)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	if port := mustGetInt(cmd, "port"); port != 0 {
		cfg.Server.Port = port
	}
	if host := mustGetString(cmd, "host"); host != "" {
		cfg.Server.Host = host
	}

	if cfg.Provider.URL == "" {
		return errors.New("ML_SERVICE_URL environment variable is required")
	}

	faces := provider.NewClient(cfg.Provider.URL, cfg.Provider.MaxImageSize)
	server := web.NewServer(cfg, faces)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
	}()

	fmt.Printf("Embedding provider: %s (expecting %d-dimensional encodings)\n",
		cfg.Provider.URL, cfg.Provider.EmbeddingDim)
	fmt.Printf("Starting face recognition server on http://%s:%d\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
