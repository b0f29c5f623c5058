package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/luigi970/Signal-Hunter/internal/hunter"
	"github.com/luigi970/Signal-Hunter/internal/inference"
	"github.com/luigi970/Signal-Hunter/internal/logger"
	"github.com/luigi970/Signal-Hunter/internal/persist"
	"github.com/luigi970/Signal-Hunter/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Signal Hunter HTTP server",
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Listen port (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	if servePort > 0 {
		cfg.Server.Port = servePort
	}

	client, err := inference.NewClient(cmd.Context(), cfg.Inference)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating inference client: %v\n", err)
		os.Exit(1)
	}

	store, err := persist.NewStore(cfg.Storage.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	controller := hunter.NewController(
		hunter.NewExpander(client),
		hunter.NewSynthesizer(client),
		store,
		time.Duration(cfg.Pipeline.StageTimeoutSec)*time.Second,
	)

	srv := server.NewServer(controller, store)
	go func() {
		if err := srv.Start(cfg.Server.Host, cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			logger.Errorf("server error: %v", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}
