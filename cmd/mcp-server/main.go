// Package main provides the entry point for the PhenoAge MCP server.
// Configuration comes from PHENOAGE_* environment variables; the protocol
// runs over stdio, so all logging stays on stderr.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/phenoage-mcp-server/internal/config"
	"github.com/phenoage-mcp-server/internal/mcp"
)

func main() {
	cfg := config.LoadLiteConfig()

	server, err := mcp.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to create MCP server: %v", err)
	}
	defer server.Close()

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Shutdown signal received, gracefully shutting down...")
		cancel()
	}()

	if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("MCP server failed: %v", err)
	}

	log.Println("PhenoAge MCP server stopped")
}
