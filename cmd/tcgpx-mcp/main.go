package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/tcgpx/internal/config"
	tcgpxmcp "github.com/peterkuimelis/tcgpx/internal/mcp"
	tcgpxnet "github.com/peterkuimelis/tcgpx/internal/net"
)

func main() {
	cfgFile := flag.String("config", "tcgpx.yaml", "path to config file")
	decks := flag.String("decks", "", "path to decks YAML file (overrides config)")
	port := flag.String("port", "9999", "TCP port for human player connection")
	flag.Parse()

	// stdout carries the MCP protocol.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
	if *decks != "" {
		cfg.DecksFile = *decks
	}

	content, err := cfg.LoadContent(context.Background())
	if err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}

	slog.Info("content loaded", "cards", content.Catalog.Len(), "decks", cfg.DecksFile, "port", *port)

	tcgpxmcp.Configure(tcgpxnet.Server{
		DeckFile: cfg.DecksFile,
		Port:     *port,
		Catalog:  content.Catalog,
		Tables:   content.Tables,
		Rules:    cfg.Match.Rules(),
	})

	s := server.NewMCPServer("tcgpx", "1.0.0")
	tcgpxmcp.RegisterTools(s)

	if err := server.ServeStdio(s); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}
