package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/peterkuimelis/tcgpx/internal/config"
	"github.com/peterkuimelis/tcgpx/internal/web"
)

func main() {
	cfgFile := flag.String("config", "tcgpx.yaml", "path to config file")
	port := flag.Int("port", 0, "HTTP port to listen on (overrides config)")
	artDir := flag.String("art", "./card_art", "path to card art directory")
	mappingFile := flag.String("mapping", "card_art_mapping.json", "path to card art mapping JSON")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.WebPort = *port
	}

	content, err := cfg.LoadContent(context.Background())
	if err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}

	srv, err := web.NewServer(*artDir, cfg.DecksFile, *mappingFile, content.Catalog, content.Tables)
	if err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", cfg.WebPort)
	slog.Info("tcgpx web UI listening", "url", fmt.Sprintf("http://localhost:%d", cfg.WebPort))
	if err := srv.ListenAndServe(addr); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}
