package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"

	"github.com/peterkuimelis/tcgpx/internal/config"
	"github.com/peterkuimelis/tcgpx/internal/game"
	tcgpxnet "github.com/peterkuimelis/tcgpx/internal/net"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	cmd := os.Args[1]
	switch cmd {
	case "host":
		err = runHost(ctx, os.Args[2:])
	case "join":
		err = runJoin(ctx, os.Args[2:])
	case "check":
		err = runCheck(ctx, os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		slog.Error("fatal", "cmd", cmd, "err", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  tcgpx-cli host [--config FILE] [--deck N] [--port P] [--decks FILE] [--seed S]")
	fmt.Println("  tcgpx-cli join [--deck N] [--addr ADDR]")
	fmt.Println("  tcgpx-cli check [--config FILE]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  host    Start a match server and play as Player 1")
	fmt.Println("  join    Connect to a match server and play as Player 2")
	fmt.Println("  check   Load the catalog, effect tables and decks and report problems")
}

func runHost(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("host", flag.ExitOnError)
	cfgFile := fs.String("config", "tcgpx.yaml", "path to config file")
	deck := fs.Int("deck", 1, "deck number to use (from decks.yaml)")
	port := fs.String("port", "", "TCP port to listen on (overrides config)")
	decksFile := fs.String("decks", "", "path to decks file (overrides config)")
	seed := fs.Int64("seed", 0, "RNG seed (overrides config, 0 = keep)")
	fs.Parse(args)

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		return err
	}
	if *port != "" {
		cfg.Port = *port
	}
	if *decksFile != "" {
		cfg.DecksFile = *decksFile
	}
	if *seed != 0 {
		cfg.Match.Seed = *seed
	}

	content, err := cfg.LoadContent(ctx)
	if err != nil {
		return err
	}
	slog.Info("content loaded", "cards", content.Catalog.Len(), "tables", cfg.TablesDir, "seed", cfg.Match.Seed)

	srv := &tcgpxnet.Server{
		DeckFile: cfg.DecksFile,
		Port:     cfg.Port,
		HostDeck: *deck,
		Catalog:  content.Catalog,
		Tables:   content.Tables,
		Rules:    cfg.Match.Rules(),
	}
	return srv.Run(ctx)
}

func runJoin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("join", flag.ExitOnError)
	deck := fs.Int("deck", 2, "deck number to use (from decks.yaml)")
	addr := fs.String("addr", "localhost:9000", "server address to connect to")
	fs.Parse(args)

	return tcgpxnet.Connect(ctx, *addr, *deck)
}

func runCheck(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	cfgFile := fs.String("config", "tcgpx.yaml", "path to config file")
	fs.Parse(args)

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		return err
	}
	content, err := cfg.LoadContent(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Catalog: %d cards\n", content.Catalog.Len())
	for kind, n := range content.Tables.Counts() {
		fmt.Printf("Table %s: %d rows\n", kind, n)
	}

	decks, err := game.ParseDeckFile(ctx, cfg.DecksFile, content.Catalog)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(decks))
	for name := range decks {
		names = append(names, name)
	}
	sort.Strings(names)

	bad := 0
	for _, name := range names {
		d := decks[name]
		if err := d.Validate(); err != nil {
			fmt.Printf("  FAIL %s: %v\n", name, err)
			bad++
			continue
		}
		fmt.Printf("  ok   %s (%d cards, energy %v)\n", name, len(d.Cards), d.Energy)
	}
	if bad > 0 {
		return fmt.Errorf("%d invalid deck(s)", bad)
	}
	return nil
}
