package net

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"

	"github.com/peterkuimelis/tcgpx/internal/effectdata"
	"github.com/peterkuimelis/tcgpx/internal/game"
	"github.com/peterkuimelis/tcgpx/internal/log"
)

// Server hosts a match between two TCP clients.
type Server struct {
	DeckFile string
	Port     string
	HostDeck int // host's deck number (1-indexed)

	Catalog game.Catalog
	Tables  *effectdata.Tables
	// Rules is the match template; decks and controllers are filled in.
	Rules game.MatchConfig
}

// LoadDecks resolves the host's and joiner's decks and validates both.
func (s *Server) LoadDecks(ctx context.Context, joinerDeck int) (host, joiner *game.Deck, err error) {
	host, err = game.DeckByNumber(ctx, s.DeckFile, s.HostDeck, s.Catalog)
	if err != nil {
		return nil, nil, fmt.Errorf("load host deck: %w", err)
	}
	joiner, err = game.DeckByNumber(ctx, s.DeckFile, joinerDeck, s.Catalog)
	if err != nil {
		return nil, nil, fmt.Errorf("load joiner deck: %w", err)
	}
	for _, d := range []*game.Deck{host, joiner} {
		if err := d.Validate(); err != nil {
			return nil, nil, err
		}
	}
	return host, joiner, nil
}

// MatchConfig builds the config for a match between two resolved decks.
func (s *Server) MatchConfig(host, joiner *game.Deck, logger log.EventLogger) game.MatchConfig {
	cfg := s.Rules
	cfg.Deck0, cfg.Energy0 = host.Cards, host.Energy
	cfg.Deck1, cfg.Energy1 = joiner.Cards, joiner.Energy
	cfg.Tables = s.Tables
	cfg.Catalog = s.Catalog
	cfg.Logger = logger
	return cfg
}

// Run starts the server, waits for a client to join, then runs the match.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", ":"+s.Port)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	defer ln.Close()

	fmt.Printf("Waiting for opponent on port %s...\n", s.Port)

	// Accept exactly one connection (the joiner)
	conn, err := ln.Accept()
	if err != nil {
		return fmt.Errorf("accept: %w", err)
	}
	defer conn.Close()

	fmt.Printf("Opponent connected from %s\n", conn.RemoteAddr())

	// Read the joiner's deck choice
	dec := json.NewDecoder(conn)
	var joinMsg ClientMessage
	if err := dec.Decode(&joinMsg); err != nil {
		return fmt.Errorf("read join message: %w", err)
	}
	joinerDeck := joinMsg.DeckNumber
	if joinerDeck == 0 {
		joinerDeck = 2
	}

	fmt.Printf("Opponent chose deck %d\n", joinerDeck)

	host, joiner, err := s.LoadDecks(ctx, joinerDeck)
	if err != nil {
		return err
	}

	fmt.Printf("Host: %s (%d cards, energy %v)\n", host.Name, len(host.Cards), host.Energy)
	fmt.Printf("Joiner: %s (%d cards, energy %v)\n", joiner.Name, len(joiner.Cards), joiner.Energy)

	// Create a pipe for the host's local connection
	hostConn, hostServerConn := net.Pipe()

	// Create controllers
	// Player 0 = host, Player 1 = joiner
	hostCtrl := NewNetworkController(hostServerConn, 0)
	joinerCtrl := NewNetworkController(conn, 1)

	match := game.NewMatch(s.MatchConfig(host, joiner, log.NewTextLogger(os.Stdout)), hostCtrl, joinerCtrl)

	// Run the host's local REPL in a goroutine
	errCh := make(chan error, 2)
	go func() {
		client := &Client{conn: hostConn, playerName: "P1"}
		errCh <- client.RunREPL(ctx)
	}()

	// Run the match
	go func() {
		winner, err := match.Run(ctx)
		if err != nil {
			errCh <- fmt.Errorf("match error: %w", err)
			return
		}

		// Send game_over to both players
		_ = joinerCtrl.SendGameOver(winner, match.State.Result)
		_ = hostCtrl.SendGameOver(winner, match.State.Result)

		errCh <- nil
	}()

	// Wait for either the match or the REPL to finish
	err = <-errCh
	return err
}
