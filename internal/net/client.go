package net

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/peterkuimelis/tcgpx/internal/log"
)

// Client connects to a game server and provides a terminal REPL.
type Client struct {
	conn       net.Conn
	playerName string // "P1" or "P2"
}

// Connect connects to a server, sends the deck choice, and runs the REPL.
func Connect(ctx context.Context, addr string, deckNumber int) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	// Send join message with deck choice
	enc := json.NewEncoder(conn)
	if err := enc.Encode(ClientMessage{Type: "join", DeckNumber: deckNumber}); err != nil {
		return fmt.Errorf("send join: %w", err)
	}

	fmt.Println("Connected! Waiting for the match to start...")

	client := &Client{conn: conn, playerName: "P2"}
	return client.RunREPL(ctx)
}

// RunREPL reads server messages and handles them interactively.
func (c *Client) RunREPL(ctx context.Context) error {
	dec := json.NewDecoder(c.conn)
	enc := json.NewEncoder(c.conn)
	reader := bufio.NewReader(os.Stdin)

	for {
		var msg ServerMessage
		if err := dec.Decode(&msg); err != nil {
			return fmt.Errorf("read message: %w", err)
		}

		switch msg.Type {
		case "notify":
			c.renderEvent(msg.Event)

		case "choose_action":
			c.renderState(msg.State)
			c.renderActions(msg.Actions)
			idx := c.readChoice(reader, len(msg.Actions))
			if err := enc.Encode(ClientMessage{Type: "action", Index: idx}); err != nil {
				return fmt.Errorf("send action: %w", err)
			}

		case "choose_cards":
			if msg.State != nil {
				c.renderState(msg.State)
			}
			c.renderCardChoice(msg.Prompt, msg.Candidates, msg.Min, msg.Max)
			indices := c.readCardIndices(reader, len(msg.Candidates), msg.Min, msg.Max)
			if err := enc.Encode(ClientMessage{Type: "cards", Indices: indices}); err != nil {
				return fmt.Errorf("send cards: %w", err)
			}

		case "choose_yes_no":
			fmt.Printf("\n%s (y/n): ", msg.Prompt)
			answer := c.readYesNo(reader)
			if err := enc.Encode(ClientMessage{Type: "yes_no", Answer: answer}); err != nil {
				return fmt.Errorf("send yes_no: %w", err)
			}

		case "game_over":
			fmt.Println()
			fmt.Println("═══════════════════════════════════")
			fmt.Println("          GAME OVER")
			fmt.Println("═══════════════════════════════════")
			fmt.Println(msg.Result)
			fmt.Println("═══════════════════════════════════")
			return nil
		}
	}
}

func (c *Client) renderEvent(ev *EventView) {
	if ev == nil {
		return
	}
	// Format like the TextLogger
	fmt.Printf("T%-2d %s | %s\n", ev.Turn, log.PlayerName(ev.Player), ev.Details)
}

func (c *Client) renderState(sv *StateView) {
	if sv == nil {
		return
	}

	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════════════╗")

	// Opponent info
	opp := sv.Opponent
	fmt.Printf("║  OPPONENT  Hand: %d  Deck: %d  Discard: %d\n",
		opp.HandCount, opp.DeckCount, opp.DiscardCount)
	fmt.Printf("║  Bench:   %s\n", formatBench(opp.Bench))
	fmt.Printf("║  Active:  %s\n", formatPokemon(opp.Active))

	fmt.Println("║──────────────────────────────────────────────────────")

	you := sv.You
	fmt.Printf("║  Active:  %s\n", formatPokemon(you.Active))
	fmt.Printf("║  Bench:   %s\n", formatBench(you.Bench))
	fmt.Printf("║  YOU  Hand: %d  Deck: %d  Discard: %d\n",
		you.HandCount, you.DeckCount, you.DiscardCount)
	if you.CurrentEnergy != "" || you.NextEnergy != "" {
		fmt.Printf("║  Energy:  %s (next %s)\n", orDash(you.CurrentEnergy), orDash(you.NextEnergy))
	}
	fmt.Println("╚══════════════════════════════════════════════════════╝")

	turnInfo := fmt.Sprintf("Turn %d", sv.Turn)
	if sv.IsYourTurn {
		turnInfo += " | Your turn"
	} else {
		turnInfo += " | Opponent's turn"
	}
	fmt.Println(turnInfo)

	// Show hand
	if len(you.Hand) > 0 {
		fmt.Printf("\nHand: ")
		for i, name := range you.Hand {
			fmt.Printf("[%d] %s  ", i+1, name)
		}
		fmt.Println()
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatPokemon(pv *PokemonView) string {
	if pv == nil {
		return "[ ]"
	}
	s := fmt.Sprintf("[%s %d/%d", pv.Name, pv.HP, pv.MaxHP)
	if len(pv.Energy) > 0 {
		s += " " + strings.Join(pv.Energy, ",")
	}
	if pv.Status != "" {
		s += " " + pv.Status
	}
	if pv.Tool != "" {
		s += " +" + pv.Tool
	}
	return s + "]"
}

func formatBench(bench []PokemonView) string {
	if len(bench) == 0 {
		return "(empty)"
	}
	parts := make([]string, len(bench))
	for i := range bench {
		parts[i] = formatPokemon(&bench[i])
	}
	return strings.Join(parts, " ")
}

func (c *Client) renderActions(actions []ActionView) {
	fmt.Println("\nActions:")
	for _, a := range actions {
		fmt.Printf("  %d) %s\n", a.Index+1, a.Desc)
	}
}

func (c *Client) readChoice(reader *bufio.Reader, count int) int {
	for {
		fmt.Print("> ")
		line, _ := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > count {
			fmt.Printf("Enter a number between 1 and %d\n", count)
			continue
		}
		return n - 1 // convert to 0-indexed
	}
}

func (c *Client) renderCardChoice(prompt string, candidates []CardView, min, max int) {
	fmt.Printf("\n%s (select %d", prompt, min)
	if max != min {
		fmt.Printf("-%d", max)
	}
	fmt.Println(")")
	for _, cv := range candidates {
		if cv.MaxHP > 0 {
			fmt.Printf("  %d) %s (%d/%d HP, %s)\n", cv.Index+1, cv.Name, cv.HP, cv.MaxHP, cv.Zone)
		} else {
			fmt.Printf("  %d) %s\n", cv.Index+1, cv.Name)
		}
	}
}

func (c *Client) readCardIndices(reader *bufio.Reader, count, min, max int) []int {
	for {
		fmt.Print("> ")
		line, _ := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		parts := strings.Fields(line)

		if len(parts) < min || len(parts) > max {
			fmt.Printf("Enter %d-%d numbers separated by spaces\n", min, max)
			continue
		}

		var indices []int
		valid := true
		for _, p := range parts {
			n, err := strconv.Atoi(p)
			if err != nil || n < 1 || n > count {
				fmt.Printf("Each number must be between 1 and %d\n", count)
				valid = false
				break
			}
			indices = append(indices, n-1) // convert to 0-indexed
		}
		if valid {
			return indices
		}
	}
}

func (c *Client) readYesNo(reader *bufio.Reader) bool {
	for {
		line, _ := reader.ReadString('\n')
		line = strings.TrimSpace(strings.ToLower(line))
		switch line {
		case "y", "yes":
			return true
		case "n", "no":
			return false
		default:
			fmt.Print("Enter y or n: ")
		}
	}
}
