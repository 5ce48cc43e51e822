package web

import (
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"

	"github.com/coder/websocket"

	"github.com/peterkuimelis/tcgpx/internal/catalog"
	"github.com/peterkuimelis/tcgpx/internal/effectdata"
	"github.com/peterkuimelis/tcgpx/internal/game"
)

//go:embed static
var staticFiles embed.FS

// CardInfo is the JSON representation of a card for the /api/cards endpoint.
type CardInfo struct {
	Key         string       `json:"key"`
	Name        string       `json:"name"`
	Category    string       `json:"category"`
	Stage       string       `json:"stage,omitempty"`
	EvolvesFrom string       `json:"evolvesFrom,omitempty"`
	Types       []string     `json:"types,omitempty"`
	HP          int          `json:"hp,omitempty"`
	Retreat     int          `json:"retreat,omitempty"`
	Weakness    string       `json:"weakness,omitempty"`
	Attacks     []AttackInfo `json:"attacks,omitempty"`
	Abilities   []string     `json:"abilities,omitempty"`
	TrainerType string       `json:"trainerType,omitempty"`
	ArtPath     string       `json:"artPath,omitempty"`
}

// AttackInfo is one printed attack.
type AttackInfo struct {
	Name   string   `json:"name"`
	Cost   []string `json:"cost"`
	Damage string   `json:"damage,omitempty"`
	Effect string   `json:"effect,omitempty"`
}

// DeckInfo is the JSON representation of a deck for the /api/decks endpoint.
type DeckInfo struct {
	Number int      `json:"number"`
	Name   string   `json:"name"`
	Cards  []string `json:"cards"`
}

// Server is the tcgpx web UI server.
type Server struct {
	artDir     string
	decksFile  string
	catalog    *catalog.Catalog
	tables     *effectdata.Tables
	artMapping map[string]string // card key → art file path
	mux        *http.ServeMux
}

// NewServer creates a new web server.
func NewServer(artDir, decksFile, mappingFile string, cat *catalog.Catalog, tables *effectdata.Tables) (*Server, error) {
	if cat == nil {
		return nil, fmt.Errorf("web: catalog is required")
	}
	if tables == nil {
		tables = effectdata.Empty()
	}

	// Load art mapping
	artMapping := make(map[string]string)
	data, err := os.ReadFile(mappingFile)
	if err != nil {
		slog.Warn("could not load art mapping", "file", mappingFile, "err", err)
	} else {
		if err := json.Unmarshal(data, &artMapping); err != nil {
			slog.Warn("could not parse art mapping", "file", mappingFile, "err", err)
		}
	}

	s := &Server{
		artDir:     artDir,
		decksFile:  decksFile,
		catalog:    cat,
		tables:     tables,
		artMapping: artMapping,
		mux:        http.NewServeMux(),
	}
	s.setupRoutes()
	return s, nil
}

// Handler exposes the route table.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) setupRoutes() {
	// Embedded static files
	staticFS, _ := fs.Sub(staticFiles, "static")

	// Serve index.html at root
	s.mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		f, err := staticFS.Open("index.html")
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer f.Close()
		io.Copy(w, f.(io.Reader))
	})

	// Static CSS/JS
	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// Card art from filesystem
	s.mux.Handle("GET /art/", http.StripPrefix("/art/", http.FileServer(http.Dir(s.artDir))))

	// API endpoints
	s.mux.HandleFunc("GET /api/cards", s.handleCards)
	s.mux.HandleFunc("GET /api/decks", s.handleDecks)
	s.mux.HandleFunc("GET /api/effects", s.handleEffects)

	// WebSocket proxy
	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cards := make([]CardInfo, 0, s.catalog.Len())
	for _, key := range s.catalog.Keys() {
		i := strings.LastIndex(key, "-")
		set, number := key[:i], key[i+1:]
		c, err := s.catalog.FetchCard(ctx, set, number)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		cards = append(cards, s.cardInfo(c))
	}
	writeJSON(w, cards)
}

func (s *Server) cardInfo(c *game.Card) CardInfo {
	ci := CardInfo{
		Key:         c.Key(),
		Name:        c.Name,
		Category:    c.Category.String(),
		HP:          c.HP,
		Retreat:     c.RetreatCost,
		Abilities:   c.Abilities,
		TrainerType: c.TrainerType,
	}
	if c.IsPokemon() {
		ci.Stage = c.Stage.String()
		ci.EvolvesFrom = c.EvolvesFrom
		if c.Weakness != game.EnergyAny {
			ci.Weakness = c.Weakness.String()
		}
	}
	for _, t := range c.Types {
		ci.Types = append(ci.Types, t.String())
	}
	for _, a := range c.Attacks {
		ai := AttackInfo{Name: a.Name, Damage: a.Damage}
		for _, e := range a.Cost {
			ai.Cost = append(ai.Cost, e.String())
		}
		if row, ok := s.tables.LookupMove(c.Name, a.Name); ok {
			ai.Effect = row.Kind
		}
		ci.Attacks = append(ci.Attacks, ai)
	}
	// Art path: strip "card_art/" prefix since we serve from /art/
	if artPath, ok := s.artMapping[c.Key()]; ok {
		ci.ArtPath = "/art/" + strings.TrimPrefix(artPath, "card_art/")
	}
	return ci
}

func (s *Server) handleDecks(w http.ResponseWriter, r *http.Request) {
	data, err := os.ReadFile(s.decksFile)
	if err != nil {
		http.Error(w, "could not read decks file", http.StatusInternalServerError)
		return
	}

	df, err := parseDeckFileYAML(data)
	if err != nil {
		http.Error(w, "could not parse decks file", http.StatusInternalServerError)
		return
	}

	decks := make([]DeckInfo, 0, len(df.Decks))
	for i, d := range df.Decks {
		decks = append(decks, DeckInfo{
			Number: i + 1,
			Name:   d.Name,
			Cards:  deckCardNames(d),
		})
	}
	writeJSON(w, decks)
}

// EffectsInfo lists the implemented effect kinds next to the kinds the
// loaded tables reference.
type EffectsInfo struct {
	Moves     []string       `json:"moves"`
	Trainers  []string       `json:"trainers"`
	Abilities []string       `json:"abilities"`
	Rows      map[string]int `json:"rows"`
}

func (s *Server) handleEffects(w http.ResponseWriter, r *http.Request) {
	info := EffectsInfo{
		Moves:     game.RegisteredKinds(game.MoveEffects),
		Trainers:  game.RegisteredKinds(game.TrainerEffects),
		Abilities: game.RegisteredKinds(game.AbilityEffects),
		Rows:      make(map[string]int),
	}
	for kind, n := range s.tables.Counts() {
		info.Rows[kind.String()] = n
	}
	writeJSON(w, info)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode response", "err", err)
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	wsConn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		slog.Warn("websocket accept", "err", err)
		return
	}
	defer wsConn.CloseNow()

	ctx := r.Context()

	// Read initial connect message from browser
	_, connectData, err := wsConn.Read(ctx)
	if err != nil {
		slog.Warn("websocket read connect", "err", err)
		return
	}

	var connectMsg struct {
		Type       string `json:"type"`
		Addr       string `json:"addr"`
		DeckNumber int    `json:"deck_number"`
	}
	if err := json.Unmarshal(connectData, &connectMsg); err != nil || connectMsg.Type != "connect" {
		wsConn.Close(websocket.StatusPolicyViolation, "expected connect message")
		return
	}

	// Open TCP connection to the match server
	tcpConn, err := net.Dial("tcp", connectMsg.Addr)
	if err != nil {
		errMsg, _ := json.Marshal(map[string]string{
			"type":   "error",
			"result": fmt.Sprintf("Could not connect to match server at %s: %v", connectMsg.Addr, err),
		})
		wsConn.Write(ctx, websocket.MessageText, errMsg)
		wsConn.Close(websocket.StatusNormalClosure, "connection failed")
		return
	}
	defer tcpConn.Close()

	// Send join message over TCP
	joinMsg, _ := json.Marshal(map[string]interface{}{
		"type":        "join",
		"deck_number": connectMsg.DeckNumber,
	})
	joinMsg = append(joinMsg, '\n')
	if _, err := tcpConn.Write(joinMsg); err != nil {
		slog.Warn("tcp write join", "err", err)
		return
	}

	done := make(chan struct{})

	// TCP → WebSocket (server messages to browser)
	go func() {
		defer close(done)
		dec := json.NewDecoder(tcpConn)
		for {
			var msg json.RawMessage
			if err := dec.Decode(&msg); err != nil {
				if err != io.EOF {
					slog.Warn("tcp read", "err", err)
				}
				return
			}
			if err := wsConn.Write(ctx, websocket.MessageText, msg); err != nil {
				slog.Warn("websocket write", "err", err)
				return
			}
		}
	}()

	// WebSocket → TCP (browser responses to server)
	go func() {
		for {
			_, data, err := wsConn.Read(ctx)
			if err != nil {
				return
			}
			data = append(data, '\n')
			if _, err := tcpConn.Write(data); err != nil {
				slog.Warn("tcp write", "err", err)
				return
			}
		}
	}()

	<-done
	wsConn.Close(websocket.StatusNormalClosure, "match ended")
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.mux)
}
