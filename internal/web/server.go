package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"sort"
	"strings"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/peterkuimelis/pocketcg/internal/game"
	"github.com/peterkuimelis/pocketcg/internal/log"
	"github.com/peterkuimelis/pocketcg/internal/net"
)

//go:embed static
var staticFiles embed.FS

// CardInfo is the JSON representation of a card for the /api/cards endpoint.
type CardInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Stage       string   `json:"stage,omitempty"`
	EvolvesFrom string   `json:"evolvesFrom,omitempty"`
	HP          int      `json:"hp,omitempty"`
	Element     string   `json:"element,omitempty"`
	Weakness    string   `json:"weakness,omitempty"`
	RetreatCost int      `json:"retreatCost,omitempty"`
	IsEx        bool     `json:"ex,omitempty"`
	Attacks     []string `json:"attacks,omitempty"`
	Effect      string   `json:"effect,omitempty"`
	Rarity      string   `json:"rarity,omitempty"`
	Set         string   `json:"set,omitempty"`
	Image       string   `json:"image,omitempty"`
}

// DeckInfo is the JSON representation of a deck for the /api/decks endpoint.
type DeckInfo struct {
	Number int      `json:"number"`
	Name   string   `json:"name"`
	Energy []string `json:"energy"`
	Cards  []string `json:"cards"`
	Valid  bool     `json:"valid"`
	Error  string   `json:"error,omitempty"`
}

// Server is the pocketcg web UI server. Each WebSocket connection plays one
// game against the built-in auto player.
type Server struct {
	db        *game.CardDatabase
	decksFile string
	maxTurns  int
	log       *zap.Logger
	mux       *http.ServeMux
}

// NewServer creates a new web server.
func NewServer(db *game.CardDatabase, decksFile string, maxTurns int, z *zap.Logger) *Server {
	if z == nil {
		z = zap.NewNop()
	}
	s := &Server{
		db:        db,
		decksFile: decksFile,
		maxTurns:  maxTurns,
		log:       z,
		mux:       http.NewServeMux(),
	}
	s.setupRoutes()
	return s
}

// Handler returns the HTTP handler serving every route.
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
		io.Copy(w, f)
	})

	// Static CSS/JS
	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// API endpoints
	s.mux.HandleFunc("GET /api/cards", s.handleCards)
	s.mux.HandleFunc("GET /api/decks", s.handleDecks)

	// One game per socket
	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
}

// handleCards lists the card database, optionally filtered by ?category=
// and ?element= (both case-insensitive).
func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	category := strings.ToLower(r.URL.Query().Get("category"))
	element := r.URL.Query().Get("element")
	var want game.ElementType
	if element != "" {
		var ok bool
		if want, ok = game.LookupElement(element); !ok {
			http.Error(w, "unknown element", http.StatusBadRequest)
			return
		}
	}

	matches := s.db.Filter(func(c *game.Card) bool {
		if category != "" && strings.ToLower(c.Category.String()) != category {
			return false
		}
		if element != "" && (!c.IsPokemon() || c.Element != want) {
			return false
		}
		return true
	})

	cards := make([]CardInfo, 0, len(matches))
	for _, c := range matches {
		cards = append(cards, cardInfo(c))
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cards)
}

func cardInfo(c *game.Card) CardInfo {
	ci := CardInfo{
		ID:       c.ID,
		Name:     c.Name,
		Category: c.Category.String(),
		Rarity:   c.Rarity,
		Set:      c.Set,
		Image:    c.Image,
	}
	if !c.IsPokemon() {
		ci.Effect = c.Ability.Effect
		return ci
	}
	ci.Stage = c.Stage
	ci.EvolvesFrom = c.EvolvesFrom()
	ci.HP = c.HP
	ci.Element = c.Element.String()
	ci.Weakness = c.Weakness
	ci.RetreatCost = c.RetreatCost
	ci.IsEx = c.IsEx
	for _, a := range c.Attacks {
		ci.Attacks = append(ci.Attacks, a.Name)
	}
	return ci
}

func (s *Server) handleDecks(w http.ResponseWriter, r *http.Request) {
	df, err := game.LoadDeckFile(s.decksFile)
	if err != nil {
		s.log.Warn("load decks", zap.Error(err))
		http.Error(w, "could not read decks file", http.StatusInternalServerError)
		return
	}

	decks := make([]DeckInfo, 0, len(df.Decks))
	for i, d := range df.Decks {
		di := DeckInfo{
			Number: i + 1,
			Name:   d.Name,
			Energy: d.Energy,
			Valid:  true,
		}
		// Unique card names for display
		seen := make(map[string]bool)
		for _, c := range d.Cards {
			if !seen[c.Name] {
				di.Cards = append(di.Cards, c.Name)
				seen[c.Name] = true
			}
		}
		sort.Strings(di.Cards)
		if _, err := d.Build(s.db); err != nil {
			di.Valid = false
			di.Error = err.Error()
		}
		decks = append(decks, di)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(decks)
}

// handleWebSocket reads a join message naming both decks, then plays the
// browser as player 0 against the auto player, speaking the same JSON
// protocol as the terminal client.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	wsConn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		s.log.Warn("websocket accept", zap.Error(err))
		return
	}
	defer wsConn.CloseNow()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	gameID := uuid.NewString()
	z := s.log.With(zap.String("game_id", gameID))

	_, joinData, err := wsConn.Read(ctx)
	if err != nil {
		z.Warn("websocket read join", zap.Error(err))
		return
	}
	var join net.ClientMessage
	if err := json.Unmarshal(joinData, &join); err != nil || join.Type != "join" {
		wsConn.Close(websocket.StatusPolicyViolation, "expected join message")
		return
	}

	human, bot, err := s.loadDecks(join)
	if err != nil {
		errMsg, _ := json.Marshal(net.ServerMessage{Type: "error", Result: err.Error()})
		wsConn.Write(ctx, websocket.MessageText, errMsg)
		wsConn.Close(websocket.StatusNormalClosure, "bad deck")
		return
	}

	// Every Encode is one text frame; the decoder reads frames as a stream.
	conn := websocket.NetConn(ctx, wsConn, websocket.MessageText)
	ctrl := net.NewNetworkController(conn, 0)

	duel, err := game.NewDuel(game.DuelConfig{
		Deck0:         human,
		Deck1:         bot,
		Names:         [2]string{"You", "Bot"},
		Logger:        log.NewZapLogger(z),
		Seed:          join.Seed,
		MaxTurns:      s.maxTurns,
		CoinFlipFirst: true,
	}, ctrl, game.NewAutoController())
	if err != nil {
		z.Error("new duel", zap.Error(err))
		return
	}

	z.Info("web game started", zap.String("deck", human.Name), zap.String("bot_deck", bot.Name))
	winner, err := duel.Run(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			z.Warn("duel aborted", zap.Error(err))
		}
		return
	}
	if err := ctrl.SendGameOver(winner, duel.State.Result); err != nil {
		z.Warn("send game_over", zap.Error(err))
	}
	wsConn.Close(websocket.StatusNormalClosure, "game ended")
}

func (s *Server) loadDecks(join net.ClientMessage) (human, bot *game.Deck, err error) {
	n := join.DeckNumber
	if n == 0 {
		n = 1
	}
	m := join.OpponentDeck
	if m == 0 {
		m = n
	}
	if human, err = game.DeckByNumber(s.decksFile, n, s.db); err != nil {
		return nil, nil, err
	}
	if bot, err = game.DeckByNumber(s.decksFile, m, s.db); err != nil {
		return nil, nil, err
	}
	return human, bot, nil
}

// ListenAndServe starts the HTTP server and stops it when ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.mux}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
