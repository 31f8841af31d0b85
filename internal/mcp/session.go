package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/peterkuimelis/pocketcg/internal/game"
	"github.com/peterkuimelis/pocketcg/internal/log"
	"github.com/peterkuimelis/pocketcg/internal/net"
)

// DecisionType identifies what kind of decision the game engine is waiting for.
type DecisionType string

const (
	DecisionChooseAction DecisionType = "choose_action"
	DecisionChooseIndex  DecisionType = "choose_index"
	DecisionGameOver     DecisionType = "game_over"
)

// PendingDecision represents a decision the game engine is waiting for.
type PendingDecision struct {
	Type     DecisionType     `json:"type"`
	Player   int              `json:"player"`
	State    *net.StateView   `json:"state"`
	Actions  []net.ActionView `json:"actions,omitempty"`
	Kind     string           `json:"kind,omitempty"`
	Prompt   string           `json:"prompt,omitempty"`
	Options  []net.OptionView `json:"options,omitempty"`
	Optional bool             `json:"optional,omitempty"`
}

// ToolResponse is the JSON envelope returned by all MCP tools.
type ToolResponse struct {
	GameID   string          `json:"game_id"`
	Events   []net.EventView `json:"events"`
	State    *net.StateView  `json:"state,omitempty"`
	Pending  *PendingView    `json:"pending,omitempty"`
	GameOver bool            `json:"game_over"`
	Winner   *int            `json:"winner,omitempty"` // set with game_over; -1 is a draw
	Result   string          `json:"result,omitempty"`
}

// PendingView is the pending decision as presented in the tool response JSON.
type PendingView struct {
	Type      DecisionType     `json:"type"`
	ForPlayer string           `json:"for_player"`
	Actions   []net.ActionView `json:"actions,omitempty"`
	Kind      string           `json:"kind,omitempty"`
	Prompt    string           `json:"prompt,omitempty"`
	Options   []net.OptionView `json:"options,omitempty"`
	Optional  bool             `json:"optional,omitempty"`
}

// SessionConfig describes one game started by start_game.
type SessionConfig struct {
	DB           *game.CardDatabase
	DecksFile    string
	AgentDeck    int // 1-indexed
	AgentPlayer  int // 0 goes first
	OpponentDeck int // 0 reuses AgentDeck
	Seed         int64
	MaxTurns     int
	Log          *zap.Logger
}

// GameSession holds the state of a single MCP game session.
type GameSession struct {
	ID string

	duel        *game.Duel
	agentCtrl   *MCPController
	agentPlayer int
	cancel      context.CancelFunc
	log         *zap.Logger

	pendingCh chan *PendingDecision

	mu             sync.Mutex
	currentPending *PendingDecision // nil once answered
	lastState      *net.StateView
	events         []net.EventView
	gameOver bool
	winner   int
	result   string
}

// NewGameSession loads both decks and starts the duel against the built-in
// auto player on its own goroutine.
func NewGameSession(cfg SessionConfig) (*GameSession, error) {
	agentDeck, err := game.DeckByNumber(cfg.DecksFile, cfg.AgentDeck, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("load agent deck: %w", err)
	}
	z := cfg.Log
	if z == nil {
		z = zap.NewNop()
	}

	sess := &GameSession{
		ID:          uuid.NewString(),
		agentPlayer: cfg.AgentPlayer,
		pendingCh:   make(chan *PendingDecision, 1),
		winner:      -1,
	}
	sess.log = z.With(zap.String("game_id", sess.ID))
	sess.agentCtrl = NewMCPController(cfg.AgentPlayer, sess)

	n := cfg.OpponentDeck
	if n == 0 {
		n = cfg.AgentDeck
	}
	oppDeck, err := game.DeckByNumber(cfg.DecksFile, n, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("load bot deck: %w", err)
	}
	oppCtrl := game.NewAutoController()

	dcfg := game.DuelConfig{
		Logger:   log.NewZapLogger(sess.log),
		Seed:     cfg.Seed,
		MaxTurns: cfg.MaxTurns,
	}
	var ctrl0, ctrl1 game.PlayerController
	if cfg.AgentPlayer == 0 {
		dcfg.Deck0, dcfg.Deck1 = agentDeck, oppDeck
		ctrl0, ctrl1 = sess.agentCtrl, oppCtrl
	} else {
		dcfg.Deck0, dcfg.Deck1 = oppDeck, agentDeck
		ctrl0, ctrl1 = oppCtrl, sess.agentCtrl
	}

	sess.duel, err = game.NewDuel(dcfg, ctrl0, ctrl1)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	sess.cancel = cancel
	sess.log.Info("game started",
		zap.String("agent_deck", agentDeck.Name),
		zap.String("bot_deck", oppDeck.Name))

	go sess.run(ctx)
	return sess, nil
}

func (s *GameSession) run(ctx context.Context) {
	winner, err := s.duel.Run(ctx)
	result := s.duel.State.Result
	if err != nil {
		result = fmt.Sprintf("error: %v", err)
		if !errors.Is(err, context.Canceled) {
			s.log.Error("duel aborted", zap.Error(err))
		}
	}
	if result == "" {
		result = fmt.Sprintf("Game over. Winner: player %d", winner)
	}

	s.mu.Lock()
	s.gameOver = true
	s.winner = winner
	s.result = result
	s.mu.Unlock()

	// Closed sessions have nobody left to read the final decision.
	select {
	case s.pendingCh <- &PendingDecision{
		Type:   DecisionGameOver,
		Player: winner,
		State:  net.BuildStateView(s.duel.State, s.agentPlayer),
	}:
	case <-ctx.Done():
	}
}

// claim takes the pending decision unless check reports a problem with it,
// so each decision is answered once. check runs with s.mu held.
func (s *GameSession) claim(check func(*PendingDecision) string) (*PendingDecision, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.currentPending
	if problem := check(p); problem != "" {
		return nil, problem
	}
	s.currentPending = nil
	return p, ""
}

// unclaim puts back a decision whose answer was never delivered.
func (s *GameSession) unclaim(p *PendingDecision) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentPending == nil {
		s.currentPending = p
	}
}

// Close stops the duel goroutine.
func (s *GameSession) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}

// appendEvent adds an event to the session's event log. Thread-safe.
func (s *GameSession) appendEvent(ev net.EventView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

// drainEvents returns all accumulated events and clears the buffer.
func (s *GameSession) drainEvents() []net.EventView {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.events
	s.events = nil
	if events == nil {
		events = []net.EventView{}
	}
	return events
}

// waitForPending blocks until the next decision arrives from the game engine,
// then builds a ToolResponse with accumulated events + the pending decision.
func (s *GameSession) waitForPending(ctx context.Context) (*ToolResponse, error) {
	var pending *PendingDecision
	select {
	case pending = <-s.pendingCh:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	s.mu.Lock()
	s.currentPending = pending
	s.lastState = pending.State
	s.mu.Unlock()

	resp := &ToolResponse{
		GameID: s.ID,
		Events: s.drainEvents(),
		State:  pending.State,
	}

	if pending.Type == DecisionGameOver {
		s.mu.Lock()
		resp.GameOver = true
		resp.Winner = &s.winner
		resp.Result = s.result
		s.mu.Unlock()
		return resp, nil
	}

	resp.Pending = s.pendingView(pending)
	return resp, nil
}

func (s *GameSession) pendingView(p *PendingDecision) *PendingView {
	return &PendingView{
		Type:      p.Type,
		ForPlayer: s.playerLabel(p.Player),
		Actions:   p.Actions,
		Kind:      p.Kind,
		Prompt:    p.Prompt,
		Options:   p.Options,
		Optional:  p.Optional,
	}
}

// playerLabel returns "agent" or "bot" for the given player index.
func (s *GameSession) playerLabel(player int) string {
	if player == s.agentPlayer {
		return "agent"
	}
	return "bot"
}

// respondJSON marshals a ToolResponse to a JSON string.
func respondJSON(resp *ToolResponse) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
