package net

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"

	"github.com/peterkuimelis/pocketcg/internal/game"
	"github.com/peterkuimelis/pocketcg/internal/log"
)

// NetworkController implements game.PlayerController over a stream
// connection carrying newline-delimited JSON.
type NetworkController struct {
	conn   net.Conn
	enc    *json.Encoder
	dec    *json.Decoder
	player int // which player this controller is (0 or 1)
	mu     sync.Mutex
}

// NewNetworkController creates a new controller for the given connection.
func NewNetworkController(conn net.Conn, player int) *NetworkController {
	return &NetworkController{
		conn:   conn,
		enc:    json.NewEncoder(conn),
		dec:    json.NewDecoder(conn),
		player: player,
	}
}

// buildStateView creates a StateView from the perspective of this controller's player.
func (nc *NetworkController) buildStateView(state *game.GameState) *StateView {
	return BuildStateView(state, nc.player)
}

// send sends a server message to the client. Must be called with mu held.
func (nc *NetworkController) send(msg ServerMessage) error {
	return nc.enc.Encode(msg)
}

// recv reads a client message. Must be called with mu held.
func (nc *NetworkController) recv() (ClientMessage, error) {
	var msg ClientMessage
	err := nc.dec.Decode(&msg)
	return msg, err
}

// ChooseAction implements game.PlayerController.
func (nc *NetworkController) ChooseAction(ctx context.Context, state *game.GameState, actions []game.Action) (game.Action, error) {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	views := make([]ActionView, 0, len(actions))
	for i, a := range actions {
		views = append(views, ActionView{Index: i, Type: a.Type.String(), Desc: a.String()})
	}

	msg := ServerMessage{
		Type:    "choose_action",
		Actions: views,
		State:   nc.buildStateView(state),
	}
	if err := nc.send(msg); err != nil {
		return game.Action{}, fmt.Errorf("send choose_action: %w", err)
	}

	resp, err := nc.recv()
	if err != nil {
		return game.Action{}, fmt.Errorf("recv action: %w", err)
	}

	if resp.Index < 0 || resp.Index >= len(actions) {
		return actions[0], nil // fallback to first action
	}
	return actions[resp.Index], nil
}

// ChooseIndex implements game.PlayerController. The engine validates the
// answer, so out-of-range indices are passed through unchanged.
func (nc *NetworkController) ChooseIndex(ctx context.Context, state *game.GameState, decision game.Decision) (int, error) {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	options := make([]OptionView, 0, len(decision.Options))
	for i, o := range decision.Options {
		options = append(options, OptionView{Index: i, Desc: o})
	}

	msg := ServerMessage{
		Type:     "choose_index",
		Kind:     decision.Kind.String(),
		Prompt:   decision.Prompt,
		Options:  options,
		Optional: decision.Optional,
		State:    nc.buildStateView(state),
	}
	if err := nc.send(msg); err != nil {
		return 0, fmt.Errorf("send choose_index: %w", err)
	}

	resp, err := nc.recv()
	if err != nil {
		return 0, fmt.Errorf("recv index: %w", err)
	}
	return resp.Index, nil
}

// SendGameOver sends a game_over message to the client.
func (nc *NetworkController) SendGameOver(winner int, result string) error {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	return nc.send(ServerMessage{Type: "game_over", Winner: winner, Result: result})
}

// Notify implements game.PlayerController.
func (nc *NetworkController) Notify(ctx context.Context, event log.GameEvent) error {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	return nc.send(ServerMessage{Type: "notify", Event: NewEventView(event)})
}

// NewEventView converts a logged event for the wire.
func NewEventView(event log.GameEvent) *EventView {
	return &EventView{
		Turn:    event.Turn,
		Phase:   event.Phase,
		Player:  event.Player,
		Type:    event.Type.String(),
		Card:    event.Card,
		Details: event.Details,
	}
}
