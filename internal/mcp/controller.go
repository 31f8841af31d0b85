package mcp

import (
	"context"

	"github.com/peterkuimelis/pocketcg/internal/game"
	"github.com/peterkuimelis/pocketcg/internal/log"
	"github.com/peterkuimelis/pocketcg/internal/net"
)

// MCPController implements game.PlayerController by sending decisions
// to the MCP session's pending channel and blocking on a response channel.
type MCPController struct {
	player     int
	session    *GameSession
	responseCh chan int
}

// NewMCPController creates a controller for the given player.
func NewMCPController(player int, session *GameSession) *MCPController {
	return &MCPController{
		player:     player,
		session:    session,
		responseCh: make(chan int),
	}
}

// ask publishes a pending decision and waits for the agent's index.
func (c *MCPController) ask(ctx context.Context, pd *PendingDecision) (int, error) {
	select {
	case c.session.pendingCh <- pd:
	case <-ctx.Done():
		return 0, ctx.Err()
	}
	select {
	case idx := <-c.responseCh:
		return idx, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// ChooseAction implements game.PlayerController.
func (c *MCPController) ChooseAction(ctx context.Context, state *game.GameState, actions []game.Action) (game.Action, error) {
	views := make([]net.ActionView, 0, len(actions))
	for i, a := range actions {
		views = append(views, net.ActionView{Index: i, Type: a.Type.String(), Desc: a.String()})
	}

	idx, err := c.ask(ctx, &PendingDecision{
		Type:    DecisionChooseAction,
		Player:  c.player,
		State:   net.BuildStateView(state, c.player),
		Actions: views,
	})
	if err != nil {
		return game.Action{}, err
	}
	if idx < 0 || idx >= len(actions) {
		return actions[0], nil
	}
	return actions[idx], nil
}

// ChooseIndex implements game.PlayerController.
func (c *MCPController) ChooseIndex(ctx context.Context, state *game.GameState, decision game.Decision) (int, error) {
	options := make([]net.OptionView, 0, len(decision.Options))
	for i, o := range decision.Options {
		options = append(options, net.OptionView{Index: i, Desc: o})
	}

	return c.ask(ctx, &PendingDecision{
		Type:     DecisionChooseIndex,
		Player:   c.player,
		State:    net.BuildStateView(state, c.player),
		Kind:     decision.Kind.String(),
		Prompt:   decision.Prompt,
		Options:  options,
		Optional: decision.Optional,
	})
}

// Notify implements game.PlayerController.
// Only the agent's controller appends events to avoid duplicates.
func (c *MCPController) Notify(ctx context.Context, event log.GameEvent) error {
	if c.player == c.session.agentPlayer {
		c.session.appendEvent(*net.NewEventView(event))
	}
	return nil
}
