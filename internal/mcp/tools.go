package mcp

import (
	"context"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/peterkuimelis/pocketcg/internal/game"
)

// Service owns the single game an MCP stdio process plays.
type Service struct {
	DB        *game.CardDatabase
	DecksFile string
	Seed      int64
	MaxTurns  int
	Log       *zap.Logger

	mu     sync.Mutex
	active *GameSession
}

// RegisterTools adds all game tools to the MCP server.
func (svc *Service) RegisterTools(s *server.MCPServer) {
	s.AddTool(startGameTool(), svc.handleStartGame)
	s.AddTool(takeActionTool(), svc.handleTakeAction)
	s.AddTool(chooseOptionTool(), svc.handleChooseOption)
	s.AddTool(getGameStateTool(), svc.handleGetGameState)
}

// Close stops a running game, if any.
func (svc *Service) Close() {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	if svc.active != nil {
		svc.active.Close()
		svc.active = nil
	}
}

// --- Tool definitions ---

func startGameTool() mcp.Tool {
	return mcp.NewTool("start_game",
		mcp.WithDescription("Start a new Pokémon TCG Pocket game. Returns the initial game state and first pending decision. "+
			"The opponent is the built-in bot, which plays its turns between your decisions."),
		mcp.WithNumber("agent_deck", mcp.Required(), mcp.Description("Deck number for the agent (1-indexed from decks.yaml)")),
		mcp.WithNumber("agent_player", mcp.Required(), mcp.Description("Which player the agent is: 0 = goes first, 1 = goes second")),
		mcp.WithNumber("opponent_deck", mcp.Description("Deck number for the bot (defaults to agent_deck)")),
	)
}

func takeActionTool() mcp.Tool {
	return mcp.NewTool("take_action",
		mcp.WithDescription("Choose an action from the pending action list. Use this when the pending decision type is 'choose_action'."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based index of the action to take from the actions list")),
	)
}

func chooseOptionTool() mcp.Tool {
	return mcp.NewTool("choose_option",
		mcp.WithDescription("Pick one option (a Pokémon to promote, bench, or attach to). Use this when the pending decision type is 'choose_index'."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based index into the options list, or -1 to decline an optional decision")),
	)
}

func getGameStateTool() mcp.Tool {
	return mcp.NewTool("get_game_state",
		mcp.WithDescription("Get the current game state, accumulated events, and pending decision without submitting a response. Read-only."),
	)
}

// --- Tool handlers ---

func (svc *Service) session() *GameSession {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.active
}

func (svc *Service) finish(resp *ToolResponse) {
	if !resp.GameOver {
		return
	}
	svc.mu.Lock()
	svc.active = nil
	svc.mu.Unlock()
}

func (svc *Service) handleStartGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if svc.session() != nil {
		return mcp.NewToolResultError("A game is already running. Only one game at a time is supported."), nil
	}

	agentDeck := request.GetInt("agent_deck", 0)
	agentPlayer := request.GetInt("agent_player", 0)

	if agentDeck < 1 {
		return mcp.NewToolResultError("agent_deck must be >= 1"), nil
	}
	if agentPlayer != 0 && agentPlayer != 1 {
		return mcp.NewToolResultError("agent_player must be 0 or 1"), nil
	}

	sess, err := NewGameSession(SessionConfig{
		DB:           svc.DB,
		DecksFile:    svc.DecksFile,
		AgentDeck:    agentDeck,
		AgentPlayer:  agentPlayer,
		OpponentDeck: request.GetInt("opponent_deck", 0),
		Seed:         svc.Seed,
		MaxTurns:     svc.MaxTurns,
		Log:          svc.Log,
	})
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to start game: %v", err), nil
	}

	svc.mu.Lock()
	svc.active = sess
	svc.mu.Unlock()

	resp, err := sess.waitForPending(ctx)
	if err != nil {
		return mcp.NewToolResultErrorf("Error waiting for first decision: %v", err), nil
	}
	svc.finish(resp)

	return mcp.NewToolResultText(respondJSON(resp)), nil
}

// answer validates that the agent owes a decision of type want and feeds it idx.
func (svc *Service) answer(ctx context.Context, want DecisionType, idx int) *mcp.CallToolResult {
	sess := svc.session()
	if sess == nil {
		return mcp.NewToolResultError("No game is running. Use start_game first.")
	}

	pending, problem := sess.claim(func(pd *PendingDecision) string {
		if pd == nil {
			return "No pending decision."
		}
		if pd.Player != sess.agentPlayer {
			return "Waiting for the bot to respond."
		}
		if pd.Type != want {
			return fmt.Sprintf("Wrong tool: pending decision is '%s', not '%s'. Use the correct tool.", pd.Type, want)
		}
		switch want {
		case DecisionChooseAction:
			if idx < 0 || idx >= len(pd.Actions) {
				return fmt.Sprintf("Invalid index %d. Must be 0-%d.", idx, len(pd.Actions)-1)
			}
		case DecisionChooseIndex:
			if idx == -1 && !pd.Optional {
				return "This decision cannot be declined."
			}
			if idx < -1 || idx >= len(pd.Options) {
				return fmt.Sprintf("Invalid index %d. Must be 0-%d.", idx, len(pd.Options)-1)
			}
		}
		return ""
	})
	if problem != "" {
		return mcp.NewToolResultError(problem)
	}

	select {
	case sess.agentCtrl.responseCh <- idx:
	case <-ctx.Done():
		sess.unclaim(pending)
		return mcp.NewToolResultErrorf("Cancelled: %v", ctx.Err())
	}

	resp, err := sess.waitForPending(ctx)
	if err != nil {
		return mcp.NewToolResultErrorf("Error waiting for next decision: %v", err)
	}
	svc.finish(resp)

	return mcp.NewToolResultText(respondJSON(resp))
}

func (svc *Service) handleTakeAction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return svc.answer(ctx, DecisionChooseAction, request.GetInt("index", -1)), nil
}

func (svc *Service) handleChooseOption(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return svc.answer(ctx, DecisionChooseIndex, request.GetInt("index", -2)), nil
}

func (svc *Service) handleGetGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := svc.session()
	if sess == nil {
		return mcp.NewToolResultError("No game is running. Use start_game first."), nil
	}

	sess.mu.Lock()
	resp := &ToolResponse{
		GameID:   sess.ID,
		GameOver: sess.gameOver,
		Result:   sess.result,
		// State as of the last decision; the duel goroutine owns the live one.
		State: sess.lastState,
	}
	if sess.gameOver {
		winner := sess.winner
		resp.Winner = &winner
	}
	pending := sess.currentPending
	sess.mu.Unlock()
	resp.Events = sess.drainEvents()

	if pending != nil && !resp.GameOver {
		resp.Pending = sess.pendingView(pending)
	}

	return mcp.NewToolResultText(respondJSON(resp)), nil
}
