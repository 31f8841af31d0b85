package mcp

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/pocketcg/internal/game"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := game.LoadCardDatabase(filepath.Join("..", "..", "resources", "cards.json"))
	require.NoError(t, err)
	svc := &Service{
		DB:        db,
		DecksFile: filepath.Join("..", "..", "decks.yaml"),
		Seed:      3,
		MaxTurns:  20,
	}
	t.Cleanup(svc.Close)
	return svc
}

func request(args map[string]any) mcp.CallToolRequest {
	var r mcp.CallToolRequest
	r.Params.Arguments = args
	return r
}

func textOf(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func decode(t *testing.T, res *mcp.CallToolResult) ToolResponse {
	t.Helper()
	require.False(t, res.IsError, textOf(t, res))
	var resp ToolResponse
	require.NoError(t, json.Unmarshal([]byte(textOf(t, res)), &resp))
	return resp
}

func TestToolsWithoutGame(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	res, err := svc.handleGetGameState(ctx, request(nil))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = svc.handleTakeAction(ctx, request(map[string]any{"index": float64(0)}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestStartGameValidatesArguments(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for name, args := range map[string]map[string]any{
		"missing deck":   {"agent_player": float64(0)},
		"bad player":     {"agent_deck": float64(1), "agent_player": float64(2)},
		"deck not found": {"agent_deck": float64(99), "agent_player": float64(0)},
	} {
		res, err := svc.handleStartGame(ctx, request(args))
		require.NoError(t, err, name)
		assert.True(t, res.IsError, name)
	}
}

func TestAgentPlaysBotToCompletion(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	res, err := svc.handleStartGame(ctx, request(map[string]any{
		"agent_deck":    float64(1),
		"agent_player":  float64(0),
		"opponent_deck": float64(2),
	}))
	require.NoError(t, err)
	resp := decode(t, res)
	_, err = uuid.Parse(resp.GameID)
	require.NoError(t, err)
	gameID := resp.GameID

	// A second game cannot start while this one runs.
	res, err = svc.handleStartGame(ctx, request(map[string]any{"agent_deck": float64(1), "agent_player": float64(0)}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	require.NotNil(t, resp.Pending)
	assert.Equal(t, DecisionChooseIndex, resp.Pending.Type, "setup asks for the active Pokémon first")
	assert.Equal(t, "select_active", resp.Pending.Kind)
	assert.Equal(t, "agent", resp.Pending.ForPlayer)

	// Wrong tool for the pending decision.
	res, err = svc.handleTakeAction(ctx, request(map[string]any{"index": float64(0)}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	// A required decision cannot be declined.
	res, err = svc.handleChooseOption(ctx, request(map[string]any{"index": float64(-1)}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = svc.handleGetGameState(ctx, request(nil))
	require.NoError(t, err)
	peek := decode(t, res)
	assert.Equal(t, gameID, peek.GameID)
	require.NotNil(t, peek.Pending)
	assert.Equal(t, resp.Pending.Kind, peek.Pending.Kind)

	sawEvents := false
	for i := 0; i < 1000 && !resp.GameOver; i++ {
		require.NotNil(t, resp.Pending)
		switch resp.Pending.Type {
		case DecisionChooseAction:
			// always end the turn
			res, err = svc.handleTakeAction(ctx, request(map[string]any{"index": float64(len(resp.Pending.Actions) - 1)}))
		case DecisionChooseIndex:
			idx := 0
			if resp.Pending.Optional {
				idx = -1
			}
			res, err = svc.handleChooseOption(ctx, request(map[string]any{"index": float64(idx)}))
		}
		require.NoError(t, err)
		resp = decode(t, res)
		assert.Equal(t, gameID, resp.GameID)
		if !resp.GameOver {
			assert.Nil(t, resp.Winner, "winner is only reported with game_over")
		}
		sawEvents = sawEvents || len(resp.Events) > 0
	}

	require.True(t, resp.GameOver)
	require.NotNil(t, resp.Winner)
	assert.Contains(t, []int{-1, 0, 1}, *resp.Winner)
	assert.Contains(t, textOf(t, res), `"winner":`)
	assert.NotEmpty(t, resp.Result)
	assert.True(t, sawEvents)
	assert.Nil(t, svc.session(), "finished games are released")
}

func TestWinnerZeroIsReported(t *testing.T) {
	zero := 0
	data, err := json.Marshal(ToolResponse{GameID: "g", GameOver: true, Winner: &zero})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"winner":0`)

	data, err = json.Marshal(ToolResponse{GameID: "g"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"winner"`)
}

func TestDecisionIsClaimedOnce(t *testing.T) {
	sess := &GameSession{agentPlayer: 0}
	p := &PendingDecision{Type: DecisionChooseAction, Player: 0}
	sess.currentPending = p
	accept := func(pd *PendingDecision) string {
		if pd == nil {
			return "No pending decision."
		}
		return ""
	}

	got, problem := sess.claim(accept)
	assert.Empty(t, problem)
	assert.Same(t, p, got)

	got, problem = sess.claim(accept)
	assert.Equal(t, "No pending decision.", problem)
	assert.Nil(t, got)

	sess.unclaim(p)
	got, problem = sess.claim(accept)
	assert.Empty(t, problem)
	assert.Same(t, p, got, "an undelivered answer can be retried")
}

func TestConcurrentAnswersDeliverOnce(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	res, err := svc.handleStartGame(ctx, request(map[string]any{"agent_deck": float64(1), "agent_player": float64(0)}))
	require.NoError(t, err)
	resp := decode(t, res)
	require.NotNil(t, resp.Pending)
	require.Equal(t, DecisionChooseIndex, resp.Pending.Type)

	results := make(chan *mcp.CallToolResult, 2)
	for i := 0; i < 2; i++ {
		go func() {
			r, _ := svc.handleChooseOption(ctx, request(map[string]any{"index": float64(0)}))
			results <- r
		}()
	}
	first, second := <-results, <-results
	assert.NotEqual(t, first.IsError, second.IsError, "exactly one answer is accepted")
}
