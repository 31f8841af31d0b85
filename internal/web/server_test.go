package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/pocketcg/internal/game"
	"github.com/peterkuimelis/pocketcg/internal/net"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	db, err := game.LoadCardDatabase(filepath.Join("..", "..", "resources", "cards.json"))
	require.NoError(t, err)
	srv := NewServer(db, filepath.Join("..", "..", "decks.yaml"), 20, nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, v any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp
}

func TestIndexServed(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	resp, err = http.Get(ts.URL + "/static/app.js")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/nope")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCardsEndpointFilters(t *testing.T) {
	ts := newTestServer(t)

	var all []CardInfo
	getJSON(t, ts.URL+"/api/cards", &all)
	require.NotEmpty(t, all)

	var fire []CardInfo
	getJSON(t, ts.URL+"/api/cards?element=fire", &fire)
	require.NotEmpty(t, fire)
	assert.Less(t, len(fire), len(all))
	for _, c := range fire {
		assert.Equal(t, "Fire", c.Element, c.Name)
		assert.NotEmpty(t, c.Attacks, c.Name)
	}

	var items []CardInfo
	getJSON(t, ts.URL+"/api/cards?category=item", &items)
	require.NotEmpty(t, items)
	for _, c := range items {
		assert.Equal(t, "Item", c.Category)
		assert.NotEmpty(t, c.Effect, c.Name)
	}

	resp := getJSON(t, ts.URL+"/api/cards?element=plasma", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDecksEndpoint(t *testing.T) {
	ts := newTestServer(t)

	var decks []DeckInfo
	getJSON(t, ts.URL+"/api/decks", &decks)
	require.Len(t, decks, 4)
	for i, d := range decks {
		assert.Equal(t, i+1, d.Number)
		assert.True(t, d.Valid, d.Error)
		assert.NotEmpty(t, d.Energy)
		assert.NotEmpty(t, d.Cards)
	}
}

func dial(t *testing.T, ts *httptest.Server) (*websocket.Conn, context.Context) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	c, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	t.Cleanup(func() { c.CloseNow() })
	return c, ctx
}

func TestWebSocketGameAgainstBot(t *testing.T) {
	ts := newTestServer(t)
	c, ctx := dial(t, ts)

	require.NoError(t, wsjson.Write(ctx, c, net.ClientMessage{Type: "join", DeckNumber: 1, OpponentDeck: 3, Seed: 11}))

	sawState := false
	for {
		var msg net.ServerMessage
		require.NoError(t, wsjson.Read(ctx, c, &msg))
		switch msg.Type {
		case "choose_action":
			sawState = sawState || msg.State != nil
			require.NotEmpty(t, msg.Actions)
			// always end the turn
			require.NoError(t, wsjson.Write(ctx, c, net.ClientMessage{Type: "action", Index: len(msg.Actions) - 1}))
		case "choose_index":
			idx := 0
			if msg.Optional {
				idx = -1
			}
			require.NoError(t, wsjson.Write(ctx, c, net.ClientMessage{Type: "index", Index: idx}))
		case "game_over":
			assert.NotEmpty(t, msg.Result)
			assert.True(t, sawState)
			return
		}
	}
}

func TestWebSocketRejectsBadJoin(t *testing.T) {
	ts := newTestServer(t)

	c, ctx := dial(t, ts)
	require.NoError(t, wsjson.Write(ctx, c, net.ClientMessage{Type: "join", DeckNumber: 99}))
	var msg net.ServerMessage
	require.NoError(t, wsjson.Read(ctx, c, &msg))
	assert.Equal(t, "error", msg.Type)
	assert.Contains(t, msg.Result, "99")

	c2, ctx2 := dial(t, ts)
	require.NoError(t, wsjson.Write(ctx2, c2, map[string]string{"type": "hello"}))
	_, _, err := c2.Read(ctx2)
	require.Error(t, err)
	assert.Equal(t, websocket.StatusPolicyViolation, websocket.CloseStatus(err))
}
