package net

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"

	"go.uber.org/zap"

	"github.com/peterkuimelis/pocketcg/internal/game"
	"github.com/peterkuimelis/pocketcg/internal/log"
)

// Match plays one human, through the terminal client, against the built-in
// auto player. Both sides talk JSON over an in-memory pipe.
type Match struct {
	Human    *game.Deck
	Bot      *game.Deck
	Seed     int64
	MaxTurns int
	Log      *zap.Logger
	In       io.Reader
	Out      io.Writer
}

// Run plays the match to completion and returns the winner (-1 for a draw).
func (m *Match) Run(ctx context.Context) (int, error) {
	in, out := m.In, m.Out
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}

	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	human := NewNetworkController(serverConn, 0)
	duel, err := game.NewDuel(game.DuelConfig{
		Deck0:         m.Human,
		Deck1:         m.Bot,
		Names:         [2]string{"You", "Bot"},
		Logger:        log.NewZapLogger(m.Log),
		Seed:          m.Seed,
		MaxTurns:      m.MaxTurns,
		CoinFlipFirst: true,
	}, human, game.NewAutoController())
	if err != nil {
		return -1, err
	}

	replErr := make(chan error, 1)
	go func() {
		replErr <- NewClient(clientConn, in, out).RunREPL(ctx)
	}()

	winner, err := duel.Run(ctx)
	if err != nil {
		clientConn.Close()
		<-replErr
		return -1, fmt.Errorf("duel error: %w", err)
	}
	if err := human.SendGameOver(winner, duel.State.Result); err != nil {
		return winner, fmt.Errorf("send game_over: %w", err)
	}
	return winner, <-replErr
}
