package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/peterkuimelis/pocketcg/internal/config"
	"github.com/peterkuimelis/pocketcg/internal/game"
	"github.com/peterkuimelis/pocketcg/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}

	flag.StringVar(&cfg.HTTPPort, "port", cfg.HTTPPort, "HTTP port to listen on")
	flag.StringVar(&cfg.DecksFile, "decks", cfg.DecksFile, "path to decks YAML file")
	flag.StringVar(&cfg.CardsFile, "cards", cfg.CardsFile, "path to card database JSON")
	flag.IntVar(&cfg.MaxTurns, "max-turns", cfg.MaxTurns, "turn limit before the game is drawn")
	flag.Parse()

	z, err := cfg.NewLogger()
	if err != nil {
		fatal(err)
	}
	defer z.Sync()

	db, err := game.LoadCardDatabase(cfg.CardsFile)
	if err != nil {
		fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	srv := web.NewServer(db, cfg.DecksFile, cfg.MaxTurns, z)
	z.Info("pocketcg web UI listening", zap.String("url", "http://localhost:"+cfg.HTTPPort))
	if err := srv.ListenAndServe(ctx, ":"+cfg.HTTPPort); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
