package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/pocketcg/internal/config"
	"github.com/peterkuimelis/pocketcg/internal/game"
	pcgmcp "github.com/peterkuimelis/pocketcg/internal/mcp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}

	flag.StringVar(&cfg.DecksFile, "decks", cfg.DecksFile, "path to decks YAML file")
	flag.StringVar(&cfg.CardsFile, "cards", cfg.CardsFile, "path to card database JSON")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "RNG seed (0 for random)")
	flag.IntVar(&cfg.MaxTurns, "max-turns", cfg.MaxTurns, "turn limit before the game is drawn")
	flag.Parse()

	// stdout is the MCP transport; the logger writes to stderr.
	z, err := cfg.NewLogger()
	if err != nil {
		fatal(err)
	}
	defer z.Sync()

	db, err := game.LoadCardDatabase(cfg.CardsFile)
	if err != nil {
		fatal(err)
	}

	svc := &pcgmcp.Service{
		DB:        db,
		DecksFile: cfg.DecksFile,
		Seed:      cfg.Seed,
		MaxTurns:  cfg.MaxTurns,
		Log:       z,
	}
	defer svc.Close()

	s := server.NewMCPServer("pocketcg", "1.0.0")
	svc.RegisterTools(s)

	if err := server.ServeStdio(s); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
