package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/peterkuimelis/pocketcg/internal/config"
	"github.com/peterkuimelis/pocketcg/internal/game"
	"github.com/peterkuimelis/pocketcg/internal/log"
	pnet "github.com/peterkuimelis/pocketcg/internal/net"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := os.Args[1]
	switch cmd {
	case "play":
		err = runPlay(ctx, cfg, os.Args[2:])
	case "sim":
		err = runSim(ctx, cfg, os.Args[2:])
	case "validate":
		err = runValidate(cfg, os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fatal(err)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  pocketcg play [--deck N] [--bot N] [--seed S] [--decks FILE] [--cards FILE]")
	fmt.Println("  pocketcg sim [--deck N] [--bot N] [--games G] [--seed S] [--quiet]")
	fmt.Println("  pocketcg validate [--decks FILE] [--cards FILE]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  play      Play a game in the terminal against the auto player")
	fmt.Println("  sim       Play auto player against auto player and print the log")
	fmt.Println("  validate  Check every deck in the decks file")
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// commonFlags registers the flags every subcommand shares.
func commonFlags(fs *flag.FlagSet, cfg *config.Config) {
	fs.StringVar(&cfg.DecksFile, "decks", cfg.DecksFile, "path to decks YAML file")
	fs.StringVar(&cfg.CardsFile, "cards", cfg.CardsFile, "path to card database JSON")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "RNG seed (0 for random)")
	fs.IntVar(&cfg.MaxTurns, "max-turns", cfg.MaxTurns, "turn limit before the game is drawn")
}

func loadDecks(cfg config.Config, a, b int) (*game.Deck, *game.Deck, error) {
	db, err := game.LoadCardDatabase(cfg.CardsFile)
	if err != nil {
		return nil, nil, err
	}
	first, err := game.DeckByNumber(cfg.DecksFile, a, db)
	if err != nil {
		return nil, nil, err
	}
	second, err := game.DeckByNumber(cfg.DecksFile, b, db)
	if err != nil {
		return nil, nil, err
	}
	return first, second, nil
}

func runPlay(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	deck := fs.Int("deck", 1, "deck number to use (from decks.yaml)")
	bot := fs.Int("bot", 2, "deck number for the auto player")
	commonFlags(fs, &cfg)
	fs.Parse(args)

	z, err := cfg.NewLogger()
	if err != nil {
		return err
	}
	defer z.Sync()

	human, botDeck, err := loadDecks(cfg, *deck, *bot)
	if err != nil {
		return err
	}

	m := &pnet.Match{
		Human:    human,
		Bot:      botDeck,
		Seed:     cfg.Seed,
		MaxTurns: cfg.MaxTurns,
		Log:      z,
	}
	_, err = m.Run(ctx)
	return err
}

func runSim(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("sim", flag.ExitOnError)
	deck := fs.Int("deck", 1, "deck number for player 1")
	bot := fs.Int("bot", 2, "deck number for player 2")
	games := fs.Int("games", 1, "number of games to play")
	quiet := fs.Bool("quiet", false, "print only the results")
	commonFlags(fs, &cfg)
	fs.Parse(args)

	z, err := cfg.NewLogger()
	if err != nil {
		return err
	}
	defer z.Sync()

	d0, d1, err := loadDecks(cfg, *deck, *bot)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if *quiet {
		out = io.Discard
	}

	var wins [3]int // P1, P2, draws
	for i := 0; i < *games; i++ {
		seed := cfg.Seed
		if seed != 0 {
			seed += int64(i)
		}
		duel, err := game.NewDuel(game.DuelConfig{
			Deck0:         d0,
			Deck1:         d1,
			Logger:        log.NewTextLogger(out),
			Seed:          seed,
			MaxTurns:      cfg.MaxTurns,
			CoinFlipFirst: true,
		}, game.NewAutoController(), game.NewAutoController())
		if err != nil {
			return err
		}
		winner, err := duel.Run(ctx)
		if err != nil {
			return err
		}
		z.Debug("sim game finished", zap.Int("game", i+1), zap.Int("winner", winner), zap.Int("turns", duel.State.Turn))
		if winner < 0 {
			wins[2]++
		} else {
			wins[winner]++
		}
		fmt.Printf("Game %d: %s\n", i+1, duel.State.Result)
	}

	if *games > 1 {
		fmt.Printf("\n%s: %d  %s: %d  draws: %d\n", d0.Name, wins[0], d1.Name, wins[1], wins[2])
	}
	return nil
}

func runValidate(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	commonFlags(fs, &cfg)
	fs.Parse(args)

	db, err := game.LoadCardDatabase(cfg.CardsFile)
	if err != nil {
		return err
	}
	df, err := game.LoadDeckFile(cfg.DecksFile)
	if err != nil {
		return err
	}

	bad := 0
	for i, d := range df.Decks {
		if _, err := d.Build(db); err != nil {
			fmt.Printf("%2d. %-20s INVALID: %v\n", i+1, d.Name, err)
			bad++
			continue
		}
		fmt.Printf("%2d. %-20s ok\n", i+1, d.Name)
	}
	if bad > 0 {
		return fmt.Errorf("%d of %d decks invalid", bad, len(df.Decks))
	}
	return nil
}
