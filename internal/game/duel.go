package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/peterkuimelis/pocketcg/internal/log"
)

// maxMulligans bounds the opening-hand redraw loop. A legal deck always has a
// Basic, so the bound only matters for a pathological random source.
const maxMulligans = 100

// PlayerController is the interface that terminal, browser, agent and default players implement.
type PlayerController interface {
	// ChooseAction presents the legal turn actions and waits for the player to pick one.
	ChooseAction(ctx context.Context, state *GameState, actions []Action) (Action, error)

	// ChooseIndex asks the player to pick one of decision.Options, or -1 to
	// decline an optional decision.
	ChooseIndex(ctx context.Context, state *GameState, decision Decision) (int, error)

	// Notify sends a game event notification (no response needed).
	Notify(ctx context.Context, event log.GameEvent) error
}

// DuelConfig holds configuration for creating a new duel.
type DuelConfig struct {
	Deck0         *Deck
	Deck1         *Deck
	Names         [2]string // defaults to P1/P2
	Logger        log.EventLogger
	Random        Random // overrides Seed when set
	Seed          int64  // RNG seed (0 for random)
	NoShuffle     bool   // skip deck shuffle (for deterministic tests)
	MaxTurns      int    // safety limit; the game is a draw past it (0 = DefaultMaxTurns)
	CoinFlipFirst bool   // decide the first player by coin flip instead of player 0
}

// Duel orchestrates an entire game between two players.
type Duel struct {
	State         *GameState
	Controllers   [2]PlayerController
	Logger        log.EventLogger
	ctx           context.Context
	rng           Random
	noShuffle     bool
	maxTurns      int
	coinFlipFirst bool
}

// NewDuel creates a new duel from the given config and player controllers.
func NewDuel(cfg DuelConfig, p0, p1 PlayerController) (*Duel, error) {
	if cfg.Deck0 == nil || cfg.Deck1 == nil {
		return nil, errors.New("both players need a deck")
	}
	rng := cfg.Random
	if rng == nil {
		rng = NewRandom(cfg.Seed)
	}
	gs := NewGameState(rng)
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewMemoryLogger()
	}

	for i, deck := range [2]*Deck{cfg.Deck0, cfg.Deck1} {
		p := gs.Players[i]
		if cfg.Names[i] != "" {
			p.Name = cfg.Names[i]
		}
		p.Deck = append([]*Card(nil), deck.Cards...)
		p.EnergyTypes = append([]ElementType(nil), deck.EnergyTypes...)
	}

	maxTurns := cfg.MaxTurns
	if maxTurns == 0 {
		maxTurns = DefaultMaxTurns
	}

	return &Duel{
		State:         gs,
		Controllers:   [2]PlayerController{p0, p1},
		Logger:        logger,
		ctx:           context.Background(),
		rng:           rng,
		noShuffle:     cfg.NoShuffle,
		maxTurns:      maxTurns,
		coinFlipFirst: cfg.CoinFlipFirst,
	}, nil
}

// Run executes the entire game loop. Returns the winner (0, 1, or -1 for draw).
func (d *Duel) Run(ctx context.Context) (int, error) {
	d.ctx = ctx
	gs := d.State

	if err := d.Setup(); err != nil {
		return -1, err
	}

	for !gs.Over {
		if gs.Turn > d.maxTurns {
			d.finishDraw(fmt.Sprintf("Turn limit reached (%d turns)", d.maxTurns))
			break
		}
		if err := d.runTurn(); err != nil {
			return gs.Winner, err
		}
		if err := d.ctx.Err(); err != nil {
			return -1, err
		}
	}

	return gs.Winner, nil
}

// Setup shuffles, draws opening hands, places starting Pokémon and picks the
// first player. On return the game is at turn 1.
func (d *Duel) Setup() error {
	gs := d.State
	if gs.Turn != 0 {
		return errors.New("setup already done")
	}
	gs.Phase = PhaseSetup
	d.log(log.NewPhaseChangeEvent(0, gs.Phase.String()))

	for p := 0; p < 2; p++ {
		if !d.noShuffle {
			gs.Players[p].ShuffleDeck(d.rng)
			d.log(log.NewShuffleEvent(0, gs.Phase.String(), p))
		}
		gs.InitEnergy(p)
	}

	if err := d.DrawOpeningHands(); err != nil {
		return err
	}
	for p := 0; p < 2; p++ {
		if err := d.chooseStarters(p); err != nil {
			return err
		}
	}

	first := 0
	if d.coinFlipFirst && !d.rng.CoinFlip() {
		first = 1
	}
	gs.TurnPlayer = first
	gs.Turn = 1
	d.log(log.NewFirstPlayerEvent(first))
	return nil
}

// DrawOpeningHands draws InitialHandSize cards for both players. A hand with
// no Basic Pokémon goes back into the deck, which is reshuffled and redrawn.
func (d *Duel) DrawOpeningHands() error {
	gs := d.State
	for p := 0; p < 2; p++ {
		pl := gs.Players[p]
		for attempt := 1; ; attempt++ {
			for i := 0; i < InitialHandSize; i++ {
				if _, err := pl.DrawCard(); err != nil {
					return fmt.Errorf("player %d opening hand: %w", p, err)
				}
			}
			if pl.HasBasicInHand() {
				break
			}
			if attempt >= maxMulligans {
				return fmt.Errorf("player %d: no Basic Pokémon after %d mulligans", p, attempt)
			}
			d.log(log.NewMulliganEvent(0, gs.Phase.String(), p, attempt))
			pl.ReturnHandToDeck()
			pl.ShuffleDeck(d.rng)
		}
	}
	return nil
}

// chooseStarters asks a player for an active Basic, then optionally for up to
// MaxBenchSize bench Basics.
func (d *Duel) chooseStarters(player int) error {
	gs := d.State
	pl := gs.Players[player]

	basics := pl.BasicsInHand()
	if len(basics) == 0 {
		return fmt.Errorf("player %d has no Basic Pokémon to start", player)
	}
	idx, err := d.choose(player, Decision{
		Kind:    DecisionSelectActive,
		Prompt:  "Choose your active Pokémon",
		Options: d.handNames(player, basics),
	})
	if err != nil {
		return err
	}
	if err := d.placeFromHand(player, basics[idx], true); err != nil {
		return err
	}

	for !pl.BenchFull() {
		basics = pl.BasicsInHand()
		if len(basics) == 0 {
			break
		}
		idx, err := d.choose(player, Decision{
			Kind:     DecisionSelectBench,
			Prompt:   fmt.Sprintf("Choose a Pokémon for your bench (%d/%d)", len(pl.Bench), MaxBenchSize),
			Options:  d.handNames(player, basics),
			Optional: true,
		})
		if err != nil {
			return err
		}
		if idx < 0 {
			break
		}
		if err := d.placeFromHand(player, basics[idx], false); err != nil {
			return err
		}
	}
	return nil
}

func (d *Duel) placeFromHand(player, handIdx int, active bool) error {
	gs := d.State
	card := gs.Players[player].Hand[handIdx]
	if _, ok := gs.placeBasic(player, card, gs.Turn); !ok {
		return fmt.Errorf("player %d could not place %s", player, card.Name)
	}
	gs.Players[player].RemoveFromHand(handIdx)
	d.log(log.NewPlaceEvent(gs.Turn, gs.Phase.String(), player, card.Name, active))
	return nil
}

// runTurn executes a single turn for the current turn player.
func (d *Duel) runTurn() error {
	gs := d.State
	gs.ResetTurnFlags()

	d.log(log.NewTurnEvent(gs.Turn, gs.TurnPlayer))

	d.BeginTurn()
	if d.checkWin() {
		return nil
	}

	if err := d.mainPhase(); err != nil {
		return err
	}
	if gs.Over {
		return nil
	}

	return d.EndTurn()
}

// BeginTurn runs the start phase for the turn player: draw a card if the
// deck has one, then refill the energy zone after the first turn.
func (d *Duel) BeginTurn() {
	gs := d.State
	gs.Phase = PhaseStart
	d.log(log.NewPhaseChangeEvent(gs.Turn, gs.Phase.String()))

	tp := gs.TurnPlayer
	p := gs.CurrentPlayer()
	if p.DeckCount() == 0 {
		d.log(log.NewDrawSkippedEvent(gs.Turn, gs.Phase.String(), tp))
	} else if card, err := p.DrawCard(); err == nil {
		d.log(log.NewDrawEvent(gs.Turn, gs.Phase.String(), tp, card.Name))
	}

	if gs.Turn > 1 && !p.Energy.HasCurrent && gs.DrawEnergy(tp) {
		d.log(log.NewEnergyDrawnEvent(gs.Turn, gs.Phase.String(), tp,
			p.Energy.Current.String(), p.Energy.Next.String()))
	}
}

// mainPhase lets the turn player act until they attack or end the turn.
func (d *Duel) mainPhase() error {
	gs := d.State
	gs.Phase = PhaseMain
	d.log(log.NewPhaseChangeEvent(gs.Turn, gs.Phase.String()))

	tp := gs.TurnPlayer
	for !gs.Over {
		actions := d.LegalActions(tp)

		chosen, err := d.Controllers[tp].ChooseAction(d.ctx, gs, actions)
		if err != nil {
			return err
		}

		endTurn, err := d.execute(tp, chosen)
		if err != nil {
			return err
		}
		if endTurn {
			return nil
		}
	}
	return nil
}

// EndTurn runs the end-of-turn status checkup for the turn player, then
// passes the turn.
func (d *Duel) EndTurn() error {
	gs := d.State
	if gs.Over {
		return ErrGameOver
	}
	gs.Phase = PhaseEnd
	d.log(log.NewPhaseChangeEvent(gs.Turn, gs.Phase.String()))

	if err := d.statusCheckup(gs.TurnPlayer); err != nil {
		return err
	}
	if gs.Over {
		return nil
	}

	gs.TurnPlayer = gs.Opponent(gs.TurnPlayer)
	gs.Turn++
	return nil
}

// checkWin ends the game if a win condition holds. Reports whether the game is over.
func (d *Duel) checkWin() bool {
	gs := d.State
	if gs.Over {
		return true
	}
	winner, reason, ok := gs.winCondition()
	if !ok {
		return false
	}
	gs.Over = true
	gs.Winner = winner
	gs.Result = fmt.Sprintf("%s wins: %s", gs.Players[winner].Name, reason)
	gs.Phase = PhaseFinished
	d.log(log.NewWinEvent(gs.Turn, gs.Phase.String(), winner, reason))
	return true
}

func (d *Duel) finishDraw(reason string) {
	gs := d.State
	gs.Over = true
	gs.Winner = -1
	gs.Result = reason
	gs.Phase = PhaseFinished
	d.log(log.NewGameDrawnEvent(gs.Turn, reason))
}

// choose asks player's controller for an index and validates the answer.
// Invalid answers decline optional decisions and pick the first option of
// required ones.
func (d *Duel) choose(player int, dec Decision) (int, error) {
	dec.Player = player
	if len(dec.Options) == 0 {
		return -1, nil
	}
	idx, err := d.Controllers[player].ChooseIndex(d.ctx, d.State, dec)
	if err != nil {
		return -1, fmt.Errorf("player %d %s: %w", player, dec.Kind, err)
	}
	if dec.Valid(idx) {
		return idx, nil
	}
	if dec.Optional {
		return -1, nil
	}
	return 0, nil
}

func (d *Duel) handNames(player int, indices []int) []string {
	hand := d.State.Players[player].Hand
	out := make([]string, len(indices))
	for i, idx := range indices {
		out[i] = hand[idx].Name
	}
	return out
}

func unitNames(units []*Unit) []string {
	out := make([]string, len(units))
	for i, u := range units {
		out[i] = u.String()
	}
	return out
}

// log records an event and notifies both controllers.
func (d *Duel) log(event log.GameEvent) {
	d.Logger.Log(event)
	// Notify controllers (ignore errors for notifications)
	for i := 0; i < 2; i++ {
		_ = d.Controllers[i].Notify(d.ctx, event)
	}
}
