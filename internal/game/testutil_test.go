package game

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/pocketcg/internal/log"
)

// ScriptedController is a PlayerController that follows a predefined script of actions.
// Used in tests to deterministically drive the game.
type ScriptedController struct {
	t       *testing.T
	name    string
	actions []ScriptedAction
	pos     int

	// Answers for ChooseIndex prompts, consumed in order.
	indices   []int
	indexPos  int
	decisions []Decision
}

type ScriptedAction struct {
	// Match by ActionType: picks the first action of this type
	Type ActionType
	// Optional: match by card name as well
	CardName string
	// Optional: match by attack index for ActionAttack
	AttackIndex int
}

func NewScriptedController(t *testing.T, name string) *ScriptedController {
	return &ScriptedController{t: t, name: name}
}

func (sc *ScriptedController) AddAction(actionType ActionType, cardName string) *ScriptedController {
	sc.actions = append(sc.actions, ScriptedAction{Type: actionType, CardName: cardName})
	return sc
}

func (sc *ScriptedController) AddAttack(attackIndex int) *ScriptedController {
	sc.actions = append(sc.actions, ScriptedAction{Type: ActionAttack, AttackIndex: attackIndex})
	return sc
}

func (sc *ScriptedController) AddEndTurn() *ScriptedController {
	sc.actions = append(sc.actions, ScriptedAction{Type: ActionEndTurn})
	return sc
}

func (sc *ScriptedController) AddIndex(idx ...int) *ScriptedController {
	sc.indices = append(sc.indices, idx...)
	return sc
}

func (sc *ScriptedController) ChooseAction(ctx context.Context, state *GameState, actions []Action) (Action, error) {
	if sc.pos >= len(sc.actions) {
		// Script exhausted: end the turn
		for _, a := range actions {
			if a.Type == ActionEndTurn {
				return a, nil
			}
		}
		return actions[len(actions)-1], nil
	}

	want := sc.actions[sc.pos]
	sc.pos++
	for _, a := range actions {
		if a.Type != want.Type {
			continue
		}
		if want.CardName != "" && (a.Card == nil || a.Card.Name != want.CardName) {
			continue
		}
		if want.Type == ActionAttack && a.AttackIndex != want.AttackIndex {
			continue
		}
		return a, nil
	}
	return Action{}, fmt.Errorf("%s: scripted action %v %q not available in %v", sc.name, want.Type, want.CardName, actions)
}

// ChooseIndex answers from the script. Without a scripted answer optional
// decisions are declined and required ones take the first option.
func (sc *ScriptedController) ChooseIndex(ctx context.Context, state *GameState, d Decision) (int, error) {
	sc.decisions = append(sc.decisions, d)
	if sc.indexPos < len(sc.indices) {
		idx := sc.indices[sc.indexPos]
		sc.indexPos++
		return idx, nil
	}
	if d.Optional {
		return -1, nil
	}
	return 0, nil
}

func (sc *ScriptedController) Notify(ctx context.Context, event log.GameEvent) error {
	return nil
}

// scriptedRandom replays fixed answers. Exhausted sources return 0 and heads;
// Shuffle leaves order unchanged.
type scriptedRandom struct {
	ints  []int
	flips []bool
}

func (r *scriptedRandom) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

func (r *scriptedRandom) CoinFlip() bool {
	if len(r.flips) == 0 {
		return true
	}
	v := r.flips[0]
	r.flips = r.flips[1:]
	return v
}

func (r *scriptedRandom) Shuffle(n int, swap func(i, j int)) {}

// --- card builders ---

func basic(name string, hp int, element ElementType) *Card {
	return &Card{
		ID:            name,
		Name:          name,
		Category:      CategoryPokemon,
		HP:            hp,
		EvolutionType: BasicStage,
		Stage:         BasicStage,
		Element:       element,
		RetreatCost:   1,
		Attacks: []Attack{{
			Name:   "Tackle",
			Cost:   []ElementType{ElementColorless},
			Damage: 10,
		}},
	}
}

func evolution(name, from string, hp int, element ElementType) *Card {
	c := basic(name, hp, element)
	c.EvolutionType = from
	c.Stage = "Stage 1"
	return c
}

func trainer(name string, cat Category) *Card {
	return &Card{ID: name, Name: name, Category: cat, Ability: Ability{Name: name, Effect: "does something"}}
}

// makePaddedDeck returns DeckSize cards: the given cards first, then distinct
// filler Basics. With NoShuffle the deck is drawn from the end, so the
// fillers come out first.
func makePaddedDeck(cards ...*Card) []*Card {
	deck := append([]*Card(nil), cards...)
	for i := 0; len(deck) < DeckSize; i++ {
		deck = append(deck, basic(fmt.Sprintf("Filler %d", i+1), 50, ElementColorless))
	}
	return deck
}

func mustDeck(t *testing.T, cards []*Card, energy ...ElementType) *Deck {
	t.Helper()
	if len(energy) == 0 {
		energy = []ElementType{ElementFire}
	}
	d, err := NewDeck("test", cards, energy)
	require.NoError(t, err)
	return d
}

// newTestDuel returns a duel past setup at the given turn with empty boards,
// player 0 to act.
func newTestDuel(t *testing.T, rng Random, turn int, p0, p1 PlayerController) (*Duel, *log.MemoryLogger) {
	t.Helper()
	if p0 == nil {
		p0 = NewScriptedController(t, "P1")
	}
	if p1 == nil {
		p1 = NewScriptedController(t, "P2")
	}
	logger := log.NewMemoryLogger()
	d, err := NewDuel(DuelConfig{
		Deck0:     mustDeck(t, makePaddedDeck()),
		Deck1:     mustDeck(t, makePaddedDeck()),
		Logger:    logger,
		Random:    rng,
		NoShuffle: true,
	}, p0, p1)
	require.NoError(t, err)
	d.State.Turn = turn
	d.State.Phase = PhaseMain
	return d, logger
}

// put places card for player directly, bypassing the hand.
func put(t *testing.T, d *Duel, player int, card *Card) *Unit {
	t.Helper()
	u, ok := d.State.placeBasic(player, card, 0)
	require.True(t, ok, "place %s", card.Name)
	return u
}

// giveEnergy sets the player's current energy.
func giveEnergy(d *Duel, player int, e ElementType) {
	p := d.State.Players[player]
	p.Energy.Current = e
	p.Energy.HasCurrent = true
}

func runDuelToCompletion(t *testing.T, d *Duel) int {
	t.Helper()
	winner, err := d.Run(context.Background())
	require.NoError(t, err)
	t.Logf("Duel log:\n%s", log.FormatAll(d.Logger.Events()))
	return winner
}
