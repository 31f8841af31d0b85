package game

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/pocketcg/internal/log"
)

func newSetupDuel(t *testing.T, cfg DuelConfig, p0, p1 PlayerController) *Duel {
	t.Helper()
	if cfg.Deck0 == nil {
		cfg.Deck0 = mustDeck(t, makePaddedDeck(basic("Star", 50, ElementColorless)))
	}
	if cfg.Deck1 == nil {
		cfg.Deck1 = mustDeck(t, makePaddedDeck(basic("Star", 50, ElementColorless)))
	}
	if cfg.Random == nil {
		cfg.Random = &scriptedRandom{}
	}
	cfg.NoShuffle = true
	if p0 == nil {
		p0 = NewScriptedController(t, "P1")
	}
	if p1 == nil {
		p1 = NewScriptedController(t, "P2")
	}
	d, err := NewDuel(cfg, p0, p1)
	require.NoError(t, err)
	return d
}

func TestOpeningHandAndFirstDraw(t *testing.T) {
	d := newSetupDuel(t, DuelConfig{}, nil, nil)
	require.NoError(t, d.DrawOpeningHands())

	for p := 0; p < 2; p++ {
		assert.Equal(t, 5, d.State.Players[p].HandCount(), "player %d hand", p)
		assert.Equal(t, 15, d.State.Players[p].DeckCount(), "player %d deck", p)
	}

	d.State.Turn = 1
	d.BeginTurn()
	acting := d.State.Players[d.State.TurnPlayer]
	assert.Equal(t, 6, acting.HandCount())
	assert.Equal(t, 14, acting.DeckCount())
}

func TestSetupPlacesStartersAndStartsTurnOne(t *testing.T) {
	p0 := NewScriptedController(t, "P1").AddIndex(2, 0, -1)
	d := newSetupDuel(t, DuelConfig{}, p0, nil)
	require.NoError(t, d.Setup())

	gs := d.State
	assert.Equal(t, 1, gs.Turn)
	assert.Equal(t, StagePlaying, gs.Stage())
	assert.Equal(t, 0, gs.TurnPlayer)

	// NoShuffle draws Filler 19..15; index 2 is Filler 17
	p := gs.Players[0]
	require.NotNil(t, p.Active)
	assert.Equal(t, "Filler 17", p.Active.Name())
	require.Len(t, p.Bench, 1)
	assert.Equal(t, "Filler 19", p.Bench[0].Name())
	assert.Equal(t, 3, p.HandCount())

	opp := gs.Players[1]
	assert.NotNil(t, opp.Active)
	assert.Empty(t, opp.Bench, "default declines the bench")

	assert.Equal(t, DecisionSelectActive, p0.decisions[0].Kind)
	assert.False(t, p0.decisions[0].Optional)
	assert.Equal(t, DecisionSelectBench, p0.decisions[1].Kind)
	assert.True(t, p0.decisions[1].Optional)

	for pl := 0; pl < 2; pl++ {
		e := gs.Players[pl].Energy
		assert.False(t, e.HasCurrent, "no energy before the first turn")
		assert.True(t, e.HasNext)
		assert.Equal(t, ElementFire, e.Next)
	}

	require.Error(t, d.Setup(), "setup runs once")
}

func TestMulliganUntilBasic(t *testing.T) {
	cards := []*Card{basic("Star", 50, ElementColorless)}
	for i := 0; len(cards) < DeckSize; i++ {
		cards = append(cards, trainer(fmt.Sprintf("Item %d", i), CategoryItem))
	}
	logger := log.NewMemoryLogger()
	d := newSetupDuel(t, DuelConfig{
		Deck0:  mustDeck(t, cards),
		Logger: logger,
		Random: NewRandom(1),
	}, nil, nil)

	require.NoError(t, d.DrawOpeningHands())
	p := d.State.Players[0]
	assert.True(t, p.HasBasicInHand())
	assert.Equal(t, 5, p.HandCount())
	assert.Equal(t, 15, p.DeckCount())
	assert.NotEmpty(t, logger.EventsOfType(log.EventMulligan))
}

func TestEnergyStartsOnTurnTwo(t *testing.T) {
	d := newSetupDuel(t, DuelConfig{}, nil, nil)
	require.NoError(t, d.Setup())

	d.BeginTurn()
	assert.NotContains(t, actionTypes(d.LegalActions(0)), ActionAttachEnergy, "first player has no energy on turn 1")
	require.NoError(t, d.EndTurn())

	d.BeginTurn()
	assert.Equal(t, 2, d.State.Turn)
	e := d.State.Players[1].Energy
	assert.True(t, e.HasCurrent)
	assert.Contains(t, actionTypes(d.LegalActions(1)), ActionAttachEnergy)
}

func TestFirstPlayerCoinFlip(t *testing.T) {
	d := newSetupDuel(t, DuelConfig{
		CoinFlipFirst: true,
		Random:        &scriptedRandom{flips: []bool{false}},
	}, nil, nil)
	require.NoError(t, d.Setup())
	assert.Equal(t, 1, d.State.TurnPlayer)
}

func TestEmptyDeckSkipsDraw(t *testing.T) {
	d, logger := newTestDuel(t, &scriptedRandom{}, 5, nil, nil)
	d.State.Players[0].Deck = nil
	d.BeginTurn()
	assert.Equal(t, 0, d.State.Players[0].HandCount())
	assert.Len(t, logger.EventsOfType(log.EventDrawSkipped), 1)
}

func TestTurnLimitIsADraw(t *testing.T) {
	logger := log.NewMemoryLogger()
	d := newSetupDuel(t, DuelConfig{MaxTurns: 4, Logger: logger}, nil, nil)

	winner := runDuelToCompletion(t, d)
	assert.Equal(t, -1, winner)
	assert.True(t, d.State.Over)
	assert.Equal(t, 5, d.State.Turn)
	assert.Contains(t, d.State.Result, "Turn limit")
	assert.Len(t, logger.EventsOfType(log.EventGameDrawn), 1)
	assert.Len(t, logger.EventsOfType(log.EventNewTurn), 4)
}

func TestScriptedGameToKnockout(t *testing.T) {
	hitter := basic("Hitter", 100, ElementFighting)
	hitter.Attacks = []Attack{{Name: "Smash", Cost: []ElementType{ElementColorless}, Damage: 50}}
	weak := basic("Weakling", 50, ElementColorless)

	// The last card of each deck is drawn first.
	deck0 := append(makePaddedDeck()[:19], hitter)
	deck1 := append(makePaddedDeck()[:19], weak)

	p0 := NewScriptedController(t, "P1").
		AddEndTurn().                      // turn 1: no energy yet
		AddAction(ActionAttachEnergy, ""). // turn 3
		AddAttack(0)
	p1 := NewScriptedController(t, "P2")

	logger := log.NewMemoryLogger()
	d := newSetupDuel(t, DuelConfig{Deck0: mustDeck(t, deck0), Deck1: mustDeck(t, deck1), Logger: logger}, p0, p1)
	require.NoError(t, d.Setup())
	require.Equal(t, "Hitter", d.State.Players[0].Active.Name())
	require.Equal(t, "Weakling", d.State.Players[1].Active.Name())

	for turn := 1; turn <= 3; turn++ {
		require.NoError(t, d.runTurn())
	}

	gs := d.State
	assert.Equal(t, 1, gs.Players[0].Score)
	assert.Contains(t, gs.Players[1].Discard, weak)
	assert.Equal(t, 1, gs.Players[0].Active.Energy[ElementFire])

	// P2 declined to bench anything, so the knockout emptied their board.
	assert.True(t, gs.Over)
	assert.Equal(t, 0, gs.Winner)
	assert.Len(t, logger.EventsOfType(log.EventKnockout), 1)
}

func TestAutoVersusAutoFinishes(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		t.Run(fmt.Sprintf("seed %d", seed), func(t *testing.T) {
			deck := func() *Deck {
				return mustDeck(t, makePaddedDeck(
					evolution("Big Filler", "Filler 5", 120, ElementFire),
					trainer("Potion", CategoryItem),
					trainer("Professor's Research", CategorySupporter),
					trainer("Giant Cape", CategoryTool),
				), ElementFire, ElementWater)
			}
			logger := log.NewMemoryLogger()
			d, err := NewDuel(DuelConfig{
				Deck0:         deck(),
				Deck1:         deck(),
				Logger:        logger,
				Seed:          seed,
				CoinFlipFirst: true,
			}, NewAutoController(), NewAutoController())
			require.NoError(t, err)

			winner := runDuelToCompletion(t, d)
			gs := d.State
			require.True(t, gs.Over)
			if winner >= 0 {
				loser := gs.Players[gs.Opponent(winner)]
				assert.True(t, gs.Players[winner].Score >= WinningScore || (loser.Active == nil && len(loser.Bench) == 0))
				assert.Len(t, logger.EventsOfType(log.EventWin), 1)
			}
			for _, p := range gs.Players {
				assert.LessOrEqual(t, len(p.Bench), MaxBenchSize)
				for _, u := range p.InPlay() {
					assert.False(t, u.IsKnockedOut())
				}
			}
		})
	}
}

type failingController struct {
	*AutoController
}

var errDisconnected = errors.New("disconnected")

func (f failingController) ChooseAction(context.Context, *GameState, []Action) (Action, error) {
	return Action{}, errDisconnected
}

func TestControllerErrorAbortsRun(t *testing.T) {
	d := newSetupDuel(t, DuelConfig{}, failingController{NewAutoController()}, nil)
	_, err := d.Run(context.Background())
	assert.ErrorIs(t, err, errDisconnected)
}

func TestCancelledContextStopsRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d := newSetupDuel(t, DuelConfig{}, nil, nil)
	_, err := d.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewDuelNeedsDecks(t *testing.T) {
	_, err := NewDuel(DuelConfig{}, NewAutoController(), NewAutoController())
	assert.Error(t, err)
}
