package game

import (
	"context"

	"github.com/peterkuimelis/pocketcg/internal/log"
)

// AutoController makes the deterministic default choices: develop the board,
// attach energy, then use the strongest available attack. It never retreats.
type AutoController struct{}

// NewAutoController returns a default decision provider.
func NewAutoController() *AutoController {
	return &AutoController{}
}

var autoPriority = []ActionType{
	ActionPlayBasic,
	ActionEvolve,
	ActionAttachEnergy,
	ActionAttachTool,
	ActionPlaySupporter,
	ActionPlayItem,
}

func (a *AutoController) ChooseAction(_ context.Context, state *GameState, actions []Action) (Action, error) {
	for _, t := range autoPriority {
		for _, act := range actions {
			if act.Type == t {
				return act, nil
			}
		}
	}

	best, bestDamage := -1, -1
	for i, act := range actions {
		if act.Type != ActionAttack {
			continue
		}
		if dmg := attackDamage(state, act); dmg > bestDamage {
			best, bestDamage = i, dmg
		}
	}
	if best >= 0 {
		return actions[best], nil
	}

	for _, act := range actions {
		if act.Type == ActionEndTurn {
			return act, nil
		}
	}
	return actions[len(actions)-1], nil
}

func attackDamage(state *GameState, act Action) int {
	active := state.Players[act.Player].Active
	if active == nil || act.AttackIndex >= len(active.Card.Attacks) {
		return 0
	}
	return active.Card.Attacks[act.AttackIndex].Damage
}

// ChooseIndex always takes the first option: the active unit for energy,
// the first bench slot for promotion, and every Basic for the bench.
func (a *AutoController) ChooseIndex(_ context.Context, _ *GameState, decision Decision) (int, error) {
	if len(decision.Options) == 0 {
		return -1, nil
	}
	return 0, nil
}

func (a *AutoController) Notify(context.Context, log.GameEvent) error {
	return nil
}
