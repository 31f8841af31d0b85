package game

import (
	"fmt"

	"github.com/peterkuimelis/pocketcg/internal/log"
)

// LegalActions returns every action the player may take right now. EndTurn
// is always last.
func (d *Duel) LegalActions(player int) []Action {
	gs := d.State
	if gs.Over || player != gs.TurnPlayer {
		return nil
	}
	p := gs.Players[player]
	var actions []Action

	seen := make(map[*Card]bool)
	for i, card := range p.Hand {
		if seen[card] {
			continue
		}
		seen[card] = true

		switch card.Category {
		case CategoryPokemon:
			if card.IsBasic() {
				if p.Active == nil || !p.BenchFull() {
					actions = append(actions, Action{
						Type: ActionPlayBasic, Player: player, Card: card, HandIndex: i,
						Desc: fmt.Sprintf("Play %s", card.Name),
					})
				}
			} else if len(gs.EvolutionTargets(player, card, gs.Turn)) > 0 {
				actions = append(actions, Action{
					Type: ActionEvolve, Player: player, Card: card, HandIndex: i,
					Desc: fmt.Sprintf("Evolve %s into %s", card.EvolutionType, card.Name),
				})
			}
		case CategoryItem:
			actions = append(actions, Action{
				Type: ActionPlayItem, Player: player, Card: card, HandIndex: i,
				Desc: fmt.Sprintf("Play item %s", card.Name),
			})
		case CategorySupporter:
			if !gs.SupporterPlayed {
				actions = append(actions, Action{
					Type: ActionPlaySupporter, Player: player, Card: card, HandIndex: i,
					Desc: fmt.Sprintf("Play supporter %s", card.Name),
				})
			}
		case CategoryTool:
			if len(toolTargets(p)) > 0 {
				actions = append(actions, Action{
					Type: ActionAttachTool, Player: player, Card: card, HandIndex: i,
					Desc: fmt.Sprintf("Attach %s", card.Name),
				})
			}
		}
	}

	if p.Energy.HasCurrent && !gs.EnergyAttached && len(p.InPlay()) > 0 {
		actions = append(actions, Action{
			Type: ActionAttachEnergy, Player: player,
			Desc: fmt.Sprintf("Attach %s energy", p.Energy.Current),
		})
	}

	if p.Active != nil && len(p.Bench) > 0 && !gs.Retreated[player] && p.Active.CanRetreat() {
		actions = append(actions, Action{
			Type: ActionRetreat, Player: player,
			Desc: fmt.Sprintf("Retreat %s (cost %d)", p.Active.Name(), p.Active.Card.RetreatCost),
		})
	}

	if p.Active != nil {
		for i, atk := range p.Active.Card.Attacks {
			if p.Active.CanPerformAttack(atk) {
				actions = append(actions, Action{
					Type: ActionAttack, Player: player, AttackIndex: i,
					Desc: fmt.Sprintf("%s: %s (%d)", p.Active.Name(), atk.Name, atk.Damage),
				})
			}
		}
	}

	actions = append(actions, Action{Type: ActionEndTurn, Player: player, Desc: "End turn"})
	return actions
}

func toolTargets(p *Player) []*Unit {
	var out []*Unit
	for _, u := range p.InPlay() {
		if u.CanAttachTool() {
			out = append(out, u)
		}
	}
	return out
}

// execute performs a chosen action. Reports whether the turn is over.
// Actions whose preconditions fail are no-ops so the player is asked again.
func (d *Duel) execute(player int, a Action) (bool, error) {
	switch a.Type {
	case ActionPlayBasic, ActionEvolve, ActionPlayItem, ActionPlaySupporter, ActionAttachTool:
		_, err := d.PlayCard(player, a.HandIndex)
		return false, err
	case ActionAttachEnergy:
		_, err := d.attachEnergy(player)
		return false, err
	case ActionRetreat:
		_, err := d.retreat(player)
		return false, err
	case ActionAttack:
		return d.ExecuteAttack(a.AttackIndex)
	case ActionEndTurn:
		return true, nil
	default:
		return false, nil
	}
}

// PlayCard plays the hand card at handIdx for the turn player. The card's
// category decides what happens. Reports whether the card left the hand.
func (d *Duel) PlayCard(player, handIdx int) (bool, error) {
	gs := d.State
	if gs.Over {
		return false, ErrGameOver
	}
	if player != gs.TurnPlayer {
		return false, nil
	}
	p := gs.Players[player]
	if handIdx < 0 || handIdx >= len(p.Hand) {
		return false, nil
	}
	card := p.Hand[handIdx]

	var (
		ok  bool
		err error
	)
	switch card.Category {
	case CategoryPokemon:
		if card.IsBasic() {
			ok = d.playBasic(player, card)
		} else {
			ok = d.playEvolution(player, card)
		}
	case CategoryItem:
		ok = d.playItem(player, card)
	case CategorySupporter:
		ok = d.playSupporter(player, card)
	case CategoryTool:
		ok, err = d.playTool(player, card)
	}
	if err != nil || !ok {
		return false, err
	}
	p.RemoveFromHand(handIdx)
	return true, nil
}

func (d *Duel) playBasic(player int, card *Card) bool {
	gs := d.State
	active := gs.Players[player].Active == nil
	if _, ok := gs.placeBasic(player, card, gs.Turn); !ok {
		return false
	}
	d.log(log.NewPlaceEvent(gs.Turn, gs.Phase.String(), player, card.Name, active))
	return true
}

func (d *Duel) playEvolution(player int, card *Card) bool {
	gs := d.State
	from, _, ok := gs.evolve(player, card, gs.Turn)
	if !ok {
		return false
	}
	d.log(log.NewEvolveEvent(gs.Turn, gs.Phase.String(), player, from.Name(), card.Name))
	return true
}

// Trainer effects are data only; playing one moves it to the discard pile.
func (d *Duel) playItem(player int, card *Card) bool {
	gs := d.State
	gs.Players[player].Discard = append(gs.Players[player].Discard, card)
	d.log(log.NewItemEvent(gs.Turn, gs.Phase.String(), player, card.Name, card.Ability.Effect))
	return true
}

func (d *Duel) playSupporter(player int, card *Card) bool {
	gs := d.State
	if gs.SupporterPlayed {
		return false
	}
	gs.SupporterPlayed = true
	gs.Players[player].Discard = append(gs.Players[player].Discard, card)
	d.log(log.NewSupporterEvent(gs.Turn, gs.Phase.String(), player, card.Name, card.Ability.Effect))
	return true
}

func (d *Duel) playTool(player int, card *Card) (bool, error) {
	gs := d.State
	targets := toolTargets(gs.Players[player])
	if len(targets) == 0 {
		return false, nil
	}
	idx, err := d.choose(player, Decision{
		Kind:     DecisionToolTarget,
		Prompt:   fmt.Sprintf("Attach %s to which Pokémon?", card.Name),
		Options:  unitNames(targets),
		Optional: true,
	})
	if err != nil || idx < 0 {
		return false, err
	}
	target := targets[idx]
	if !gs.AttachTool(card, target) {
		return false, nil
	}
	d.log(log.NewToolEvent(gs.Turn, gs.Phase.String(), player, card.Name, target.Name()))
	return true, nil
}

// attachEnergy asks for a target when more than one unit is in play.
func (d *Duel) attachEnergy(player int) (bool, error) {
	gs := d.State
	p := gs.Players[player]
	if player != gs.TurnPlayer || !p.Energy.HasCurrent || gs.EnergyAttached {
		return false, nil
	}
	units := p.InPlay()
	if len(units) == 0 {
		return false, nil
	}
	target := units[0]
	if len(units) > 1 {
		idx, err := d.choose(player, Decision{
			Kind:     DecisionEnergyTarget,
			Prompt:   fmt.Sprintf("Attach %s energy to which Pokémon?", p.Energy.Current),
			Options:  unitNames(units),
			Optional: true,
		})
		if err != nil || idx < 0 {
			return false, err
		}
		target = units[idx]
	}
	element := p.Energy.Current
	if !gs.AttachEnergy(target) {
		return false, nil
	}
	d.log(log.NewEnergyEvent(gs.Turn, gs.Phase.String(), player, element.String(), target.Name()))
	return true, nil
}

// retreat asks for a bench target when the bench holds more than one unit.
func (d *Duel) retreat(player int) (bool, error) {
	gs := d.State
	p := gs.Players[player]
	if player != gs.TurnPlayer || p.Active == nil || len(p.Bench) == 0 {
		return false, nil
	}
	benchIdx := 0
	if len(p.Bench) > 1 {
		idx, err := d.choose(player, Decision{
			Kind:     DecisionRetreatTarget,
			Prompt:   fmt.Sprintf("Switch %s with which benched Pokémon?", p.Active.Name()),
			Options:  unitNames(p.Bench),
			Optional: true,
		})
		if err != nil || idx < 0 {
			return false, err
		}
		benchIdx = idx
	}
	return d.Retreat(benchIdx), nil
}

// Retreat swaps the turn player's active unit with the bench unit at
// benchIdx, discarding RetreatCost attached energies. Once per turn.
func (d *Duel) Retreat(benchIdx int) bool {
	gs := d.State
	tp := gs.TurnPlayer
	p := gs.Players[tp]
	if gs.Over || gs.Retreated[tp] || p.Active == nil {
		return false
	}
	if benchIdx < 0 || benchIdx >= len(p.Bench) || !p.Active.CanRetreat() {
		return false
	}

	old := p.Active
	for i := 0; i < old.Card.RetreatCost; i++ {
		if e, ok := old.RemoveAnyEnergy(); ok {
			p.EnergyDiscard = append(p.EnergyDiscard, e)
		}
	}
	old.ClearStatus()

	p.promoteFromBench(benchIdx)
	p.Bench = append(p.Bench, old)
	gs.Retreated[tp] = true

	d.log(log.NewRetreatEvent(gs.Turn, gs.Phase.String(), tp, old.Name(), p.Active.Name(), old.Card.RetreatCost))
	return true
}
