package net

import (
	"strconv"

	"github.com/peterkuimelis/pocketcg/internal/game"
)

// BuildStateView creates a StateView from the perspective of the given player.
// The opponent's hand is reduced to a count.
func BuildStateView(state *game.GameState, player int) *StateView {
	me := player
	opp := state.Opponent(me)

	sv := &StateView{
		You:        buildPlayerView(state, state.Players[me], true),
		Opponent:   buildPlayerView(state, state.Players[opp], false),
		Turn:       state.Turn,
		Phase:      state.Phase.String(),
		IsYourTurn: state.TurnPlayer == me,
		Over:       state.Over,
		Winner:     state.Winner,
	}
	return sv
}

// BuildSnapshot returns the whole board, both hands included.
func BuildSnapshot(state *game.GameState) *Snapshot {
	return &Snapshot{
		Players: [2]PlayerView{
			buildPlayerView(state, state.Players[0], true),
			buildPlayerView(state, state.Players[1], true),
		},
		Turn:       state.Turn,
		Phase:      state.Phase.String(),
		TurnPlayer: state.TurnPlayer,
		Over:       state.Over,
		Winner:     state.Winner,
		Result:     state.Result,
	}
}

func buildPlayerView(state *game.GameState, p *game.Player, showHand bool) PlayerView {
	pv := PlayerView{
		Name:          p.Name,
		Score:         p.Score,
		HandCount:     p.HandCount(),
		DeckCount:     p.DeckCount(),
		EnergyDiscard: len(p.EnergyDiscard),
		Bench:         []UnitView{},
	}
	if showHand {
		for _, c := range p.Hand {
			pv.Hand = append(pv.Hand, HandCardView(c))
		}
	}
	if p.Active != nil {
		uv := BuildUnitView(p.Active)
		pv.Active = &uv
	}
	for _, u := range p.Bench {
		pv.Bench = append(pv.Bench, BuildUnitView(u))
	}
	for _, c := range p.Discard {
		pv.Discard = append(pv.Discard, c.Name)
	}
	if p.Energy.HasCurrent {
		pv.Energy.Current = p.Energy.Current.String()
	}
	if p.Energy.HasNext {
		pv.Energy.Next = p.Energy.Next.String()
	}
	return pv
}

// HandCardView describes a card as seen in its owner's hand.
func HandCardView(c *game.Card) CardView {
	cv := CardView{Name: c.Name, Category: c.Category.String()}
	if c.IsPokemon() {
		cv.Stage = c.Stage
		cv.HP = c.HP
		cv.Element = c.Element.String()
	} else {
		cv.Effect = c.Ability.Effect
	}
	return cv
}

// BuildUnitView describes a Pokémon in play.
func BuildUnitView(u *game.Unit) UnitView {
	uv := UnitView{
		Name:        u.Name(),
		HP:          u.Card.HP,
		Damage:      u.Damage,
		RemainingHP: u.RemainingHP(),
		Element:     u.Card.Element.String(),
		Weakness:    u.Card.Weakness,
		RetreatCost: u.Card.RetreatCost,
		IsEx:        u.Card.IsEx,
	}
	if u.Energy.Total() > 0 {
		uv.Energy = make(map[string]int)
		for _, e := range game.Elements() {
			if n := u.Energy[e]; n > 0 {
				uv.Energy[e.String()] = n
			}
		}
	}
	if u.Tool != nil {
		uv.Tool = u.Tool.Name
	}
	if u.Status != game.StatusNone {
		uv.Status = u.Status.String()
	}
	for _, atk := range u.Card.Attacks {
		av := AttackView{
			Name:   atk.Name,
			Damage: atk.DamageText,
			Effect: atk.Effect,
			Usable: u.CanPerformAttack(atk),
		}
		if av.Damage == "" && atk.Damage > 0 {
			av.Damage = strconv.Itoa(atk.Damage)
		}
		for _, e := range atk.Cost {
			av.Cost = append(av.Cost, e.String())
		}
		uv.Attacks = append(uv.Attacks, av)
	}
	return uv
}
