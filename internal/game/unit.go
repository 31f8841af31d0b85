package game

import "fmt"

// WeaknessBonus is the flat damage added when the attacker's element matches
// the defender's weakness.
const WeaknessBonus = 20

// Unit is a Pokémon in play: a card plus its mutable battle state.
type Unit struct {
	ID          int
	Card        *Card
	Owner       int
	Damage      int
	Energy      EnergyCounts
	Tool        *Card
	Status      StatusCondition
	StatusTurn  int     // turn the current status was applied
	TurnEntered int     // turn the unit was placed or evolved
	Evolved     []*Card // pre-evolution cards underneath, bottom first
}

func (u *Unit) String() string {
	return fmt.Sprintf("%s (%d/%d)", u.Card.Name, u.RemainingHP(), u.Card.HP)
}

// Name returns the card name of the unit.
func (u *Unit) Name() string {
	return u.Card.Name
}

// RemainingHP returns hp minus damage, floored at 0.
func (u *Unit) RemainingHP() int {
	if u.Damage >= u.Card.HP {
		return 0
	}
	return u.Card.HP - u.Damage
}

// IsKnockedOut reports whether accumulated damage has reached the unit's hp.
func (u *Unit) IsKnockedOut() bool {
	return u.Damage >= u.Card.HP
}

// Points returns the score the opponent earns for knocking this unit out.
func (u *Unit) Points() int {
	return u.Card.Points()
}

// AttachEnergy adds one energy of the given element.
func (u *Unit) AttachEnergy(e ElementType) {
	u.Energy[e]++
}

// RemoveEnergy removes one energy of the given element, if present.
func (u *Unit) RemoveEnergy(e ElementType) bool {
	if u.Energy[e] == 0 {
		return false
	}
	u.Energy[e]--
	return true
}

// RemoveAnyEnergy removes one energy of the first element, in enum order,
// that has any attached.
func (u *Unit) RemoveAnyEnergy() (ElementType, bool) {
	for e := ElementColorless; e < ElementCount; e++ {
		if u.Energy[e] > 0 {
			u.Energy[e]--
			return e, true
		}
	}
	return ElementColorless, false
}

// CanPerformAttack reports whether the unit may use atk now. Colored costs
// are paid from matching energy first; Colorless costs are covered by
// whatever remains.
func (u *Unit) CanPerformAttack(atk Attack) bool {
	if u.Status == StatusSleep || u.Status == StatusParalysis {
		return false
	}
	remaining := u.Energy
	colorless := 0
	for _, e := range atk.Cost {
		if e == ElementColorless {
			colorless++
			continue
		}
		if remaining[e] == 0 {
			return false
		}
		remaining[e]--
	}
	return remaining.Total() >= colorless
}

// CanRetreat reports whether the unit has enough energy to pay its retreat cost.
func (u *Unit) CanRetreat() bool {
	if u.Status == StatusParalysis {
		return false
	}
	return u.Energy.Total() >= u.Card.RetreatCost
}

// CanEvolve reports whether the unit may evolve on the given turn: never on
// the first two turns of the game nor on the turn it entered play.
func (u *Unit) CanEvolve(turn int) bool {
	return turn > u.TurnEntered && turn > 2
}

// CanEvolveInto reports whether card is a direct evolution of this unit.
func (u *Unit) CanEvolveInto(card *Card) bool {
	if card == nil || !card.IsPokemon() || card.IsBasic() {
		return false
	}
	return sameName(card.EvolutionType, u.Card.Name)
}

// CanAttachTool reports whether the unit has a free tool slot.
func (u *Unit) CanAttachTool() bool {
	return u.Tool == nil
}

// SetStatus replaces the unit's status condition.
func (u *Unit) SetStatus(s StatusCondition, turn int) {
	u.Status = s
	u.StatusTurn = turn
}

// ClearStatus removes any status condition.
func (u *Unit) ClearStatus() {
	u.Status = StatusNone
	u.StatusTurn = 0
}

// WeaknessApplies reports whether an attacker of element e hits this unit's weakness.
func (u *Unit) WeaknessApplies(e ElementType) bool {
	if u.Card.Weakness == "" {
		return false
	}
	w, ok := LookupElement(u.Card.Weakness)
	return ok && w == e
}

// Cards returns every card that makes up the unit: pre-evolutions, the unit
// card itself and its tool.
func (u *Unit) Cards() []*Card {
	out := make([]*Card, 0, len(u.Evolved)+2)
	out = append(out, u.Evolved...)
	out = append(out, u.Card)
	if u.Tool != nil {
		out = append(out, u.Tool)
	}
	return out
}
