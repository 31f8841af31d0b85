package game

import (
	"fmt"

	"github.com/peterkuimelis/pocketcg/internal/log"
)

// ExecuteAttack has the turn player's active unit use the attack at attackIdx.
// Reports whether the attack was performed; a performed attack ends the turn
// even when confusion makes it fail.
func (d *Duel) ExecuteAttack(attackIdx int) (bool, error) {
	gs := d.State
	if gs.Over {
		return false, ErrGameOver
	}
	tp := gs.TurnPlayer
	opp := gs.Opponent(tp)
	attacker := gs.Players[tp].Active
	if attacker == nil || attackIdx < 0 || attackIdx >= len(attacker.Card.Attacks) {
		return false, nil
	}
	atk := attacker.Card.Attacks[attackIdx]
	if !attacker.CanPerformAttack(atk) {
		return false, nil
	}

	d.log(log.NewAttackEvent(gs.Turn, gs.Phase.String(), tp, attacker.Name(), atk.Name))

	if attacker.Status == StatusConfusion {
		heads := d.rng.CoinFlip()
		d.log(log.NewCoinFlipEvent(gs.Turn, gs.Phase.String(), tp, "confusion", heads))
		if !heads {
			d.log(log.NewAttackFailedEvent(gs.Turn, gs.Phase.String(), tp, attacker.Name(), "confused"))
			return true, nil
		}
	}

	targets := d.selectTargets(atk.Target, opp)
	if len(targets) == 0 {
		d.log(log.NewAttackFailedEvent(gs.Turn, gs.Phase.String(), tp, attacker.Name(), "no target"))
		return true, nil
	}
	for _, target := range targets {
		if gs.Over {
			break
		}
		if !gs.Players[opp].IsInPlay(target) {
			continue
		}
		if err := d.ApplyDamage(target, d.CalculateDamage(attacker, target, atk), opp); err != nil {
			return true, err
		}
	}
	return true, nil
}

// selectTargets picks the defending units for a target rule.
func (d *Duel) selectTargets(rule TargetRule, opp int) []*Unit {
	p := d.State.Players[opp]
	switch rule {
	case TargetOpponentBench:
		if len(p.Bench) == 0 {
			return nil
		}
		return []*Unit{p.Bench[d.rng.Intn(len(p.Bench))]}
	case TargetRandomOpponent:
		pool := p.InPlay()
		if len(pool) == 0 {
			return nil
		}
		return []*Unit{pool[d.rng.Intn(len(pool))]}
	case TargetMultiRandom:
		pool := p.InPlay()
		if len(pool) == 0 {
			return nil
		}
		picked := pickDistinct(d.rng, len(pool), 2)
		out := make([]*Unit, len(picked))
		for i, idx := range picked {
			out[i] = pool[idx]
		}
		return out
	default:
		if p.Active == nil {
			return nil
		}
		return []*Unit{p.Active}
	}
}

// CalculateDamage returns the attack's base damage plus WeaknessBonus when
// the defender is weak to the attacker's element.
func (d *Duel) CalculateDamage(attacker, defender *Unit, atk Attack) int {
	dmg := atk.Damage
	if defender.WeaknessApplies(attacker.Card.Element) {
		dmg += WeaknessBonus
	}
	return dmg
}

// ApplyDamage puts amount damage on target, which belongs to owner. A
// knocked out unit leaves play and owner promotes a bench unit if the active
// slot emptied. The knockout points go to the attacking side, the opponent
// of owner, not to owner. Units no longer in play are ignored.
func (d *Duel) ApplyDamage(target *Unit, amount, owner int) error {
	gs := d.State
	if gs.Over {
		return ErrGameOver
	}
	if target == nil || !gs.Players[owner].IsInPlay(target) {
		return nil
	}
	if amount < 0 {
		amount = 0
	}
	target.Damage += amount
	d.log(log.NewDamageEvent(gs.Turn, gs.Phase.String(), owner, target.Name(), amount, target.RemainingHP()))

	if !target.IsKnockedOut() {
		return nil
	}
	return d.knockOut(target, owner)
}

func (d *Duel) knockOut(target *Unit, owner int) error {
	gs := d.State
	p := gs.Players[owner]
	if !p.IsInPlay(target) {
		return nil
	}
	wasActive := p.removeUnit(target)
	p.discardUnit(target)
	d.log(log.NewKnockoutEvent(gs.Turn, gs.Phase.String(), owner, target.Name()))

	scorer := gs.Opponent(owner)
	points := target.Points()
	gs.Players[scorer].Score += points
	d.log(log.NewScoreEvent(gs.Turn, gs.Phase.String(), scorer, points, gs.Players[scorer].Score))

	if d.checkWin() {
		return nil
	}
	if wasActive && len(p.Bench) > 0 {
		return d.promote(owner)
	}
	return nil
}

// promote asks owner which bench unit becomes active. Defaults to the first.
func (d *Duel) promote(owner int) error {
	gs := d.State
	p := gs.Players[owner]
	idx, err := d.choose(owner, Decision{
		Kind:    DecisionPromote,
		Prompt:  "Your active Pokémon was knocked out. Choose a replacement",
		Options: unitNames(p.Bench),
	})
	if err != nil {
		return fmt.Errorf("promote: %w", err)
	}
	u := p.promoteFromBench(idx)
	d.log(log.NewPromoteEvent(gs.Turn, gs.Phase.String(), owner, u.Name()))
	return nil
}
