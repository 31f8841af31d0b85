package game

import (
	"github.com/peterkuimelis/pocketcg/internal/log"
)

const (
	PoisonDamage = 10
	BurnDamage   = 20
)

// ApplyStatus gives target a special condition, replacing any it had.
func (d *Duel) ApplyStatus(target *Unit, status StatusCondition) bool {
	gs := d.State
	if gs.Over || target == nil || !gs.Players[target.Owner].IsInPlay(target) {
		return false
	}
	target.SetStatus(status, gs.Turn)
	if status != StatusNone {
		d.log(log.NewStatusEvent(gs.Turn, gs.Phase.String(), target.Owner, target.Name(), status.String()))
	}
	return true
}

// statusCheckup resolves special conditions on every unit the player has in
// play at the end of their turn.
func (d *Duel) statusCheckup(player int) error {
	gs := d.State
	p := gs.Players[player]
	phase := gs.Phase.String()

	for _, u := range p.InPlay() {
		if gs.Over {
			return nil
		}
		if !p.IsInPlay(u) {
			continue
		}
		switch u.Status {
		case StatusPoison:
			d.log(log.NewStatusDamageEvent(gs.Turn, phase, player, u.Name(), u.Status.String(), PoisonDamage))
			if err := d.ApplyDamage(u, PoisonDamage, player); err != nil {
				return err
			}
		case StatusBurn:
			d.log(log.NewStatusDamageEvent(gs.Turn, phase, player, u.Name(), u.Status.String(), BurnDamage))
			if err := d.ApplyDamage(u, BurnDamage, player); err != nil {
				return err
			}
			if gs.Over || !p.IsInPlay(u) {
				continue
			}
			heads := d.rng.CoinFlip()
			d.log(log.NewCoinFlipEvent(gs.Turn, phase, player, "burn", heads))
			if heads {
				d.clearStatus(u)
			}
		case StatusSleep:
			heads := d.rng.CoinFlip()
			d.log(log.NewCoinFlipEvent(gs.Turn, phase, player, "sleep", heads))
			if heads {
				d.clearStatus(u)
			}
		case StatusParalysis:
			if u.StatusTurn < gs.Turn {
				d.clearStatus(u)
			}
		}
	}
	return nil
}

func (d *Duel) clearStatus(u *Unit) {
	gs := d.State
	old := u.Status
	u.ClearStatus()
	d.log(log.NewStatusClearedEvent(gs.Turn, gs.Phase.String(), u.Owner, u.Name(), old.String()))
}
