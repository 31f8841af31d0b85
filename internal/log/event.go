package log

// EventType enumerates all observable game events.
type EventType int

const (
	EventPhaseChange EventType = iota
	EventNewTurn
	EventDraw
	EventDrawSkipped // deck empty at the start of turn
	EventShuffle
	EventMulligan
	EventFirstPlayer
	EventPlace
	EventEvolve
	EventAttachEnergy
	EventEnergyDrawn
	EventAttachTool
	EventPlayItem
	EventPlaySupporter
	EventRetreat
	EventAttack
	EventAttackFailed
	EventCoinFlip
	EventDamage
	EventKnockout
	EventScore
	EventPromote
	EventStatus
	EventStatusDamage
	EventStatusCleared
	EventWin
	EventGameDrawn
)

func (e EventType) String() string {
	switch e {
	case EventPhaseChange:
		return "PhaseChange"
	case EventNewTurn:
		return "NewTurn"
	case EventDraw:
		return "Draw"
	case EventDrawSkipped:
		return "DrawSkipped"
	case EventShuffle:
		return "Shuffle"
	case EventMulligan:
		return "Mulligan"
	case EventFirstPlayer:
		return "FirstPlayer"
	case EventPlace:
		return "Place"
	case EventEvolve:
		return "Evolve"
	case EventAttachEnergy:
		return "AttachEnergy"
	case EventEnergyDrawn:
		return "EnergyDrawn"
	case EventAttachTool:
		return "AttachTool"
	case EventPlayItem:
		return "PlayItem"
	case EventPlaySupporter:
		return "PlaySupporter"
	case EventRetreat:
		return "Retreat"
	case EventAttack:
		return "Attack"
	case EventAttackFailed:
		return "AttackFailed"
	case EventCoinFlip:
		return "CoinFlip"
	case EventDamage:
		return "Damage"
	case EventKnockout:
		return "Knockout"
	case EventScore:
		return "Score"
	case EventPromote:
		return "Promote"
	case EventStatus:
		return "Status"
	case EventStatusDamage:
		return "StatusDamage"
	case EventStatusCleared:
		return "StatusCleared"
	case EventWin:
		return "Win"
	case EventGameDrawn:
		return "Draw(tie)"
	default:
		return "Unknown"
	}
}

// GameEvent represents a single observable event in a game.
type GameEvent struct {
	Seq     int       // monotonic sequence number
	Turn    int       // which turn (1-based, 0 during setup)
	Phase   string    // current phase name (e.g. "Main Phase")
	Player  int       // acting player (0 or 1)
	Type    EventType // event type
	Card    string    // card name (if applicable)
	Details string    // human-readable detail string
}
