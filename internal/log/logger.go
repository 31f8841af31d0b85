package log

import (
	"fmt"
	"io"
	"strings"
)

// EventLogger is the interface for logging game events.
type EventLogger interface {
	Log(event GameEvent)
	Events() []GameEvent
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	events []GameEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event GameEvent) {
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
}

func (l *MemoryLogger) Events() []GameEvent {
	return l.events
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []GameEvent {
	var result []GameEvent
	for _, e := range l.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() GameEvent {
	if len(l.events) == 0 {
		return GameEvent{}
	}
	return l.events[len(l.events)-1]
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

// --- Formatting ---

// playerName returns "P1" or "P2" for display.
func playerName(p int) string {
	return fmt.Sprintf("P%d", p+1)
}

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	phase := e.Phase
	if phase == "" {
		phase = "          "
	}
	// Pad phase to 12 chars for alignment
	for len(phase) < 12 {
		phase += " "
	}

	return fmt.Sprintf("T%-2d %s| %s", e.Turn, phase, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for common events ---

func NewPhaseChangeEvent(turn int, phase string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventPhaseChange,
		Details: fmt.Sprintf("Phase → %s", phase),
	}
}

func NewTurnEvent(turn int, player int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Start Phase",
		Player:  player,
		Type:    EventNewTurn,
		Details: fmt.Sprintf("=== Turn %d (%s) ===", turn, playerName(player)),
	}
}

func NewDrawEvent(turn int, phase string, player int, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventDraw,
		Card:    cardName,
		Details: fmt.Sprintf("%s draws %s", playerName(player), cardName),
	}
}

func NewDrawSkippedEvent(turn int, phase string, player int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventDrawSkipped,
		Details: fmt.Sprintf("%s has no cards left to draw", playerName(player)),
	}
}

func NewShuffleEvent(turn int, phase string, player int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventShuffle,
		Details: fmt.Sprintf("%s shuffles their deck", playerName(player)),
	}
}

func NewMulliganEvent(turn int, phase string, player int, attempt int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventMulligan,
		Details: fmt.Sprintf("%s has no Basic Pokémon, reshuffles and redraws (mulligan %d)", playerName(player), attempt),
	}
}

func NewFirstPlayerEvent(player int) GameEvent {
	return GameEvent{
		Phase:   "Setup",
		Player:  player,
		Type:    EventFirstPlayer,
		Details: fmt.Sprintf("%s goes first", playerName(player)),
	}
}

func NewPlaceEvent(turn int, phase string, player int, cardName string, active bool) GameEvent {
	where := "bench"
	if active {
		where = "active spot"
	}
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventPlace,
		Card:    cardName,
		Details: fmt.Sprintf("%s places %s in the %s", playerName(player), cardName, where),
	}
}

func NewEvolveEvent(turn int, phase string, player int, from, to string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventEvolve,
		Card:    to,
		Details: fmt.Sprintf("%s evolves %s into %s", playerName(player), from, to),
	}
}

func NewEnergyEvent(turn int, phase string, player int, element, target string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventAttachEnergy,
		Card:    target,
		Details: fmt.Sprintf("%s attaches %s energy to %s", playerName(player), element, target),
	}
}

func NewEnergyDrawnEvent(turn int, phase string, player int, current, next string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventEnergyDrawn,
		Details: fmt.Sprintf("%s energy: %s (next %s)", playerName(player), current, next),
	}
}

func NewToolEvent(turn int, phase string, player int, toolName, target string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventAttachTool,
		Card:    toolName,
		Details: fmt.Sprintf("%s attaches %s to %s", playerName(player), toolName, target),
	}
}

func NewItemEvent(turn int, phase string, player int, cardName, effect string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventPlayItem,
		Card:    cardName,
		Details: withEffect(fmt.Sprintf("%s plays %s", playerName(player), cardName), effect),
	}
}

func NewSupporterEvent(turn int, phase string, player int, cardName, effect string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventPlaySupporter,
		Card:    cardName,
		Details: withEffect(fmt.Sprintf("%s plays supporter %s", playerName(player), cardName), effect),
	}
}

func withEffect(details, effect string) string {
	if effect == "" {
		return details
	}
	return details + ": " + effect
}

func NewRetreatEvent(turn int, phase string, player int, from, to string, discarded int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventRetreat,
		Card:    from,
		Details: fmt.Sprintf("%s retreats %s for %s, discarding %d energy", playerName(player), from, to, discarded),
	}
}

func NewAttackEvent(turn int, phase string, player int, attacker, attack string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventAttack,
		Card:    attacker,
		Details: fmt.Sprintf("%s's %s uses %s", playerName(player), attacker, attack),
	}
}

func NewAttackFailedEvent(turn int, phase string, player int, attacker, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventAttackFailed,
		Card:    attacker,
		Details: fmt.Sprintf("%s's attack has no effect (%s)", attacker, reason),
	}
}

func NewCoinFlipEvent(turn int, phase string, player int, reason string, heads bool) GameEvent {
	side := "tails"
	if heads {
		side = "heads"
	}
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventCoinFlip,
		Details: fmt.Sprintf("Coin flip for %s: %s", reason, side),
	}
}

func NewDamageEvent(turn int, phase string, player int, cardName string, amount, remaining int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventDamage,
		Card:    cardName,
		Details: fmt.Sprintf("%s's %s takes %d damage (%d HP left)", playerName(player), cardName, amount, remaining),
	}
}

func NewKnockoutEvent(turn int, phase string, player int, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventKnockout,
		Card:    cardName,
		Details: fmt.Sprintf("%s's %s is knocked out", playerName(player), cardName),
	}
}

func NewScoreEvent(turn int, phase string, player int, points, total int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventScore,
		Details: fmt.Sprintf("%s scores %d (total %d)", playerName(player), points, total),
	}
}

func NewPromoteEvent(turn int, phase string, player int, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventPromote,
		Card:    cardName,
		Details: fmt.Sprintf("%s promotes %s to the active spot", playerName(player), cardName),
	}
}

func NewStatusEvent(turn int, phase string, player int, cardName, status string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventStatus,
		Card:    cardName,
		Details: fmt.Sprintf("%s's %s is now %s", playerName(player), cardName, status),
	}
}

func NewStatusDamageEvent(turn int, phase string, player int, cardName, status string, amount int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventStatusDamage,
		Card:    cardName,
		Details: fmt.Sprintf("%s's %s is %s and takes %d damage", playerName(player), cardName, status, amount),
	}
}

func NewStatusClearedEvent(turn int, phase string, player int, cardName, status string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventStatusCleared,
		Card:    cardName,
		Details: fmt.Sprintf("%s's %s is no longer %s", playerName(player), cardName, status),
	}
}

func NewWinEvent(turn int, phase string, winner int, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  winner,
		Type:    EventWin,
		Details: fmt.Sprintf("%s wins! (%s)", playerName(winner), reason),
	}
}

func NewGameDrawnEvent(turn int, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Finished",
		Player:  -1,
		Type:    EventGameDrawn,
		Details: fmt.Sprintf("Game drawn (%s)", reason),
	}
}
