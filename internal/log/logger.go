package log

import (
	"fmt"
	"io"
	"strings"
)

// EventLogger is the interface for logging match events.
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

// PlayerName returns "P1" or "P2" for display.
func PlayerName(p int) string {
	return fmt.Sprintf("P%d", p+1)
}

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	return fmt.Sprintf("T%-2d %-18s| %s", e.Turn, e.Type.String(), e.Details)
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

func NewTurnEvent(turn int, player int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventNewTurn,
		Details: fmt.Sprintf("=== Turn %d (%s) ===", turn, PlayerName(player)),
	}
}

func NewDrawEvent(turn int, player int, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventDraw,
		Card:    cardName,
		Details: fmt.Sprintf("%s draws %s", PlayerName(player), cardName),
	}
}

func NewShuffleEvent(turn int, player int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventShuffle,
		Details: fmt.Sprintf("%s shuffles their deck", PlayerName(player)),
	}
}

func NewPlayBasicEvent(turn int, player int, cardName string, slot string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventPlayBasic,
		Card:    cardName,
		Details: fmt.Sprintf("%s puts %s into the %s", PlayerName(player), cardName, slot),
	}
}

func NewEvolveEvent(turn int, player int, from, to string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventEvolve,
		Card:    to,
		Details: fmt.Sprintf("%s evolves %s into %s", PlayerName(player), from, to),
	}
}

func NewPromoteEvent(turn int, player int, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventPromote,
		Card:    cardName,
		Details: fmt.Sprintf("%s promotes %s to the Active Spot", PlayerName(player), cardName),
	}
}

func NewRetreatEvent(turn int, player int, from, to string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventRetreat,
		Card:    from,
		Details: fmt.Sprintf("%s retreats %s, %s becomes Active", PlayerName(player), from, to),
	}
}

func NewCoinFlipEvent(turn int, player int, heads bool) GameEvent {
	result := "tails"
	amount := 0
	if heads {
		result = "heads"
		amount = 1
	}
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventCoinFlip,
		Amount:  amount,
		Details: fmt.Sprintf("%s flips a coin: %s", PlayerName(player), result),
	}
}

func NewAttackDeclareEvent(turn int, player int, attacker, attack string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventAttackDeclare,
		Card:    attacker,
		Details: fmt.Sprintf("%s's %s uses %s", PlayerName(player), attacker, attack),
	}
}

func NewDamagePreviewEvent(turn int, player int, attack string, damage int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventDamagePreview,
		Card:    attack,
		Amount:  damage,
		Details: fmt.Sprintf("%s previews %s: %d damage", PlayerName(player), attack, damage),
	}
}

func NewDamageEvent(turn int, player int, target string, damage, hpLeft int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventDamage,
		Card:    target,
		Amount:  damage,
		Details: fmt.Sprintf("%s takes %d damage (%d HP left)", target, damage, hpLeft),
	}
}

func NewHealEvent(turn int, player int, target string, amount int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventHeal,
		Card:    target,
		Amount:  amount,
		Details: fmt.Sprintf("%s heals %d damage", target, amount),
	}
}

func NewKnockOutEvent(turn int, owner int, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  owner,
		Type:    EventKnockOut,
		Card:    cardName,
		Details: fmt.Sprintf("%s's %s is Knocked Out", PlayerName(owner), cardName),
	}
}

func NewAttachEnergyEvent(turn int, player int, cardName, energy string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventAttachEnergy,
		Card:    cardName,
		Amount:  1,
		Details: fmt.Sprintf("%s attaches %s Energy to %s", PlayerName(player), energy, cardName),
	}
}

func NewDiscardEnergyEvent(turn int, player int, cardName string, count int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventDiscardEnergy,
		Card:    cardName,
		Amount:  count,
		Details: fmt.Sprintf("%d Energy discarded from %s", count, cardName),
	}
}

func NewTransferEnergyEvent(turn int, player int, from, to string, count int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventTransferEnergy,
		Card:    to,
		Amount:  count,
		Details: fmt.Sprintf("%d Energy moved from %s to %s", count, from, to),
	}
}

func NewStatusEvent(turn int, owner int, cardName, status string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  owner,
		Type:    EventStatus,
		Card:    cardName,
		Details: fmt.Sprintf("%s is now %s", cardName, status),
	}
}

func NewStatusClearedEvent(turn int, owner int, cardName, status string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  owner,
		Type:    EventStatusCleared,
		Card:    cardName,
		Details: fmt.Sprintf("%s is no longer %s", cardName, status),
	}
}

func NewCheckupEvent(turn int, owner int, cardName, reason string, damage int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  owner,
		Type:    EventCheckup,
		Card:    cardName,
		Amount:  damage,
		Details: fmt.Sprintf("Checkup: %s takes %d damage (%s)", cardName, damage, reason),
	}
}

func NewTrainerEvent(turn int, player int, trainerName, kind string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventTrainer,
		Card:    trainerName,
		Details: fmt.Sprintf("%s plays %s (%s)", PlayerName(player), trainerName, kind),
	}
}

func NewAbilityEvent(turn int, player int, cardName, abilityName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventAbility,
		Card:    cardName,
		Details: fmt.Sprintf("%s's %s uses %s", PlayerName(player), cardName, abilityName),
	}
}

func NewSelectionEvent(turn int, player int, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventSelection,
		Card:    cardName,
		Details: fmt.Sprintf("%s selects %s", PlayerName(player), cardName),
	}
}

func NewSelectionCancelledEvent(turn int, player int, prompt string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventSelectionCancelled,
		Details: fmt.Sprintf("%s cancels selection: %s", PlayerName(player), prompt),
	}
}

func NewTurnEffectEvent(turn int, target int, effect string, value int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  target,
		Type:    EventTurnEffect,
		Amount:  value,
		Details: fmt.Sprintf("%s is affected by %s (%d)", PlayerName(target), effect, value),
	}
}

func NewTurnEndEvent(turn int, player int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventTurnEnd,
		Details: fmt.Sprintf("%s ends their turn", PlayerName(player)),
	}
}

func NewEffectFailedEvent(turn int, player int, source, kind string, err error) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventEffectFailed,
		Card:    source,
		Details: fmt.Sprintf("%s effect %q failed: %v", source, kind, err),
	}
}

func NewPreconditionFailedEvent(turn int, player int, source, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventPreconditionFailed,
		Card:    source,
		Details: fmt.Sprintf("%s could not be used: %s", source, reason),
	}
}

func NewMatchOverEvent(turn int, winner int, reason string) GameEvent {
	details := "Match over: " + reason
	if winner >= 0 {
		details = fmt.Sprintf("Match over: %s wins (%s)", PlayerName(winner), reason)
	}
	return GameEvent{
		Turn:    turn,
		Player:  winner,
		Type:    EventMatchOver,
		Details: details,
	}
}
