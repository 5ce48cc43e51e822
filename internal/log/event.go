package log

// EventType enumerates all observable match events.
type EventType int

const (
	EventNewTurn EventType = iota
	EventDraw
	EventShuffle
	EventPlayBasic
	EventEvolve
	EventPromote
	EventRetreat
	EventCoinFlip
	EventAttackDeclare
	EventDamagePreview
	EventDamage
	EventHeal
	EventKnockOut
	EventAttachEnergy
	EventDiscardEnergy
	EventTransferEnergy
	EventStatus
	EventStatusCleared
	EventCheckup
	EventTrainer
	EventAbility
	EventSelection
	EventSelectionCancelled
	EventTurnEffect
	EventTurnEnd
	EventEffectFailed
	EventPreconditionFailed
	EventMatchOver
)

func (e EventType) String() string {
	switch e {
	case EventNewTurn:
		return "NewTurn"
	case EventDraw:
		return "Draw"
	case EventShuffle:
		return "Shuffle"
	case EventPlayBasic:
		return "PlayBasic"
	case EventEvolve:
		return "Evolve"
	case EventPromote:
		return "Promote"
	case EventRetreat:
		return "Retreat"
	case EventCoinFlip:
		return "CoinFlip"
	case EventAttackDeclare:
		return "AttackDeclare"
	case EventDamagePreview:
		return "DamagePreview"
	case EventDamage:
		return "Damage"
	case EventHeal:
		return "Heal"
	case EventKnockOut:
		return "KnockOut"
	case EventAttachEnergy:
		return "AttachEnergy"
	case EventDiscardEnergy:
		return "DiscardEnergy"
	case EventTransferEnergy:
		return "TransferEnergy"
	case EventStatus:
		return "Status"
	case EventStatusCleared:
		return "StatusCleared"
	case EventCheckup:
		return "Checkup"
	case EventTrainer:
		return "Trainer"
	case EventAbility:
		return "Ability"
	case EventSelection:
		return "Selection"
	case EventSelectionCancelled:
		return "SelectionCancelled"
	case EventTurnEffect:
		return "TurnEffect"
	case EventTurnEnd:
		return "TurnEnd"
	case EventEffectFailed:
		return "EffectFailed"
	case EventPreconditionFailed:
		return "PreconditionFailed"
	case EventMatchOver:
		return "MatchOver"
	default:
		return "Unknown"
	}
}

// GameEvent represents a single observable event in a match.
type GameEvent struct {
	Seq     int       // monotonic sequence number
	Turn    int       // which turn (1-based, 0 during setup)
	Player  int       // acting player (0 or 1)
	Type    EventType // event type
	Card    string    // card name (if applicable)
	Amount  int       // damage, energy count, heads... depending on Type
	Details string    // human-readable detail string
}
