package game

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownEffect is reported when a row names a kind with no handler.
	ErrUnknownEffect = errors.New("unknown effect kind")
	// ErrNoActive is reported when an effect needs an Active Pokémon and there is none.
	ErrNoActive = errors.New("no active pokemon")
	// ErrMalformedRow is reported when row parameters cannot be parsed.
	ErrMalformedRow = errors.New("malformed effect row")
	// ErrNoController is returned when a decision is requested from an empty seat.
	ErrNoController = errors.New("no controller for player")
	// ErrSelectionInProgress is the panic value of a nested Selector.Await.
	// Handler recovery re-raises it.
	ErrSelectionInProgress = errors.New("game: selection already in progress")
)

// OutcomeKind tags an effect's expected result.
type OutcomeKind int

const (
	OutcomeOK OutcomeKind = iota
	OutcomeCancelled
	OutcomePreconditionFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeCancelled:
		return "cancelled"
	case OutcomePreconditionFailed:
		return "precondition failed"
	default:
		return "ok"
	}
}

// Outcome is the non-error result of running an effect. A cancelled or
// failed outcome tells the orchestrator to undo the triggering action (for
// example, return a trainer card to hand).
type Outcome struct {
	Kind   OutcomeKind
	Reason string
}

// OK is the successful outcome.
func OK() Outcome { return Outcome{Kind: OutcomeOK} }

// Cancelled reports that the player backed out of a selection.
func Cancelled() Outcome { return Outcome{Kind: OutcomeCancelled} }

// PreconditionFailed reports that the effect could not apply.
func PreconditionFailed(format string, args ...any) Outcome {
	return Outcome{Kind: OutcomePreconditionFailed, Reason: fmt.Sprintf(format, args...)}
}

// Succeeded reports whether the outcome is OK.
func (o Outcome) Succeeded() bool { return o.Kind == OutcomeOK }

func (o Outcome) String() string {
	if o.Reason != "" {
		return o.Kind.String() + ": " + o.Reason
	}
	return o.Kind.String()
}

// EffectError wraps a failure raised while a handler ran.
type EffectError struct {
	Source string // card name
	Kind   string // effect kind
	Err    error
}

func (e *EffectError) Error() string {
	return fmt.Sprintf("effect %s on %s: %v", e.Kind, e.Source, e.Err)
}

func (e *EffectError) Unwrap() error { return e.Err }
