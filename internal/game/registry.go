package game

import (
	"context"
	"sort"
)

// Handler runs one effect kind. Move handlers see ec.Damage and must not
// mutate state unless ec.Final() is true.
type Handler func(ctx context.Context, ec *EffectContext) (Outcome, error)

// Registries map effect kind to handler. They are filled by init functions
// in the content files and never change afterwards.
var (
	MoveEffects    = make(map[string]Handler)
	TrainerEffects = make(map[string]Handler)
	AbilityEffects = make(map[string]Handler)
)

// fixedZeroKinds compute their whole damage themselves; base damage is
// ignored and preview/final reconciliation is skipped.
var fixedZeroKinds = make(map[string]bool)

func registerMove(kind string, h Handler)    { MoveEffects[kind] = h }
func registerTrainer(kind string, h Handler) { TrainerEffects[kind] = h }
func registerAbility(kind string, h Handler) { AbilityEffects[kind] = h }

// RegisteredKinds lists the kinds in a registry, sorted.
func RegisteredKinds(reg map[string]Handler) []string {
	kinds := make([]string, 0, len(reg))
	for k := range reg {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
