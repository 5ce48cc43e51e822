package game

import (
	"context"
	"fmt"

	"github.com/peterkuimelis/tcgpx/internal/effectdata"
	"github.com/peterkuimelis/tcgpx/internal/log"
)

// EffectContext is handed to every handler. Damage is set only for moves.
type EffectContext struct {
	Engine *Engine
	Player int
	Source *CardInstance // attacker, ability holder, or the trainer card played
	Target *CardInstance // pre-chosen target, e.g. the Pokémon a tool goes on
	Row    effectdata.Row
	Damage *DamageContext

	final bool
}

// Final reports whether the handler may mutate the match. Trainer and
// ability contexts are always final.
func (ec *EffectContext) Final() bool { return ec.final }

// State returns the match state.
func (ec *EffectContext) State() *GameState { return ec.Engine.State }

// Opponent returns the other player's index.
func (ec *EffectContext) Opponent() int { return 1 - ec.Player }

// Me returns the acting player.
func (ec *EffectContext) Me() *Player { return ec.Engine.State.Players[ec.Player] }

// Opp returns the opposing player.
func (ec *EffectContext) Opp() *Player { return ec.Engine.State.Players[ec.Opponent()] }

// Defender returns the opposing Active Pokémon, which may be nil.
func (ec *EffectContext) Defender() *CardInstance { return ec.Opp().Active }

// Flip tosses one coin. Final flips are shown to both players; preview
// flips are silent.
func (ec *EffectContext) Flip(ctx context.Context) (CoinResult, error) {
	if !ec.final {
		return ec.Engine.Coins.PreviewFlip(ec.Player), nil
	}
	return ec.Engine.FlipVisible(ctx, ec.Player)
}

// FlipN tosses n coins and returns the number of heads.
func (ec *EffectContext) FlipN(ctx context.Context, n int) (int, error) {
	heads := 0
	for i := 0; i < n; i++ {
		r, err := ec.Flip(ctx)
		if err != nil {
			return heads, err
		}
		if r.IsHeads() {
			heads++
		}
	}
	return heads, nil
}

// FlipUntilTails tosses until tails and returns the heads count.
func (ec *EffectContext) FlipUntilTails(ctx context.Context) (int, error) {
	heads := 0
	for heads < maxFlipsUntilTails {
		r, err := ec.Flip(ctx)
		if err != nil {
			return heads, err
		}
		if !r.IsHeads() {
			break
		}
		heads++
	}
	return heads, nil
}

// Choose asks the acting player to pick one candidate. Previews never
// prompt and get nil.
func (ec *EffectContext) Choose(ctx context.Context, prompt string, candidates []*CardInstance, mode SelectMode) (*CardInstance, error) {
	if !ec.final {
		return nil, nil
	}
	return ec.Engine.Select.Await(ctx, ec.Player, prompt, candidates, mode)
}

// Energy returns the ledger.
func (ec *EffectContext) Energy() *EnergyLedger { return ec.Engine.Energy }

// Effects returns the turn-effect store.
func (ec *EffectContext) Effects() *TurnEffects { return ec.Engine.Effects }

// Malformed records a parameter the handler could not parse. The handler
// carries on with its documented default.
func (ec *EffectContext) Malformed(ctx context.Context, what string) {
	if !ec.final {
		return
	}
	ec.Engine.Log(ctx, log.NewEffectFailedEvent(ec.Engine.State.Turn, ec.Player, ec.Row.Name, ec.Row.Kind,
		fmt.Errorf("%w: %s", ErrMalformedRow, what)))
}
