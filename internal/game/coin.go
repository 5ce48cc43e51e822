package game

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"sync"
)

// previewSalt derives the preview stream from the match seed.
const previewSalt = 0x5eed_0f_c01

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// CoinResult is the outcome of one toss.
type CoinResult int

const (
	Tails CoinResult = iota
	Heads
)

func (r CoinResult) String() string {
	if r == Heads {
		return "heads"
	}
	return "tails"
}

// IsHeads reports whether the toss came up heads.
func (r CoinResult) IsHeads() bool {
	return r == Heads
}

// maxFlipsUntilTails bounds FlipUntilTails against a stuck guarantee.
const maxFlipsUntilTails = 100

// CoinFlipper supplies coin-flip outcomes. Each call to Flip is exactly one
// logical toss.
//
// Preview passes draw from a separate stream so that projecting damage never
// shifts the outcomes of the real flips that follow.
type CoinFlipper struct {
	mu         sync.Mutex
	rng        *rand.Rand
	preview    *rand.Rand
	guaranteed [2]bool
}

// NewCoinFlipper creates a flipper seeded with seed.
func NewCoinFlipper(seed int64) *CoinFlipper {
	return &CoinFlipper{
		rng:     rand.New(rand.NewSource(seed)),
		preview: rand.New(rand.NewSource(seed ^ previewSalt)),
	}
}

// GuaranteeHeads makes the player's next flip come up heads. The override is
// consumed by that one flip.
func (c *CoinFlipper) GuaranteeHeads(player int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.guaranteed[player] = true
}

// HasGuarantee reports whether the player's next flip is forced to heads.
func (c *CoinFlipper) HasGuarantee(player int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.guaranteed[player]
}

// Flip tosses one coin for player.
func (c *CoinFlipper) Flip(ctx context.Context, player int) (CoinResult, error) {
	if err := ctx.Err(); err != nil {
		return Tails, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.guaranteed[player] {
		c.guaranteed[player] = false
		return Heads, nil
	}
	if c.rng.Intn(2) == 0 {
		return Heads, nil
	}
	return Tails, nil
}

// FlipN tosses n coins and returns the number of heads.
func (c *CoinFlipper) FlipN(ctx context.Context, player, n int) (int, error) {
	heads := 0
	for i := 0; i < n; i++ {
		r, err := c.Flip(ctx, player)
		if err != nil {
			return heads, err
		}
		if r.IsHeads() {
			heads++
		}
	}
	return heads, nil
}

// FlipUntilTails tosses until the first tails and returns the heads count.
func (c *CoinFlipper) FlipUntilTails(ctx context.Context, player int) (int, error) {
	heads := 0
	for heads < maxFlipsUntilTails {
		r, err := c.Flip(ctx, player)
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

// PreviewFlip tosses a speculative coin. It neither consumes a guarantee nor
// advances the match stream.
func (c *CoinFlipper) PreviewFlip(player int) CoinResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.guaranteed[player] || c.preview.Intn(2) == 0 {
		return Heads
	}
	return Tails
}

// Intn exposes the shared source for non-coin random choices (random
// targets, energy zone) so one seed reproduces a whole match.
func (c *CoinFlipper) Intn(n int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rng.Intn(n)
}

// Shuffle shuffles n elements with the shared source.
func (c *CoinFlipper) Shuffle(n int, swap func(i, j int)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rng.Shuffle(n, swap)
}
