package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flips(t *testing.T, c *CoinFlipper, n int) []CoinResult {
	t.Helper()
	out := make([]CoinResult, n)
	for i := range out {
		r, err := c.Flip(context.Background(), 0)
		require.NoError(t, err)
		out[i] = r
	}
	return out
}

func TestCoinFlipperSameSeedSameSequence(t *testing.T) {
	a := flips(t, NewCoinFlipper(42), 50)
	b := flips(t, NewCoinFlipper(42), 50)
	assert.Equal(t, a, b)
}

func TestPreviewFlipsDoNotShiftRealFlips(t *testing.T) {
	plain := NewCoinFlipper(9)
	previewed := NewCoinFlipper(9)
	for i := 0; i < 17; i++ {
		previewed.PreviewFlip(0)
	}
	assert.Equal(t, flips(t, plain, 30), flips(t, previewed, 30))
}

func TestGuaranteeHeadsIsConsumedByOneFlip(t *testing.T) {
	c := NewCoinFlipper(3)
	c.GuaranteeHeads(1)
	assert.True(t, c.HasGuarantee(1))
	assert.False(t, c.HasGuarantee(0))

	// A preview sees the guarantee but leaves it in place.
	assert.Equal(t, Heads, c.PreviewFlip(1))
	assert.True(t, c.HasGuarantee(1))

	r, err := c.Flip(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, Heads, r)
	assert.False(t, c.HasGuarantee(1))
}

func TestFlipHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewCoinFlipper(1).Flip(ctx, 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFlipNCountsHeads(t *testing.T) {
	c := NewCoinFlipper(11)
	ref := flips(t, NewCoinFlipper(11), 10)
	want := 0
	for _, r := range ref {
		if r.IsHeads() {
			want++
		}
	}
	got, err := c.FlipN(context.Background(), 0, 10)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFlipUntilTailsStopsAtFirstTails(t *testing.T) {
	ref := flips(t, NewCoinFlipper(5), maxFlipsUntilTails)
	want := 0
	for _, r := range ref {
		if !r.IsHeads() {
			break
		}
		want++
	}
	got, err := NewCoinFlipper(5).FlipUntilTails(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestCoinResultString(t *testing.T) {
	assert.Equal(t, "heads", Heads.String())
	assert.Equal(t, "tails", Tails.String())
}
