package reward

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitEqualRatingsWinner(t *testing.T) {
	// pool 100 scales to 40; both sides expected 0.5; raw shares +20/-20.
	// The loser's negative share triggers the floor: 40*0.15 = 6, winner 34.
	xpA, xpB := Split(100, 0.5, 1)
	assert.Equal(t, 34.0, xpA)
	assert.Equal(t, 6.0, xpB)
}

func TestSplitLoserAlwaysGetsFloor(t *testing.T) {
	xpA, xpB := Split(100, 0.5, 0)
	assert.Equal(t, 6.0, xpA)
	assert.Equal(t, 34.0, xpB)
}

func TestSplitZeroSum(t *testing.T) {
	cases := []struct {
		pool, expectedA, actualA float64
	}{
		{100, 0.5, 1},
		{100, 0.5, 0},
		{100, 0.5, 0.5},
		{250, 0.909, 1},
		{250, 0.091, 0},
		{73.5, 0.3, 1},
		{10, 0.7, 0.5},
	}
	for _, c := range cases {
		xpA, xpB := Split(c.pool, c.expectedA, c.actualA)
		assert.InDelta(t, c.pool*ScalingFactor, xpA+xpB, 0.011,
			"pool=%v expectedA=%v actualA=%v", c.pool, c.expectedA, c.actualA)
	}
}

func TestSplitNoNegativeShares(t *testing.T) {
	cases := []struct {
		pool, expectedA, actualA float64
	}{
		{100, 0.95, 1},  // heavy favorite wins, tiny raw share
		{100, 0.05, 0},  // heavy underdog loses, negative raw share
		{100, 0.5, 0.5}, // draw, both raw shares zero
	}
	for _, c := range cases {
		xpA, xpB := Split(c.pool, c.expectedA, c.actualA)
		assert.Greater(t, xpA, 0.0)
		assert.Greater(t, xpB, 0.0)
	}
}

func TestSplitSymmetricDrawIsEven(t *testing.T) {
	// a draw between equal expectations must not depend on which player
	// carries the A label
	xpA, xpB := Split(100, 0.5, 0.5)
	assert.Equal(t, 20.0, xpA)
	assert.Equal(t, 20.0, xpB)
}

func TestSplitDrawFavorsUnderdog(t *testing.T) {
	// a draw is a positive raw share for the underdog: the favorite's raw
	// share goes negative and is floored
	underdogXP, favoriteXP := Split(100, 0.2, 0.5)
	assert.Greater(t, underdogXP, favoriteXP)
	assert.Equal(t, 6.0, favoriteXP)
}

func TestSplitRoundsToTwoDecimals(t *testing.T) {
	xpA, xpB := Split(99.99, 0.3333, 1)
	assert.Equal(t, xpA, math.Round(xpA*100)/100)
	assert.Equal(t, xpB, math.Round(xpB*100)/100)
}
