package reward

import "math"

const (
	// ScalingFactor shrinks the nominal pool to the XP actually distributed.
	ScalingFactor = 0.4
	// MinFraction is the guaranteed floor share of the scaled pool for a
	// player whose raw share would not be positive.
	MinFraction = 0.15
	// precision of persisted shares, in decimal places.
	precision = 2
)

// Split divides a reward pool between the two sides of a match. expectedA is
// player A's expected score, actualA the outcome from A's perspective; B's
// values are the complements. A raw share of scaledTotal*(actual-expected)
// can be zero or negative (a favorite that wins big expected to, an underdog
// that loses); that side is lifted to the floor share and the other side
// takes the remainder, so xpA+xpB always equals the scaled pool.
func Split(pool, expectedA, actualA float64) (xpA, xpB float64) {
	scaledTotal := pool * ScalingFactor

	rawA := scaledTotal * (actualA - expectedA)
	rawB := scaledTotal * ((1 - actualA) - (1 - expectedA))

	floor := scaledTotal * MinFraction
	switch {
	case rawA == 0 && rawB == 0:
		// A draw between equal expectations. Which player is labeled A
		// must not decide the shares, so the pool splits evenly.
		xpA = scaledTotal / 2
		xpB = scaledTotal / 2
	case rawA <= 0:
		xpA = floor
		xpB = scaledTotal - floor
	case rawB <= 0:
		xpB = floor
		xpA = scaledTotal - floor
	default:
		// Both raw shares positive cannot happen: they sum to zero.
		xpA = rawA
		xpB = rawB
	}

	return round(xpA), round(xpB)
}

func round(v float64) float64 {
	shift := math.Pow(10, precision)
	return math.Round(v*shift) / shift
}
