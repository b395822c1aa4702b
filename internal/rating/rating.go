package rating

import "math"

const (
	// KFactor bounds how far one match can move a rating.
	KFactor = 40.0
	// Sensitivity is the rating gap at which the stronger side's expected
	// score reaches ~0.91.
	Sensitivity = 400.0
	// DefaultRating is assigned to newly registered players.
	DefaultRating = 1000
)

// Expected returns the probability-like expected score (0..1) for a player
// at ratingSelf facing ratingOpponent. Expected(r, r) == 0.5 for any r.
func Expected(ratingSelf, ratingOpponent int) float64 {
	return 1.0 / (1.0 + math.Pow(10, float64(ratingOpponent-ratingSelf)/Sensitivity))
}

// Update returns the post-match rating. actual is the outcome from this
// player's perspective (1 win, 0.5 draw, 0 loss). The result is clamped at
// zero: a rating can reach the floor but never cross it.
func Update(current int, expected, actual float64) int {
	updated := int(math.Round(float64(current) + KFactor*(actual-expected)))
	if updated < 0 {
		return 0
	}
	return updated
}
