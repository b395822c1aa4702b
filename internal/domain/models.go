package domain

import (
	"time"
)

type Player struct {
	ID        string
	Name      string
	XP        float64
	Rating    int
	Level     int
	Rank      int
	RankName  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SettlementRequest describes one finished two-player match. "A" and "B" are
// labels, not an ordering: swapping the players (and inverting the outcome)
// refers to the same match.
type SettlementRequest struct {
	PlayerAID   string  `json:"player_a_id"`
	PlayerBID   string  `json:"player_b_id"`
	OutcomeForA float64 `json:"outcome_for_a"` // 1 = A won, 0 = B won, 0.5 = draw
	RewardPool  float64 `json:"reward_pool"`
}

// PlayerOutcome is one side of a settled match.
type PlayerOutcome struct {
	PlayerID     string  `json:"player_id"`
	XPEarned     float64 `json:"xp_earned"`
	RatingChange int     `json:"rating_change"`
	NewXP        float64 `json:"new_xp"`
	NewRating    int     `json:"new_rating"`
	NewLevel     int     `json:"new_level"`
	NewRank      int     `json:"new_rank"`
	NewRankName  string  `json:"new_rank_name"`
}

// SettlementResult is returned to every caller that resolves for a given
// fingerprint, coalesced and replayed duplicates included.
type SettlementResult struct {
	PlayerA PlayerOutcome `json:"player_a"`
	PlayerB PlayerOutcome `json:"player_b"`
}

const AttemptKindMulti = "multi"

// AttemptRecord is one player's half of a settled match. Two records sharing
// a Fingerprint and CreatedAt constitute one match; they are the durable
// source of truth the lookback scan reconstructs duplicates from.
type AttemptRecord struct {
	ID           string
	PlayerID     string
	Fingerprint  string
	RatingBefore int
	RatingAfter  int
	RatingChange int
	XPBefore     float64
	XPAfter      float64
	XPChange     float64
	Kind         string
	CreatedAt    time.Time
}
