package domain

import (
	"errors"
	"fmt"
)

// ErrPlayerNotFound maps to 404; no writes have happened when it is returned.
var ErrPlayerNotFound = errors.New("player not found")

// ValidationError rejects a request before any I/O. Maps to 400.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// Validate checks the request shape. It runs before a fingerprint is ever
// computed, so a malformed request never registers in-flight state.
func (r *SettlementRequest) Validate() error {
	if r.PlayerAID == "" {
		return NewValidationError("player_a_id", "must not be empty")
	}
	if r.PlayerBID == "" {
		return NewValidationError("player_b_id", "must not be empty")
	}
	if r.PlayerAID == r.PlayerBID {
		return NewValidationError("player_b_id", "players must be distinct")
	}
	if r.OutcomeForA != 0 && r.OutcomeForA != 0.5 && r.OutcomeForA != 1 {
		return NewValidationError("outcome_for_a", "must be 0, 0.5 or 1")
	}
	if r.RewardPool <= 0 {
		return NewValidationError("reward_pool", "must be positive")
	}
	return nil
}
