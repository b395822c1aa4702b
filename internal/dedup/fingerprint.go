package dedup

import (
	"strconv"
	"strings"

	"duel-ladder/internal/domain"
)

// Fingerprint derives the duplicate-detection key for a match outcome. The
// player IDs are sorted into canonical order first, so a retry that swaps
// which player it labels A and which B produces the same key. Outcome and
// pool are part of the key: a genuine rematch with a different score is a
// different fingerprint, not a duplicate.
func Fingerprint(req *domain.SettlementRequest) string {
	id1, id2 := req.PlayerAID, req.PlayerBID
	if id2 < id1 {
		id1, id2 = id2, id1
	}

	var b strings.Builder
	b.WriteString(id1)
	b.WriteByte('-')
	b.WriteString(id2)
	b.WriteByte('-')
	b.WriteString(strconv.FormatFloat(req.OutcomeForA, 'g', -1, 64))
	b.WriteByte('-')
	b.WriteString(strconv.FormatFloat(req.RewardPool, 'g', -1, 64))
	return b.String()
}
