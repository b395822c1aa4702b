package settlement

import (
	"context"
	"fmt"
	"time"

	"duel-ladder/internal/constants"
	"duel-ladder/internal/dedup"
	"duel-ladder/internal/domain"
	"duel-ladder/internal/enrichment"
	"duel-ladder/internal/progression"
	"duel-ladder/internal/rating"
	"duel-ladder/internal/repository"
	"duel-ladder/internal/reward"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Service settles two-player matches exactly once per fingerprint. Duplicate
// suppression is layered: concurrent identical requests coalesce onto one
// in-flight computation, recent results are answered from a short-TTL cache,
// and older repeats are reconstructed from the attempt log. All three layers
// miss only for a genuinely new match.
type Service struct {
	players  *repository.PlayerRepository
	attempts *repository.AttemptRepository
	cache    *dedup.ResultCache
	notifier enrichment.Notifier
	group    singleflight.Group
	lookback time.Duration
	now      func() time.Time
	logger   zerolog.Logger
}

func NewService(
	players *repository.PlayerRepository,
	attempts *repository.AttemptRepository,
	cache *dedup.ResultCache,
	notifier enrichment.Notifier,
	logger zerolog.Logger,
) *Service {
	return &Service{
		players:  players,
		attempts: attempts,
		cache:    cache,
		notifier: notifier,
		lookback: constants.LookbackWindow,
		now:      time.Now,
		logger:   logger,
	}
}

// Settle processes one match outcome. Retries and duplicates resolve to the
// result of the original settlement with no second write.
func (s *Service) Settle(ctx context.Context, req *domain.SettlementRequest) (*domain.SettlementResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	key := dedup.Fingerprint(req)

	// Callers landing here while a flight for the same key is active wait
	// for its result instead of computing their own. A failure rejects
	// every coalesced waiter; the key is released either way.
	v, err, shared := s.group.Do(key, func() (any, error) {
		// The computation belongs to every coalesced caller, so the
		// originating caller's timeout must not abort it mid-write.
		fctx := context.WithoutCancel(ctx)
		fctx, cancel := context.WithTimeout(fctx, constants.RequestTimeout)
		defer cancel()

		if cached, ok := s.cache.Get(key); ok {
			s.logger.Info().Str("fingerprint", key).Msg("duplicate resolved from result cache")
			return cached, nil
		}

		if replayed, ok, err := s.replayFromLog(fctx, key, req); err != nil {
			return nil, err
		} else if ok {
			s.logger.Info().Str("fingerprint", key).Msg("duplicate reconstructed from attempt log")
			s.cache.Set(key, replayed)
			return replayed, nil
		}

		return s.settleFresh(fctx, key, req)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.Info().Str("fingerprint", key).Msg("request coalesced onto in-flight settlement")
	}

	return v.(*domain.SettlementResult), nil
}

func (s *Service) settleFresh(ctx context.Context, key string, req *domain.SettlementRequest) (*domain.SettlementResult, error) {
	playerA, playerB, err := s.loadSnapshots(ctx, req.PlayerAID, req.PlayerBID)
	if err != nil {
		return nil, err
	}

	actualA := req.OutcomeForA
	expectedA := rating.Expected(playerA.Rating, playerB.Rating)
	expectedB := rating.Expected(playerB.Rating, playerA.Rating)

	newRatingA := rating.Update(playerA.Rating, expectedA, actualA)
	newRatingB := rating.Update(playerB.Rating, expectedB, 1-actualA)
	xpA, xpB := reward.Split(req.RewardPool, expectedA, actualA)

	outcomeA := s.applyProgress(playerA, xpA, newRatingA)
	outcomeB := s.applyProgress(playerB, xpB, newRatingB)

	// Player rows first, attempt log last. No transaction spans these
	// writes; a crash in between leaves updated players without log rows,
	// which is logged and accepted rather than repaired.
	if err := s.players.UpdateProgress(ctx, playerA); err != nil {
		return nil, fmt.Errorf("failed to persist player %s: %w", playerA.ID, err)
	}
	if err := s.players.UpdateProgress(ctx, playerB); err != nil {
		s.logger.Error().Str("player_id", playerA.ID).
			Msg("player updated but counterpart write failed, durable state inconsistent")
		return nil, fmt.Errorf("failed to persist player %s: %w", playerB.ID, err)
	}

	settledAt := s.now()
	records := []domain.AttemptRecord{
		attemptFor(outcomeA, key, settledAt),
		attemptFor(outcomeB, key, settledAt),
	}
	if err := s.attempts.InsertBatch(ctx, records); err != nil {
		s.logger.Error().Msg("players updated but attempt log write failed, durable state inconsistent")
		return nil, fmt.Errorf("failed to persist attempt log: %w", err)
	}

	result := &domain.SettlementResult{PlayerA: outcomeA, PlayerB: outcomeB}

	s.notifySettled(outcomeA)
	s.notifySettled(outcomeB)

	s.cache.Set(key, result)
	s.cache.Sweep()

	s.logger.Info().
		Str("fingerprint", key).
		Str("player_a", playerA.ID).
		Str("player_b", playerB.ID).
		Int("rating_change_a", outcomeA.RatingChange).
		Int("rating_change_b", outcomeB.RatingChange).
		Msg("match settled")

	return result, nil
}

func (s *Service) loadSnapshots(ctx context.Context, idA, idB string) (*domain.Player, *domain.Player, error) {
	var playerA, playerB *domain.Player

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		playerA, err = s.players.Get(gCtx, idA)
		return err
	})
	g.Go(func() error {
		var err error
		playerB, err = s.players.Get(gCtx, idB)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return playerA, playerB, nil
}

// applyProgress computes a player's outcome and mutates the snapshot into its
// post-settlement state for persistence.
func (s *Service) applyProgress(p *domain.Player, xpEarned float64, newRating int) domain.PlayerOutcome {
	newXP := p.XP + xpEarned
	newLevel := progression.LevelFor(newXP)
	newRank, newRankName := progression.RankFor(newRating, p.Rank)

	outcome := domain.PlayerOutcome{
		PlayerID:     p.ID,
		XPEarned:     xpEarned,
		RatingChange: newRating - p.Rating,
		NewXP:        newXP,
		NewRating:    newRating,
		NewLevel:     newLevel,
		NewRank:      newRank,
		NewRankName:  newRankName,
	}

	p.XP = newXP
	p.Rating = newRating
	p.Level = newLevel
	p.Rank = newRank
	p.RankName = newRankName

	return outcome
}

func attemptFor(o domain.PlayerOutcome, fingerprint string, settledAt time.Time) domain.AttemptRecord {
	return domain.AttemptRecord{
		PlayerID:     o.PlayerID,
		Fingerprint:  fingerprint,
		RatingBefore: o.NewRating - o.RatingChange,
		RatingAfter:  o.NewRating,
		RatingChange: o.RatingChange,
		XPBefore:     o.NewXP - o.XPEarned,
		XPAfter:      o.NewXP,
		XPChange:     o.XPEarned,
		Kind:         domain.AttemptKindMulti,
		CreatedAt:    settledAt,
	}
}

// notifySettled hands one player's outcome to the achievement/streak
// collaborator in the background. Whatever it returns or throws, the
// settlement response is already decided.
func (s *Service) notifySettled(o domain.PlayerOutcome) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), constants.EnrichmentTimeout)
		defer cancel()

		unlocked, err := s.notifier.OnSettled(ctx, o.PlayerID, o.RatingChange, o.NewRating)
		if err != nil {
			s.logger.Warn().Err(err).Str("player_id", o.PlayerID).Msg("enrichment call failed")
			return
		}
		if len(unlocked) > 0 {
			s.logger.Info().Str("player_id", o.PlayerID).Strs("unlocked", unlocked).Msg("achievements unlocked")
		}
	}()
}

// replayFromLog is the durable fallback for duplicates arriving after the
// in-process state is gone: cache expired, or the process restarted. It scans
// recent attempt rows carrying this request's fingerprint and looks for a
// group sharing one write timestamp with exactly one row per player. The
// fingerprint filter keeps a genuine rematch with another outcome or pool out
// of the candidates; within one fingerprint, shared timestamps are still a
// heuristic stand-in for a match id: two settlements of the identical outcome
// landing in the same instant would be indistinguishable here.
func (s *Service) replayFromLog(ctx context.Context, key string, req *domain.SettlementRequest) (*domain.SettlementResult, bool, error) {
	since := s.now().Add(-s.lookback)
	records, err := s.attempts.QueryRecent(ctx, key, since)
	if err != nil {
		return nil, false, fmt.Errorf("lookback scan failed: %w", err)
	}
	if len(records) == 0 {
		return nil, false, nil
	}

	// Records arrive newest first; the first qualifying group wins.
	byTimestamp := make(map[int64][]domain.AttemptRecord)
	var order []int64
	for _, rec := range records {
		ts := rec.CreatedAt.UnixNano()
		if _, seen := byTimestamp[ts]; !seen {
			order = append(order, ts)
		}
		byTimestamp[ts] = append(byTimestamp[ts], rec)
	}

	for _, ts := range order {
		group := byTimestamp[ts]
		recA, okA := findPlayer(group, req.PlayerAID)
		recB, okB := findPlayer(group, req.PlayerBID)
		if len(group) != 2 || !okA || !okB {
			continue
		}

		result, err := s.reconstruct(ctx, recA, recB)
		if err != nil {
			return nil, false, err
		}
		return result, true, nil
	}

	return nil, false, nil
}

func findPlayer(group []domain.AttemptRecord, playerID string) (domain.AttemptRecord, bool) {
	for _, rec := range group {
		if rec.PlayerID == playerID {
			return rec, true
		}
	}
	return domain.AttemptRecord{}, false
}

// reconstruct rebuilds the original response from the two halves of a logged
// match. Deltas and after-values come from the rows; level and rank come from
// the current player rows, which the original settlement already advanced.
func (s *Service) reconstruct(ctx context.Context, recA, recB domain.AttemptRecord) (*domain.SettlementResult, error) {
	playerA, playerB, err := s.loadSnapshots(ctx, recA.PlayerID, recB.PlayerID)
	if err != nil {
		return nil, err
	}

	return &domain.SettlementResult{
		PlayerA: reconstructOutcome(recA, playerA),
		PlayerB: reconstructOutcome(recB, playerB),
	}, nil
}

func reconstructOutcome(rec domain.AttemptRecord, p *domain.Player) domain.PlayerOutcome {
	return domain.PlayerOutcome{
		PlayerID:     rec.PlayerID,
		XPEarned:     rec.XPChange,
		RatingChange: rec.RatingChange,
		NewXP:        rec.XPAfter,
		NewRating:    rec.RatingAfter,
		NewLevel:     p.Level,
		NewRank:      p.Rank,
		NewRankName:  p.RankName,
	}
}
