package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"duel-ladder/internal/config"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

// Notifier receives settlement outcomes for achievement/streak processing.
// The orchestrator treats it as fire-and-forget: its errors are logged and
// discarded and its result never changes a settlement response.
type Notifier interface {
	OnSettled(ctx context.Context, playerID string, ratingDelta, newRating int) ([]string, error)
}

type settledEvent struct {
	PlayerID    string `json:"player_id"`
	RatingDelta int    `json:"rating_delta"`
	NewRating   int    `json:"new_rating"`
}

type settledResponse struct {
	Unlocked []string `json:"unlocked"`
}

// WebhookNotifier posts settlement events to the achievement service.
type WebhookNotifier struct {
	url    string
	client *fasthttp.Client
	logger zerolog.Logger
}

// New returns a WebhookNotifier when an enrichment URL is configured and a
// NoopNotifier otherwise.
func New(cfg *config.Config, logger zerolog.Logger) Notifier {
	if cfg.EnrichmentURL == "" {
		logger.Info().Msg("no enrichment URL configured, achievements disabled")
		return NoopNotifier{}
	}
	return &WebhookNotifier{
		url: cfg.EnrichmentURL,
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		logger: logger,
	}
}

func (n *WebhookNotifier) OnSettled(ctx context.Context, playerID string, ratingDelta, newRating int) ([]string, error) {
	body, err := json.Marshal(settledEvent{
		PlayerID:    playerID,
		RatingDelta: ratingDelta,
		NewRating:   newRating,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal settled event: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(n.url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	if deadline, ok := ctx.Deadline(); ok {
		err = n.client.DoDeadline(req, resp, deadline)
	} else {
		err = n.client.Do(req, resp)
	}
	if err != nil {
		return nil, fmt.Errorf("enrichment request failed: %w", err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("enrichment service error: %d", resp.StatusCode())
	}

	var out settledResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("failed to decode enrichment response: %w", err)
	}
	return out.Unlocked, nil
}

// NoopNotifier unlocks nothing.
type NoopNotifier struct{}

func (NoopNotifier) OnSettled(context.Context, string, int, int) ([]string, error) {
	return nil, nil
}
