package checkout

import (
	"context"
	"errors"
	"strings"

	"drop_checkout/internal/store"
)

// StoryOutcome classifies how a story submission ended.
type StoryOutcome int

const (
	StoryOK StoryOutcome = iota
	StoryInvalidInput
	StoryOrderNotFound
	StoryStoreError
)

// StoryResult is the typed outcome of a story submission.
type StoryResult struct {
	Outcome StoryOutcome
	Message string
}

// SubmitStory attaches free-text content to a paid order at most once.
//
// Idempotence rules: a resubmission on an already-submitted order returns
// StoryOK without rewriting or re-emailing, and a submission that loses a
// concurrent race is treated the same way. A store write failure, unlike the
// confirmation flow, surfaces as StoryStoreError: there is no out-of-band
// copy of a story, so silently dropping one is not acceptable.
func (s *Service) SubmitStory(ctx context.Context, orderID, story string) StoryResult {
	if orderID == "" {
		return StoryResult{Outcome: StoryInvalidInput, Message: "orderId is required"}
	}
	if strings.TrimSpace(story) == "" {
		return StoryResult{Outcome: StoryInvalidInput, Message: "story is required"}
	}

	order, err := s.store.FindByGatewayOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return StoryResult{Outcome: StoryOrderNotFound, Message: "order not found"}
		}
		s.logger.Error("order lookup failed", "order_id", orderID, "err", err)
		return StoryResult{Outcome: StoryStoreError, Message: "order lookup failed"}
	}

	if order.StorySubmitted {
		return StoryResult{Outcome: StoryOK}
	}

	wrote, err := s.store.SetStoryIfAbsent(ctx, orderID, story)
	if err != nil {
		s.logger.Error("story write failed", "order_id", orderID, "err", err)
		return StoryResult{Outcome: StoryStoreError, Message: "story write failed"}
	}
	if !wrote {
		// Lost a concurrent race; the order now holds the winner's story and
		// the caller sees the same success a resubmission would.
		return StoryResult{Outcome: StoryOK}
	}

	order.Story = story
	order.StorySubmitted = true
	if err := s.notifier.SendStoryNotification(ctx, order); err != nil {
		// Committed already; the email is best-effort.
		s.logger.Warn("story email failed", "order_id", orderID, "err", err)
	}

	return StoryResult{Outcome: StoryOK}
}
