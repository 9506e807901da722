package checkout

import (
	"context"
	"log/slog"

	"drop_checkout/internal/model"
)

// OrderStore is the durable store the workflows run against, keyed by the
// gateway order id.
type OrderStore interface {
	CreateConfirmedOrder(ctx context.Context, order *model.Order) error
	FindByGatewayOrderID(ctx context.Context, orderID string) (*model.Order, error)
	// SetStoryIfAbsent must be a single atomic conditional update: it writes
	// only if story_submitted is still false and reports whether it did.
	SetStoryIfAbsent(ctx context.Context, orderID, story string) (bool, error)
}

// Notifier sends order emails. Both workflows treat sends as best-effort.
type Notifier interface {
	SendOrderConfirmation(ctx context.Context, order *model.Order) error
	SendStoryNotification(ctx context.Context, order *model.Order) error
}

// Service runs the payment confirmation and story submission workflows. It is
// stateless across requests; all state lives in the OrderStore.
type Service struct {
	store    OrderStore
	notifier Notifier
	secret   string
	logger   *slog.Logger
}

func NewService(store OrderStore, notifier Notifier, keySecret string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:    store,
		notifier: notifier,
		secret:   keySecret,
		logger:   logger,
	}
}
