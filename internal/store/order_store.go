package store

import (
	"context"
	"errors"
	"fmt"

	"drop_checkout/internal/model"

	"gorm.io/gorm"
)

// ErrNotFound is returned when no order exists for a gateway order id.
var ErrNotFound = errors.New("order not found")

// OrderStore wraps all reads and writes against the orders table. Orders are
// keyed by the Razorpay order id for every lookup after creation.
type OrderStore struct {
	db *gorm.DB
}

func NewOrderStore(db *gorm.DB) *OrderStore {
	return &OrderStore{db: db}
}

// Migrate creates or updates the orders table schema.
func (s *OrderStore) Migrate() error {
	return s.db.AutoMigrate(&model.Order{})
}

// CreateConfirmedOrder inserts the row for a verified payment.
func (s *OrderStore) CreateConfirmedOrder(ctx context.Context, order *model.Order) error {
	if err := s.db.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("create order %s: %w", order.RazorpayOrderID, err)
	}
	return nil
}

// FindByGatewayOrderID returns the order for a Razorpay order id, or
// ErrNotFound.
func (s *OrderStore) FindByGatewayOrderID(ctx context.Context, orderID string) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).Where("razorpay_order_id = ?", orderID).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find order %s: %w", orderID, err)
	}
	return &order, nil
}

// SetStoryIfAbsent sets story and flips story_submitted in a single
// conditional UPDATE, guarded on story_submitted still being false. Returns
// whether this call performed the write; a false return with nil error means
// the flag was already set, so a lost race and a resubmission look identical
// to the caller.
func (s *OrderStore) SetStoryIfAbsent(ctx context.Context, orderID, story string) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("razorpay_order_id = ? AND story_submitted = ?", orderID, false).
		Updates(map[string]any{
			"story":           story,
			"story_submitted": true,
		})
	if res.Error != nil {
		return false, fmt.Errorf("set story for %s: %w", orderID, res.Error)
	}
	return res.RowsAffected == 1, nil
}
