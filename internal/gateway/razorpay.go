package gateway

import (
	"fmt"

	"github.com/google/uuid"
	razorpay "github.com/razorpay/razorpay-go"
)

// Order is the gateway order object as returned by Razorpay, passed through
// to the storefront untouched so the checkout widget can consume it directly.
type Order map[string]interface{}

// Client creates orders against the Razorpay Orders API.
type Client struct {
	rzp *razorpay.Client
}

// NewClient builds a gateway client from the key pair. The secret also keys
// payment signatures but is never exposed by this package.
func NewClient(keyID, keySecret string) *Client {
	return &Client{rzp: razorpay.NewClient(keyID, keySecret)}
}

// CreateOrder registers a purchase intent with the gateway. amountPaise is in
// minor currency units. The returned object carries the id the rest of the
// system keys on.
func (c *Client) CreateOrder(amountPaise int64) (Order, error) {
	data := map[string]interface{}{
		"amount":   amountPaise,
		"currency": "INR",
		"receipt":  "order_" + uuid.New().String(),
	}
	body, err := c.rzp.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay create order: %w", err)
	}
	return Order(body), nil
}
