package model

import (
	"time"

	"gorm.io/gorm"
)

// PaymentType is the canonical payment mode stored on an order.
type PaymentType string

const (
	PaymentPrepaid    PaymentType = "PREPAID"
	PaymentCODAdvance PaymentType = "COD_ADVANCE"
)

// NormalizePaymentType maps caller-supplied text onto the stored enum.
// Anything other than the exact PREPAID literal is treated as a COD advance,
// so free text never lands in the column.
func NormalizePaymentType(raw string) PaymentType {
	if raw == string(PaymentPrepaid) {
		return PaymentPrepaid
	}
	return PaymentCODAdvance
}

// Order is a confirmed purchase. A row exists only after the payment
// signature has been verified; creating a gateway order alone writes nothing.
type Order struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// RazorpayOrderID is assigned by the gateway and never changes.
	RazorpayOrderID   string      `gorm:"size:64;uniqueIndex;not null" json:"razorpay_order_id"`
	RazorpayPaymentID string      `gorm:"size:64;not null" json:"razorpay_payment_id"`
	Edition           string      `gorm:"size:64" json:"edition"`
	PaymentType       PaymentType `gorm:"size:16;not null" json:"payment_type"`
	Amount            int64       `gorm:"not null" json:"amount"` // paise

	Name    string `gorm:"size:128;not null" json:"name"`
	Email   string `gorm:"size:128" json:"email"`
	Phone   string `gorm:"size:32;not null" json:"phone"`
	Address string `gorm:"size:512;not null" json:"address"`

	// Story flips on exactly once; StorySubmitted is the CAS guard.
	Story          string `gorm:"type:text" json:"story"`
	StorySubmitted bool   `gorm:"not null;default:false" json:"story_submitted"`
}

func (Order) TableName() string { return "orders" }
