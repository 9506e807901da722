package checkout

import (
	"context"

	"drop_checkout/internal/model"
	"drop_checkout/internal/signature"
)

// ConfirmInput is a payment confirmation event as reported by the storefront
// after the Razorpay checkout completes.
type ConfirmInput struct {
	PaymentID   string
	OrderID     string
	Signature   string
	AmountPaise int64
	PaymentType string
	Edition     string

	Name    string
	Email   string
	Phone   string
	Address string
}

// ConfirmOutcome classifies how a confirmation request ended.
type ConfirmOutcome int

const (
	// ConfirmOK means the signature verified. Persistence or notification may
	// still have failed underneath; those failures are logged, never surfaced.
	ConfirmOK ConfirmOutcome = iota
	ConfirmInvalidInput
	ConfirmInvalidSignature
)

// ConfirmResult is the typed outcome of a confirmation request.
type ConfirmResult struct {
	Outcome ConfirmOutcome
	Message string
}

func (in ConfirmInput) validate() string {
	switch {
	case in.PaymentID == "":
		return "paymentId is required"
	case in.OrderID == "":
		return "orderId is required"
	case in.Signature == "":
		return "razorpaySignature is required"
	case in.Name == "":
		return "shipping name is required"
	case in.Phone == "":
		return "shipping phone is required"
	case in.Address == "":
		return "shipping address is required"
	}
	return ""
}

// ConfirmPayment verifies a payment signature and records the order.
//
// Once verification passes the caller always gets ConfirmOK: the charge has
// already happened at the gateway, so a store or mail failure here must not
// make the buyer believe their payment failed. Those failures are logged for
// out-of-band reconciliation instead.
func (s *Service) ConfirmPayment(ctx context.Context, in ConfirmInput) ConfirmResult {
	if msg := in.validate(); msg != "" {
		return ConfirmResult{Outcome: ConfirmInvalidInput, Message: msg}
	}

	if !signature.Verify(s.secret, in.OrderID, in.PaymentID, in.Signature) {
		s.logger.Warn("payment signature mismatch",
			"order_id", in.OrderID,
			"payment_id", in.PaymentID,
		)
		return ConfirmResult{Outcome: ConfirmInvalidSignature, Message: "invalid payment signature"}
	}

	order := &model.Order{
		RazorpayOrderID:   in.OrderID,
		RazorpayPaymentID: in.PaymentID,
		Edition:           in.Edition,
		PaymentType:       model.NormalizePaymentType(in.PaymentType),
		Amount:            in.AmountPaise,
		Name:              in.Name,
		Email:             in.Email,
		Phone:             in.Phone,
		Address:           in.Address,
	}

	if err := s.store.CreateConfirmedOrder(ctx, order); err != nil {
		// Availability over consistency: the payment is already captured at
		// the gateway, which stays the source of truth if this row is lost.
		s.logger.Warn("order persistence failed after verified payment",
			"order_id", in.OrderID,
			"payment_id", in.PaymentID,
			"err", err,
		)
	}

	if err := s.notifier.SendOrderConfirmation(ctx, order); err != nil {
		s.logger.Warn("order confirmation email failed",
			"order_id", in.OrderID,
			"err", err,
		)
	}

	return ConfirmResult{Outcome: ConfirmOK}
}
