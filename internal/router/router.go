package router

import (
	"errors"
	"log/slog"
	"math"
	"net/http"
	"time"

	"drop_checkout/internal/checkout"
	"drop_checkout/internal/gateway"
	"drop_checkout/internal/middleware"
	"drop_checkout/internal/store"

	"github.com/gin-gonic/gin"
	rd "github.com/redis/go-redis/v9"
)

// OrderCreator creates a gateway order for an amount in paise.
type OrderCreator interface {
	CreateOrder(amountPaise int64) (gateway.Order, error)
}

// Deps carries everything the routes need. All handles are constructed at
// process start and injected here; nothing global.
type Deps struct {
	Gateway  OrderCreator
	Checkout *checkout.Service
	Store    *store.OrderStore
	Redis    *rd.Client
	Logger   *slog.Logger

	RateLimit  int
	RateWindow time.Duration
}

// Setup registers all HTTP routes.
func Setup(r *gin.Engine, d Deps) {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"msg": "pong"})
	})

	limited := r.Group("/")
	if d.Redis != nil {
		limited.Use(middleware.RedisRateLimit(d.Redis, d.RateLimit, d.RateWindow))
	}
	limited.POST("/create-order", createOrder(d))
	limited.POST("/confirm-payment", confirmPayment(d))
	limited.POST("/submit-story", submitStory(d))

	r.GET("/order/:order_id", getOrder(d))
}

// createOrderRequest carries the purchase amount in major currency units.
type createOrderRequest struct {
	Amount *float64 `json:"amount"`
}

// confirmPaymentRequest is the storefront's confirmation payload after the
// Razorpay checkout completes.
type confirmPaymentRequest struct {
	PaymentID         string  `json:"paymentId"`
	OrderID           string  `json:"orderId"`
	RazorpaySignature string  `json:"razorpaySignature"`
	Amount            float64 `json:"amount"`
	PaymentType       string  `json:"paymentType"`
	Edition           string  `json:"edition"`
	Shipping          struct {
		Name    string `json:"name"`
		Phone   string `json:"phone"`
		Email   string `json:"email"`
		Address string `json:"address"`
	} `json:"shipping"`
}

type submitStoryRequest struct {
	OrderID string `json:"orderId"`
	Story   string `json:"story"`
}

// toPaise converts a major-unit amount to paise.
func toPaise(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// createOrder registers a purchase intent with the gateway. Nothing is
// persisted here; an order row only appears after a verified confirmation.
func createOrder(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}
		if req.Amount == nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "amount is required"})
			return
		}
		if *req.Amount <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "amount must be > 0"})
			return
		}

		order, err := d.Gateway.CreateOrder(toPaise(*req.Amount))
		if err != nil {
			d.Logger.Error("gateway order creation failed", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "order creation failed"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// confirmPayment runs the confirmation workflow. The response is binary by
// design: 400 before the signature verifies, success always afterwards.
func confirmPayment(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req confirmPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}

		res := d.Checkout.ConfirmPayment(c.Request.Context(), checkout.ConfirmInput{
			PaymentID:   req.PaymentID,
			OrderID:     req.OrderID,
			Signature:   req.RazorpaySignature,
			AmountPaise: toPaise(req.Amount),
			PaymentType: req.PaymentType,
			Edition:     req.Edition,
			Name:        req.Shipping.Name,
			Email:       req.Shipping.Email,
			Phone:       req.Shipping.Phone,
			Address:     req.Shipping.Address,
		})

		switch res.Outcome {
		case checkout.ConfirmOK:
			c.JSON(http.StatusOK, gin.H{"success": true})
		case checkout.ConfirmInvalidInput, checkout.ConfirmInvalidSignature:
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": res.Message})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "unknown outcome"})
		}
	}
}

// submitStory runs the story workflow. Unlike confirmation, a store failure
// here is a real 500: there is no second copy of a story anywhere.
func submitStory(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req submitStoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}

		res := d.Checkout.SubmitStory(c.Request.Context(), req.OrderID, req.Story)
		switch res.Outcome {
		case checkout.StoryOK:
			c.JSON(http.StatusOK, gin.H{"success": true, "story_submitted": true})
		case checkout.StoryInvalidInput:
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": res.Message})
		case checkout.StoryOrderNotFound:
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": res.Message})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": res.Message})
		}
	}
}

// getOrder returns a shipping-free projection for storefront polling.
func getOrder(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("order_id")
		order, err := d.Store.FindByGatewayOrderID(c.Request.Context(), orderID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "order not found"})
				return
			}
			d.Logger.Error("order lookup failed", "order_id", orderID, "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "order lookup failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"razorpay_order_id": order.RazorpayOrderID,
			"edition":           order.Edition,
			"payment_type":      order.PaymentType,
			"amount":            order.Amount,
			"story_submitted":   order.StorySubmitted,
			"created_at":        order.CreatedAt,
		})
	}
}
