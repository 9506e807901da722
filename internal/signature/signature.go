package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Compute returns the hex HMAC-SHA256 digest of "orderID|paymentID" keyed by
// secret. This is the string Razorpay signs when it reports a captured payment.
func Compute(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether supplied matches the expected digest for the given
// order and payment ids. Comparison is constant time; an empty or malformed
// signature simply fails to match.
func Verify(secret, orderID, paymentID, supplied string) bool {
	expected := Compute(secret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(supplied))
}
