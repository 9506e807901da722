package signature

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeKnownVector(t *testing.T) {
	// hmac_sha256("s", "o1|p1")
	const want = "a23a35a9cc17304682813499f610ed21e20e5e98e04bc2fbe9a198a68b058546"
	assert.Equal(t, want, Compute("s", "o1", "p1"))
}

func TestVerifyAcceptsOnlyExactDigest(t *testing.T) {
	sig := Compute("test_secret", "order_abc", "pay_xyz")
	assert.Equal(t, "a734976b4a9aa4403181acd25d87b09ad8cb31f7d73be91e2bb9eb5c517ca319", sig)
	assert.True(t, Verify("test_secret", "order_abc", "pay_xyz", sig))

	// Any single-character mutation must be rejected.
	for i := 0; i < len(sig); i++ {
		mutated := []byte(sig)
		if mutated[i] == '0' {
			mutated[i] = '1'
		} else {
			mutated[i] = '0'
		}
		assert.False(t, Verify("test_secret", "order_abc", "pay_xyz", string(mutated)),
			"mutation at index %d should not verify", i)
	}
}

func TestVerifyRejectsMalformedSignatures(t *testing.T) {
	assert.False(t, Verify("s", "o1", "p1", ""))
	assert.False(t, Verify("s", "o1", "p1", "not-a-digest"))
	assert.False(t, Verify("wrong", "o1", "p1", Compute("s", "o1", "p1")))
}

func TestVerifyBindsOrderAndPayment(t *testing.T) {
	sig := Compute("s", "o1", "p1")
	assert.False(t, Verify("s", "o2", "p1", sig))
	assert.False(t, Verify("s", "o1", "p2", sig))
	// Swapping ids changes the canonical string.
	assert.False(t, Verify("s", "p1", "o1", sig))
}
