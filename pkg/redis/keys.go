package redis

import "fmt"

// RateLimitKey names the sliding-window rate limit bucket for a client IP.
func RateLimitKey(ip string) string {
	return fmt.Sprintf("drop_checkout:rate_limit:ip:%s", ip)
}
