package ratelimit

import (
	"encoding/json"
	"time"

	"github.com/didip/tollbooth"
	"github.com/didip/tollbooth/limiter"
	"github.com/didip/tollbooth_gin"
	"github.com/gin-gonic/gin"
	"rollcall.io/infrastructure/env"
)

// TokenBucketPerIP limits each client IP to RATE_LIMIT_PER_SECOND requests.
// Face verification is CPU bound so the default stays low.
func TokenBucketPerIP() gin.HandlerFunc {
	message := map[string]any{
		"message": "You are going too fast! You have been ratelimited.",
	}
	jsonMessage, _ := json.Marshal(message)

	tlbthLimiter := tollbooth.NewLimiter(env.GetFloat("RATE_LIMIT_PER_SECOND", 10), &limiter.ExpirableOptions{
		DefaultExpirationTTL: time.Minute * 1,
	})
	tlbthLimiter.SetMessageContentType("application/json")
	tlbthLimiter.SetMessage(string(jsonMessage))

	return tollbooth_gin.LimitHandler(tlbthLimiter)
}
