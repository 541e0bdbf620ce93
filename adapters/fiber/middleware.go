package fiber

import (
	"errors"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v3"
	"golang.org/x/time/rate"

	"github.com/lborres/linguachat"
	"github.com/lborres/linguachat/core"
)

// rejectRequest answers a failed auth gate. Every unauthorized reason gets
// the same 401 body; the reason is only logged and counted.
func rejectRequest(c fiber.Ctx, app *linguachat.App, err error) error {
	if !errors.Is(err, core.ErrUnauthorized) {
		return writeError(c, app, err)
	}

	reason := core.ReasonOf(err)
	app.Logger.Debug("request rejected by auth gate", "reason", reason, "path", c.Path())
	app.Metrics.AuthRejected(reason)

	return c.Status(fiber.StatusUnauthorized).JSON(linguachat.ErrorResponse{
		Message: "unauthorized",
	})
}

// extractToken reads the session cookie, falling back to a Bearer token
func extractToken(c fiber.Ctx, cookieName string) string {
	if token := c.Cookies(cookieName); token != "" {
		return token
	}

	authHeader := c.Get(fiber.HeaderAuthorization)
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}

// ipRateLimiter keeps one token bucket per client IP
type ipRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

// Limiters beyond this count are dropped wholesale
const maxTrackedIPs = 10000

func newIPRateLimiter(r rate.Limit, burst int) *ipRateLimiter {
	return &ipRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     r,
		burst:    burst,
	}
}

func (rl *ipRateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	limiter, exists := rl.limiters[ip]
	if !exists {
		if len(rl.limiters) >= maxTrackedIPs {
			rl.limiters = make(map[string]*rate.Limiter)
		}
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters[ip] = limiter
	}
	rl.mu.Unlock()

	return limiter.Allow()
}
