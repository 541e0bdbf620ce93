package fiber

import (
	"fmt"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"golang.org/x/time/rate"

	"github.com/lborres/linguachat"
	"github.com/lborres/linguachat/services"
)

const (
	defaultRateLimit = rate.Limit(5)
	defaultRateBurst = 10
)

// Options tunes the adapter. Zero values select the defaults.
type Options struct {
	// RateLimit and RateBurst bound requests per client IP on limited endpoints
	RateLimit rate.Limit
	RateBurst int

	// Plugins are extra endpoints mounted next to the base ones. Each must
	// carry its own Handler.
	Plugins []linguachat.Endpoint
}

type Adapter struct {
	app     *fiber.App
	opts    Options
	limiter *ipRateLimiter
}

var _ linguachat.HTTPAdapter = (*Adapter)(nil)

func New(app *fiber.App, opts ...Options) *Adapter {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.RateLimit <= 0 {
		o.RateLimit = defaultRateLimit
	}
	if o.RateBurst <= 0 {
		o.RateBurst = defaultRateBurst
	}
	return &Adapter{
		app:     app,
		opts:    o,
		limiter: newIPRateLimiter(o.RateLimit, o.RateBurst),
	}
}

func (a *Adapter) RegisterRoutes(app *linguachat.App) error {
	registry := services.NewEndpointRegistry()
	if err := registry.RegisterPlugin(a.opts.Plugins); err != nil {
		return err
	}

	api := a.app.Group(app.BasePath)

	for _, ep := range registry.Endpoints() {
		handler := ep.Handler
		if handler == nil {
			factory, ok := handlerFactories[ep.Metadata.OperationID]
			if !ok {
				return fmt.Errorf("no fiber handler for operation %q (%s %s)", ep.Metadata.OperationID, ep.Method, ep.Path)
			}
			handler = factory(app)
		}
		api.Add([]string{ep.Method}, ep.Path, a.buildRoute(app, ep, handler))
	}

	// Operational routes
	a.app.Get("/metrics", adaptor.HTTPHandler(app.Metrics.Handler()))
	a.app.Get("/healthz", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	return nil
}

// buildRoute wraps handler with the limiter and auth gate the endpoint asks for
func (a *Adapter) buildRoute(app *linguachat.App, ep *linguachat.Endpoint, handler func(*linguachat.RequestContext) error) fiber.Handler {
	protected, limited := ep.Protected, ep.Limited

	return func(c fiber.Ctx) error {
		if limited && !a.limiter.allow(c.IP()) {
			app.Logger.Warn("rate limit exceeded", "ip", c.IP(), "path", c.Path())
			return c.Status(fiber.StatusTooManyRequests).JSON(linguachat.ErrorResponse{
				Message: "too many requests, please try again later",
			})
		}

		rc := &linguachat.RequestContext{Request: c, App: app}
		if protected {
			auth, err := app.Auth.Authenticate(c.Context(), extractToken(c, app.Session.CookieName))
			if err != nil {
				return rejectRequest(c, app, err)
			}
			rc.Auth = auth
		}
		return handler(rc)
	}
}
