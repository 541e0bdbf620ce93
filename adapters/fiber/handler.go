package fiber

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/lborres/linguachat"
	"github.com/lborres/linguachat/core"
)

type handlerFactory func(app *linguachat.App) func(*linguachat.RequestContext) error

// handlerFactories maps base endpoint operation ids to their Fiber handlers
var handlerFactories = map[string]handlerFactory{
	"signUp":                    handleSignUpFiber,
	"signIn":                    handleSignInFiber,
	"signOut":                   handleSignOutFiber,
	"onboard":                   handleOnboardFiber,
	"getMe":                     handleGetMeFiber,
	"changePassword":            handleChangePasswordFiber,
	"getRecommendedUsers":       handleRecommendedUsersFiber,
	"getMyFriends":              handleMyFriendsFiber,
	"sendFriendRequest":         handleSendFriendRequestFiber,
	"acceptFriendRequest":       handleAcceptFriendRequestFiber,
	"getFriendRequests":         handleFriendRequestsFiber,
	"getOutgoingFriendRequests": handleOutgoingFriendRequestsFiber,
	"getChatToken":              handleChatTokenFiber,
}

// handleSignUpFiber returns a handler for the sign-up endpoint
func handleSignUpFiber(app *linguachat.App) func(*linguachat.RequestContext) error {
	return func(ctx *linguachat.RequestContext) error {
		fctx := ctx.Request.(fiber.Ctx)

		var input linguachat.SignUpInput
		if err := fctx.Bind().Body(&input); err != nil {
			return writeError(fctx, app, core.ErrInvalidRequestBody)
		}

		result, err := app.Auth.SignUp(fctx.Context(), input)
		if err != nil {
			return writeError(fctx, app, err)
		}

		setSessionCookie(fctx, app.Session, result.Token, result.ExpiresAt)
		return fctx.Status(http.StatusCreated).JSON(fiber.Map{
			"success": true,
			"user":    result.User,
		})
	}
}

// handleSignInFiber returns a handler for the sign-in endpoint
func handleSignInFiber(app *linguachat.App) func(*linguachat.RequestContext) error {
	return func(ctx *linguachat.RequestContext) error {
		fctx := ctx.Request.(fiber.Ctx)

		var input linguachat.SignInInput
		if err := fctx.Bind().Body(&input); err != nil {
			return writeError(fctx, app, core.ErrInvalidRequestBody)
		}

		result, err := app.Auth.SignIn(fctx.Context(), input)
		if err != nil {
			return writeError(fctx, app, err)
		}

		setSessionCookie(fctx, app.Session, result.Token, result.ExpiresAt)
		return fctx.Status(http.StatusOK).JSON(fiber.Map{
			"success": true,
			"user":    result.User,
		})
	}
}

// handleSignOutFiber clears the session cookie. Tokens are stateless, so
// nothing is revoked server side.
func handleSignOutFiber(app *linguachat.App) func(*linguachat.RequestContext) error {
	return func(ctx *linguachat.RequestContext) error {
		fctx := ctx.Request.(fiber.Ctx)

		clearSessionCookie(fctx, app.Session)
		return fctx.Status(http.StatusOK).JSON(fiber.Map{
			"success": true,
			"message": "logout successful",
		})
	}
}

func handleOnboardFiber(app *linguachat.App) func(*linguachat.RequestContext) error {
	return func(ctx *linguachat.RequestContext) error {
		fctx := ctx.Request.(fiber.Ctx)

		var input linguachat.OnboardInput
		if err := fctx.Bind().Body(&input); err != nil {
			return writeError(fctx, app, core.ErrInvalidRequestBody)
		}

		user, err := app.Profiles.Onboard(fctx.Context(), ctx.Auth.UserID(), input)
		if err != nil {
			return writeError(fctx, app, err)
		}

		return fctx.Status(http.StatusOK).JSON(fiber.Map{
			"success": true,
			"user":    user,
		})
	}
}

func handleGetMeFiber(app *linguachat.App) func(*linguachat.RequestContext) error {
	return func(ctx *linguachat.RequestContext) error {
		fctx := ctx.Request.(fiber.Ctx)

		return fctx.Status(http.StatusOK).JSON(fiber.Map{
			"success": true,
			"user":    ctx.Auth.User,
		})
	}
}

func handleChangePasswordFiber(app *linguachat.App) func(*linguachat.RequestContext) error {
	return func(ctx *linguachat.RequestContext) error {
		fctx := ctx.Request.(fiber.Ctx)

		var input linguachat.ChangePasswordInput
		if err := fctx.Bind().Body(&input); err != nil {
			return writeError(fctx, app, core.ErrInvalidRequestBody)
		}

		if err := app.Auth.ChangePassword(fctx.Context(), ctx.Auth.UserID(), input); err != nil {
			return writeError(fctx, app, err)
		}
		return fctx.Status(http.StatusOK).JSON(fiber.Map{
			"success": true,
			"message": "password updated",
		})
	}
}

func handleRecommendedUsersFiber(app *linguachat.App) func(*linguachat.RequestContext) error {
	return func(ctx *linguachat.RequestContext) error {
		fctx := ctx.Request.(fiber.Ctx)

		users, err := app.Profiles.Recommend(fctx.Context(), ctx.Auth.UserID())
		if err != nil {
			return writeError(fctx, app, err)
		}
		return fctx.Status(http.StatusOK).JSON(users)
	}
}

func handleMyFriendsFiber(app *linguachat.App) func(*linguachat.RequestContext) error {
	return func(ctx *linguachat.RequestContext) error {
		fctx := ctx.Request.(fiber.Ctx)

		friends, err := app.Friends.Friends(fctx.Context(), ctx.Auth.UserID())
		if err != nil {
			return writeError(fctx, app, err)
		}
		return fctx.Status(http.StatusOK).JSON(friends)
	}
}

func handleSendFriendRequestFiber(app *linguachat.App) func(*linguachat.RequestContext) error {
	return func(ctx *linguachat.RequestContext) error {
		fctx := ctx.Request.(fiber.Ctx)

		req, err := app.Friends.SendRequest(fctx.Context(), ctx.Auth.UserID(), fctx.Params("id"))
		if err != nil {
			return writeError(fctx, app, err)
		}
		return fctx.Status(http.StatusCreated).JSON(req)
	}
}

func handleAcceptFriendRequestFiber(app *linguachat.App) func(*linguachat.RequestContext) error {
	return func(ctx *linguachat.RequestContext) error {
		fctx := ctx.Request.(fiber.Ctx)

		req, err := app.Friends.AcceptRequest(fctx.Context(), fctx.Params("id"), ctx.Auth.UserID())
		if err != nil {
			return writeError(fctx, app, err)
		}
		return fctx.Status(http.StatusOK).JSON(fiber.Map{
			"message": "friend request accepted",
			"request": req,
		})
	}
}

func handleFriendRequestsFiber(app *linguachat.App) func(*linguachat.RequestContext) error {
	return func(ctx *linguachat.RequestContext) error {
		fctx := ctx.Request.(fiber.Ctx)
		userID := ctx.Auth.UserID()

		incoming, err := app.Friends.ListIncoming(fctx.Context(), userID)
		if err != nil {
			return writeError(fctx, app, err)
		}
		accepted, err := app.Friends.ListAcceptedIncoming(fctx.Context(), userID)
		if err != nil {
			return writeError(fctx, app, err)
		}

		return fctx.Status(http.StatusOK).JSON(fiber.Map{
			"incomingRequests": incoming,
			"acceptedRequests": accepted,
		})
	}
}

func handleOutgoingFriendRequestsFiber(app *linguachat.App) func(*linguachat.RequestContext) error {
	return func(ctx *linguachat.RequestContext) error {
		fctx := ctx.Request.(fiber.Ctx)

		outgoing, err := app.Friends.ListOutgoing(fctx.Context(), ctx.Auth.UserID())
		if err != nil {
			return writeError(fctx, app, err)
		}
		return fctx.Status(http.StatusOK).JSON(outgoing)
	}
}

func handleChatTokenFiber(app *linguachat.App) func(*linguachat.RequestContext) error {
	return func(ctx *linguachat.RequestContext) error {
		fctx := ctx.Request.(fiber.Ctx)

		token, err := app.Chat.ChatToken(fctx.Context(), ctx.Auth.UserID())
		if err != nil {
			return writeError(fctx, app, err)
		}
		return fctx.Status(http.StatusOK).JSON(fiber.Map{"token": token})
	}
}

func setSessionCookie(c fiber.Ctx, cfg linguachat.SessionConfig, token string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     cfg.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cfg.MaxAge.Seconds()),
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   cfg.Secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

// clearSessionCookie expires the cookie with the attributes it was set with
func clearSessionCookie(c fiber.Ctx, cfg linguachat.SessionConfig) {
	c.Cookie(&fiber.Cookie{
		Name:     cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   cfg.Secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

// writeError maps err to a status and writes the JSON error body.
// Errors without a kind are logged and answered with a generic message.
func writeError(c fiber.Ctx, app *linguachat.App, err error) error {
	status := mapErrorToStatus(err)

	var opErr *core.Error
	if status == http.StatusInternalServerError && !errors.As(err, &opErr) {
		app.Logger.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
		return c.Status(status).JSON(linguachat.ErrorResponse{Message: "internal server error"})
	}

	return c.Status(status).JSON(linguachat.ErrorResponse{
		Message: err.Error(),
		Reason:  core.ReasonOf(err),
	})
}

// mapErrorToStatus maps error kinds to HTTP status codes
func mapErrorToStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	switch {
	case errors.Is(err, core.ErrValidation),
		errors.Is(err, core.ErrConflict):
		return http.StatusBadRequest

	case errors.Is(err, core.ErrUnauthorized):
		return http.StatusUnauthorized

	case errors.Is(err, core.ErrForbidden):
		return http.StatusForbidden

	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}
