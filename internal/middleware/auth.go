// Package middleware provides authentication, logging, tracing and metrics
// middleware for the HTTP server.
package middleware

import (
	"context"
	"log/slog"

	"blogsphere/internal/auth"
	"blogsphere/internal/models"

	"github.com/gofiber/fiber/v2"
)

// UserIDLocal is the fiber.Ctx local holding the authenticated user id.
const UserIDLocal = "userID"

const unauthenticatedMessage = "Authentication required"

// IdentityStore reports whether a user still exists.
type IdentityStore interface {
	Exists(ctx context.Context, id uint) (bool, error)
}

// Guard resolves a request's bearer token to a user id or to anonymous.
type Guard struct {
	tokens *auth.Manager
	users  IdentityStore
}

// NewGuard creates a Guard. users may be nil to skip the existence check.
func NewGuard(tokens *auth.Manager, users IdentityStore) *Guard {
	return &Guard{tokens: tokens, users: users}
}

// Resolve returns the user id for the request, or 0 for anonymous. The
// error is non-nil only when the identity store could not be consulted.
func (g *Guard) Resolve(c *fiber.Ctx) (uint, error) {
	token, ok := auth.BearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return 0, nil
	}
	userID, err := g.tokens.Parse(token)
	if err != nil {
		return 0, nil
	}
	if g.users == nil {
		return userID, nil
	}
	exists, err := g.users.Exists(c.UserContext(), userID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, nil
	}
	return userID, nil
}

// Required rejects anonymous requests with a uniform 401.
func (g *Guard) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := g.Resolve(c)
		if err != nil {
			return models.RespondWithError(c, models.StatusFor(err), err)
		}
		if userID == 0 {
			return models.RespondWithError(c, fiber.StatusUnauthorized, models.NewUnauthorizedError(unauthenticatedMessage))
		}
		setUser(c, userID)
		return c.Next()
	}
}

// Optional lets anonymous requests through. A storage failure while
// checking the user degrades to anonymous.
func (g *Guard) Optional() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := g.Resolve(c)
		if err != nil {
			Logger.WarnContext(c.UserContext(), "identity check failed, continuing anonymously", slog.String("error", err.Error()))
		}
		if userID != 0 {
			setUser(c, userID)
		}
		return c.Next()
	}
}

func setUser(c *fiber.Ctx, userID uint) {
	c.Locals(UserIDLocal, userID)
	c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, userID))
}

// UserID returns the authenticated user id, or 0 for anonymous requests.
func UserID(c *fiber.Ctx) uint {
	id, _ := c.Locals(UserIDLocal).(uint)
	return id
}
