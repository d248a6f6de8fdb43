package middleware

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"expense-tracker/app/domain"
	"expense-tracker/app/port"
)

// identityContextKey is where RequireAuth stores the resolved identity.
const identityContextKey = "auth_identity"

// AuthMiddleware is the access guard: every protected route re-resolves
// the caller's identity from the cookie session. Authorization decisions
// are never cached across requests; tokens can expire or be revoked
// between calls.
type AuthMiddleware struct {
	gateway  port.IdentityGateway
	sessions func(echo.Context) port.SessionStore
	logger   *slog.Logger
}

// NewAuthMiddleware creates a new auth middleware. The sessions factory
// binds a session store to the current request.
func NewAuthMiddleware(gateway port.IdentityGateway, sessions func(echo.Context) port.SessionStore, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		gateway:  gateway,
		sessions: sessions,
		logger:   logger,
	}
}

// RequireAuth short-circuits the request with 401 before the handler runs
// when the session does not resolve to an identity. Unauthenticated
// traffic is expected, not an anomaly, so it is not logged as an error.
func (m *AuthMiddleware) RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			identity, err := m.gateway.CurrentIdentity(ctx, m.sessions(c))
			if err != nil {
				// An error here is an internal failure, not a missing
				// session; answering 401 would misreport an outage as
				// expired credentials.
				m.logger.Error("identity resolution failed", "error", err)
				return echo.NewHTTPError(http.StatusInternalServerError, "identity resolution failed")
			}
			if identity == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrUnauthenticated.Error())
			}

			SetIdentity(c, identity)
			return next(c)
		}
	}
}

// SetIdentity attaches the resolved identity to the request context.
func SetIdentity(c echo.Context, identity *domain.Identity) {
	c.Set(identityContextKey, identity)
}

// IdentityFrom returns the identity the guard stored for this request,
// or nil outside a guarded route.
func IdentityFrom(c echo.Context) *domain.Identity {
	identity, _ := c.Get(identityContextKey).(*domain.Identity)
	return identity
}
