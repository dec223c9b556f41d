package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/alphauniversity/portal/core/user"
)

const contextClaimsKey = "sessionClaims"

// sessionMiddleware resolves the session cookie into Claims. An absent,
// expired or tampered cookie leaves the request anonymous; it never errors.
func sessionMiddleware(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if cookie, err := ctx.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
				if claims, err := parseToken(cookie.Value, secret); err == nil {
					ctx.Set(contextClaimsKey, claims)
				}
			}
			return next(ctx)
		}
	}
}

func getSessionClaims(ctx echo.Context) (*Claims, bool) {
	claims, ok := ctx.Get(contextClaimsKey).(*Claims)
	return claims, ok
}

// requireAuthenticated sends anonymous requests to the login page instead of
// erroring.
func requireAuthenticated(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		if _, ok := getSessionClaims(ctx); !ok {
			return ctx.Redirect(302, loginPath)
		}
		return next(ctx)
	}
}

// requireRolePrefix gates a route on the session username's role prefix.
// A mismatch is a hard 403; it does not bounce back to login.
func requireRolePrefix(prefix string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, ok := getSessionClaims(ctx)
			if !ok {
				return errHttpForbidden
			}
			if !user.HasRolePrefix(claims.Username, prefix) {
				return errHttpForbidden
			}
			return next(ctx)
		}
	}
}
