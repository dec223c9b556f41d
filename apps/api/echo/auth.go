package echoapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/alphauniversity/portal/core/user"
)

// SessionCookieName is the HTTP-only cookie the signed session rides in.
const SessionCookieName = "portal_session"

// Claims is the signed session state carried in the session cookie.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	Remember bool   `json:"remember,omitempty"`
}

// GetUserClaims builds session claims for a freshly authenticated user.
// The token always expires after lifetime; the cookie itself is
// session-scoped unless remember is set (see setSessionCookie).
func GetUserClaims(usr user.User, remember bool, appName string, lifetime time.Duration) *Claims {
	now := time.Now()
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    appName,
			Subject:   strconv.Itoa(usr.ID),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Username: usr.Username,
		Remember: remember,
	}
}

// GenerateToken signs the session claims.
func GenerateToken(claims *Claims, secret []byte) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func parseToken(tokenStr string, secret []byte) (*Claims, error) {
	claims := new(Claims)
	_, err := jwt.ParseWithClaims(tokenStr, claims,
		func(t *jwt.Token) (interface{}, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// UserID returns the authenticated user's id.
func (c *Claims) UserID() int {
	id, _ := strconv.Atoi(c.Subject)
	return id
}

func setSessionCookie(ctx echo.Context, token string, remember bool, lifetime time.Duration) {
	cookie := &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if remember {
		cookie.MaxAge = int(lifetime / time.Second)
	}
	ctx.SetCookie(cookie)
}

func clearSessionCookie(ctx echo.Context) {
	ctx.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
