package middleware // contains reusable HTTP middleware functions

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Context keys populated by JWTAuth for downstream handlers.
const (
	CtxDriverID    = "driver_id"
	CtxDriverEmail = "driver_email"
	CtxDriverName  = "driver_name"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the authenticated driver's id, email and name into the
// request context. The secret must match the one used when issuing tokens.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}

			driverID, ok := subjectID(claims["sub"])
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}
			c.Set(CtxDriverID, driverID)
			if email, ok := claims["email"].(string); ok {
				c.Set(CtxDriverEmail, email)
			}
			if name, ok := claims["name"].(string); ok {
				c.Set(CtxDriverName, name)
			}
			return next(c)
		}
	}
}

// subjectID normalizes the sub claim; JSON numbers decode as float64 but a
// stringified id is tolerated too.
func subjectID(v interface{}) (int64, bool) {
	switch sub := v.(type) {
	case float64:
		return int64(sub), true
	case string:
		if n, err := strconv.ParseInt(sub, 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}
