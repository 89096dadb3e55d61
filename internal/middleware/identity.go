package middleware

// identity.go provides the user identity lookup shared by the cache and
// rate limit middleware. JWTAuth stores the subject under "user_id";
// unauthenticated requests resolve to "anon" so public endpoints still
// get stable limiter keys.

import "github.com/labstack/echo/v4"

// currentUserID returns the authenticated subject or "anon".
func currentUserID(c echo.Context) string {
	if s, ok := c.Get("user_id").(string); ok && s != "" {
		return s
	}
	return "anon"
}
