package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"

	echo "github.com/labstack/echo/v4"
)

const clientIDKey = "client_id"

// ClientIDFromCtx returns the identity set by APIKeyMiddleware.
func ClientIDFromCtx(c echo.Context) (string, bool) {
	id, ok := c.Get(clientIDKey).(string)
	return id, ok && id != ""
}

// APIKeyMiddleware checks the X-API-Key header against a static key list.
// With no keys configured every request passes. The client identity stored in
// the context is a short hash of the key, never the key itself.
func APIKeyMiddleware(keys []string) echo.MiddlewareFunc {
	var allowed [][]byte
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			allowed = append(allowed, []byte(k))
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if len(allowed) == 0 {
			return next
		}
		return func(c echo.Context) error {
			key := strings.TrimSpace(c.Request().Header.Get("X-API-Key"))
			if key == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing api key"})
			}
			if !match(allowed, []byte(key)) {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid api key"})
			}
			c.Set(clientIDKey, fingerprint(key))
			return next(c)
		}
	}
}

func match(allowed [][]byte, key []byte) bool {
	ok := 0
	for _, a := range allowed {
		ok |= subtle.ConstantTimeCompare(a, key)
	}
	return ok == 1
}

func fingerprint(key string) string {
	sum := sha256.Sum256([]byte(key))
	return "key:" + hex.EncodeToString(sum[:6])
}
