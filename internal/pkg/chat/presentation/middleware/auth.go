package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// CallerIDKey is the gin context key holding the verified caller id.
const CallerIDKey = "user_id"

// AuthMiddleware verifies an HS256 bearer token and stores its subject
// (or, for older tokens, the user_id claim) as the caller id. Tokens are
// issued elsewhere; this only verifies them.
func AuthMiddleware(secret []byte) gin.HandlerFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	keyFunc := func(*jwt.Token) (interface{}, error) { return secret, nil }

	return func(c *gin.Context) {
		raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		raw = strings.TrimSpace(raw)
		if !ok || raw == "" {
			unauthenticated(c, "missing bearer token")
			return
		}

		claims := jwt.MapClaims{}
		if _, err := parser.ParseWithClaims(raw, claims, keyFunc); err != nil {
			msg := "invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "token expired"
			}
			unauthenticated(c, msg)
			return
		}

		callerID, err := claims.GetSubject()
		if err != nil || callerID == "" {
			callerID, _ = claims["user_id"].(string)
		}
		if callerID == "" {
			unauthenticated(c, "token has no subject")
			return
		}

		c.Set(CallerIDKey, callerID)
		c.Next()
	}
}

// CallerID returns the id set by AuthMiddleware, or "" when absent.
func CallerID(c *gin.Context) string {
	return c.GetString(CallerIDKey)
}

func unauthenticated(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg, "kind": "unauthenticated"})
}
