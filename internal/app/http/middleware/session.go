package middleware

import (
	"fmt"
	"net/http"

	"artfolio/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// SessionCookie is the HttpOnly cookie carrying the signed session token.
const SessionCookie = "artfolio_session"

// RequireAdmin parses the session cookie and only lets role=admin through.
// Everything behind /api/admin answers a bare 401 on failure so the
// backoffice stays invisible to anonymous visitors.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := []byte(config.SESSION_SECRET)
		if len(secret) == 0 {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Session secret not configured"})
			c.Abort()
			return
		}

		cookie, err := c.Cookie(SessionCookie)
		if err != nil || cookie == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			c.Abort()
			return
		}

		claims, err := ParseSession(cookie, secret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			c.Abort()
			return
		}

		// same answer as every other failure so the response never hints
		// at what a valid session would unlock
		if role, _ := claims["role"].(string); role != "admin" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			c.Abort()
			return
		}

		if email, ok := claims["email"].(string); ok {
			c.Set("email", email)
		}
		if userIDFloat, ok := claims["user_id"].(float64); ok {
			c.Set("user_id", uint(userIDFloat))
		}
		c.Next()
	}
}

// ParseSession validates a session token and returns its claims.
func ParseSession(tokenString string, secret []byte) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid or expired session")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid session claims")
	}
	return claims, nil
}
