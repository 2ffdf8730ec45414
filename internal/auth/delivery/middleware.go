package delivery

import (
	"strings"

	"novelog-backend/pkg/apperr"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware verifies the Firebase ID token in the Authorization
// header and attaches the caller's uid to the request context.
func AuthMiddleware(authClient *firebaseauth.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWith(c, apperr.New(apperr.Unauthenticated, "authorization header required"))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortWith(c, apperr.New(apperr.Unauthenticated, "invalid authorization header format"))
			return
		}

		token, err := authClient.VerifyIDToken(c.Request.Context(), parts[1])
		if err != nil {
			abortWith(c, apperr.New(apperr.Unauthenticated, "invalid or expired token"))
			return
		}

		c.Set("userID", token.UID)
		c.Next()
	}
}

// JobKeyMiddleware guards the internal job-trigger endpoints with a shared
// key. With no key configured the endpoints are disabled entirely.
func JobKeyMiddleware(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" || c.GetHeader("X-Job-Key") != key {
			abortWith(c, apperr.New(apperr.PermissionDenied, "invalid job trigger key"))
			return
		}
		c.Next()
	}
}

func abortWith(c *gin.Context, appErr *apperr.Error) {
	c.JSON(appErr.HTTPStatus(), gin.H{"error": appErr})
	c.Abort()
}
