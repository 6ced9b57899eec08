package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yashrajoria/car-rental/backend/services/common/auth"
)

// BearerAuth rejects requests whose Authorization header does not carry the
// shared secret. A verifier without a secret disables the check.
func BearerAuth(v *auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !v.Enabled() || c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}
		if err := v.VerifyHeader(c.GetHeader("Authorization")); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}
