// README: Auth middleware (stub for MVP).
package middleware

import "github.com/gin-gonic/gin"

// [TODO] Replace the dev-token login flow with real JWT verification.

func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
	}
}
