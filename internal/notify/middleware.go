package notify

import (
	"net/http"
	"strings"

	"github.com/eyajribi/Gestion-projets-Scolaires-sub002/internal/util"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware guards the relay API with a shared bearer secret.
// With an empty secret the relay runs open, for local development.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		var token string
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				token = parts[1]
			}
		}

		if token != secret {
			util.Error(c, http.StatusUnauthorized, "invalid relay credentials")
			c.Abort()
			return
		}
		c.Next()
	}
}
