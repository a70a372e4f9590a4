package notify

import (
	"net/http"

	"github.com/eyajribi/Gestion-projets-Scolaires-sub002/internal/config"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine for the push relay.
func SetupRouter(cfg config.NotifyConfig, db *gorm.DB) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	h := NewHandler(db)

	api := r.Group("/api")
	api.Use(AuthMiddleware(cfg.Secret))

	api.POST("/subscriptions", h.Subscribe)
	api.GET("/subscriptions", h.ListSubscriptions)
	api.DELETE("/subscriptions/:id", h.Unsubscribe)
	api.POST("/broadcast", h.Broadcast)

	return r
}
