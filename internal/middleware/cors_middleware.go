package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"summarist-backend-go/internal/config"
)

// CORSMiddleware allows browser requests from the configured client
// origin(s). CLIENT_URL may be a comma-separated list.
func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	if cfg == nil || cfg.ClientURL == "" {
		panic("ClientURL for CORS is not configured")
	}

	origins := strings.Split(cfg.ClientURL, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
