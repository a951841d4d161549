package router

import (
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"examnotify/controllers"
)

func InitRouter(
	nc *controllers.NotificationController,
	ac *controllers.AuthController,
	authMW gin.HandlerFunc,
) *gin.Engine {
	r := gin.Default()

	allowedOrigins := []string{"*"}
	allowCreds := false
	if raw := os.Getenv("FRONTEND_ORIGINS"); raw != "" {
		split := strings.Split(raw, ",")
		allowedOrigins = allowedOrigins[:0]
		for _, v := range split {
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				allowedOrigins = append(allowedOrigins, trimmed)
			}
		}
		if len(allowedOrigins) == 0 {
			allowedOrigins = []string{"*"}
		} else {
			allowCreds = true
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCreds,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", controllers.Health)

	auth := r.Group("/auth")
	{
		auth.POST("/login", ac.Login)
		auth.POST("/register", ac.Register)
	}

	r.GET("/notifications", nc.List)
	r.GET("/scrape", nc.Scrape)

	protected := r.Group("/")
	protected.Use(authMW)
	{
		protected.DELETE("/notifications/:id", nc.Delete)
		protected.GET("/notifications/:id/resend", nc.Resend)
	}

	return r
}
