package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SetupRoutes 注册全部 /api/v1 路由及 /health
func SetupRoutes(r *gin.Engine, db *gorm.DB, svc *Services, logger *logrus.Logger) {
	r.Use(RequestLogger(logger))

	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			logger.WithError(err).Warn("health check: database unreachable")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authHandler := NewAuthHandler(svc.Auth, logger)
	restaurantHandler := NewRestaurantHandler(svc.Restaurants, logger)
	voteHandler := NewVoteHandler(svc, logger)
	winnerHandler := NewWinnerHandler(svc, logger)
	settingsHandler := NewSettingsHandler(svc.Settings, logger)

	requireUser := JWTAuth(svc.Auth, logger)
	requireAdmin := RequireAdmin()

	v1 := r.Group("/api/v1")
	{
		v1.POST("/auth/register", authHandler.Register)
		v1.POST("/auth/login", authHandler.Login)
		v1.POST("/auth/logout", requireUser, authHandler.Logout)
		v1.DELETE("/auth/account", requireUser, authHandler.DeleteAccount)

		v1.GET("/restaurants", restaurantHandler.List)
		v1.GET("/restaurants/:id", restaurantHandler.Get)
		v1.POST("/restaurants", requireUser, restaurantHandler.Create)
		v1.PATCH("/restaurants/:id", requireUser, restaurantHandler.Update)
		v1.DELETE("/restaurants/:id", requireUser, restaurantHandler.Delete)
		v1.POST("/restaurants/:id/votes", requireUser, voteHandler.CastVote)

		v1.GET("/votes/today", requireUser, voteHandler.Today)

		v1.GET("/winners", winnerHandler.List)
		v1.POST("/winners/determine", requireUser, requireAdmin, winnerHandler.Determine)

		v1.GET("/settings", settingsHandler.Get)
		v1.PUT("/settings", requireUser, requireAdmin, settingsHandler.Update)
	}
}
