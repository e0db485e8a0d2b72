package routes

import (
	authControllers "github.com/SuleimanKh97/TestMasterPeace/controllers/auth"
	"github.com/SuleimanKh97/TestMasterPeace/middleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupAuthRoutes registers "/auth/*". Register and login are public,
// the rest requires a valid token.
func SetupAuthRoutes(r *gin.Engine, db *gorm.DB) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", authControllers.Register(db))
		authGroup.POST("/login", authControllers.Login(db))

		protected := authGroup.Group("")
		protected.Use(middleware.ValidateToken)
		{
			protected.GET("/me", authControllers.GetCurrentUser(db))
			protected.PUT("/profile", authControllers.UpdateProfile(db))
			protected.PUT("/password", authControllers.ChangePassword(db))
		}
	}
}
