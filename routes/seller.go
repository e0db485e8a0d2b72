package routes

import (
	sellerControllers "github.com/SuleimanKh97/TestMasterPeace/controllers/seller"
	"github.com/SuleimanKh97/TestMasterPeace/middleware"
	"github.com/SuleimanKh97/TestMasterPeace/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupSellerRoutes registers "/seller/*". Requires a seller token.
func SetupSellerRoutes(r *gin.Engine, db *gorm.DB) {
	sellerGroup := r.Group("/seller")
	sellerGroup.Use(middleware.ValidateToken, middleware.RequireRoles(models.RoleSeller))
	{
		sellerGroup.GET("/dashboard", sellerControllers.GetDashboard(db))

		sellerGroup.GET("/products", sellerControllers.GetProducts(db))
		sellerGroup.POST("/products", sellerControllers.AddProduct(db))
		sellerGroup.PUT("/products/:id", sellerControllers.EditProduct(db))
		sellerGroup.DELETE("/products/:id", sellerControllers.DeleteProduct(db))

		sellerGroup.GET("/orders", sellerControllers.GetOrders(db))
		sellerGroup.PUT("/orders/:id/ship", sellerControllers.ShipOrder(db))
		sellerGroup.PUT("/orders/:id/cancel", sellerControllers.CancelOrder(db))
	}
}
