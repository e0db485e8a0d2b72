package routes

import (
	adminControllers "github.com/SuleimanKh97/TestMasterPeace/controllers/admin"
	blogControllers "github.com/SuleimanKh97/TestMasterPeace/controllers/blog"
	categoryControllers "github.com/SuleimanKh97/TestMasterPeace/controllers/category"
	"github.com/SuleimanKh97/TestMasterPeace/middleware"
	"github.com/SuleimanKh97/TestMasterPeace/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupAdminRoutes registers "/admin/*" plus the admin-only category and blog
// mutations. Requires an admin token.
func SetupAdminRoutes(r *gin.Engine, db *gorm.DB) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateToken, middleware.RequireRoles(models.RoleAdmin))
	{
		adminGroup.GET("/dashboard", adminControllers.GetDashboard(db))

		adminGroup.GET("/users", adminControllers.GetUsers(db))
		adminGroup.POST("/users", adminControllers.AddUser(db))
		adminGroup.PUT("/users/:id", adminControllers.UpdateUser(db))
		adminGroup.PUT("/users/:id/ban", adminControllers.BanUser(db))
		adminGroup.DELETE("/users/:id", adminControllers.DeleteUser(db))

		adminGroup.GET("/orders", adminControllers.GetOrders(db))
		adminGroup.GET("/orders/export", adminControllers.ExportOrdersToExcel(db))

		adminGroup.GET("/products", adminControllers.GetProducts(db))
		adminGroup.GET("/products/export", adminControllers.ExportProductsToExcel(db))
		adminGroup.DELETE("/products/:id", adminControllers.DeleteProduct(db))
	}

	adminOnly := []gin.HandlerFunc{middleware.ValidateToken, middleware.RequireRoles(models.RoleAdmin)}

	categoryGroup := r.Group("/category", adminOnly...)
	{
		categoryGroup.POST("", categoryControllers.CreateCategory(db))
		categoryGroup.DELETE("/:id", categoryControllers.DeleteCategory(db))
	}

	blogGroup := r.Group("/blog", adminOnly...)
	{
		blogGroup.POST("", blogControllers.CreateBlogPost(db))
		blogGroup.PUT("/:id", blogControllers.UpdateBlogPost(db))
		blogGroup.DELETE("/:id", blogControllers.DeleteBlogPost(db))
	}
}
