package routes

import (
	blogControllers "github.com/SuleimanKh97/TestMasterPeace/controllers/blog"
	categoryControllers "github.com/SuleimanKh97/TestMasterPeace/controllers/category"
	feedbackControllers "github.com/SuleimanKh97/TestMasterPeace/controllers/feedback"
	productControllers "github.com/SuleimanKh97/TestMasterPeace/controllers/product"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupPublicRoutes registers the unauthenticated catalog, blog and
// feedback-read endpoints.
func SetupPublicRoutes(r *gin.Engine, db *gorm.DB) {
	productGroup := r.Group("/product")
	{
		productGroup.GET("", productControllers.GetProducts(db))
		productGroup.GET("/:id", productControllers.GetProductByID(db))
	}

	categoryGroup := r.Group("/category")
	{
		categoryGroup.GET("", categoryControllers.ListCategories(db))
		categoryGroup.GET("/:id", categoryControllers.GetCategoryByID(db))
	}

	blogGroup := r.Group("/blog")
	{
		blogGroup.GET("", blogControllers.GetBlogPosts(db))
		blogGroup.GET("/:id", blogControllers.GetBlogPostByID(db))
		blogGroup.GET("/latest/:count", blogControllers.GetLatestBlogPosts(db))
	}

	r.GET("/api/feedback/product/:id", feedbackControllers.GetProductFeedback(db))
}
