package routes

import (
	cartControllers "github.com/SuleimanKh97/TestMasterPeace/controllers/cart"
	feedbackControllers "github.com/SuleimanKh97/TestMasterPeace/controllers/feedback"
	orderControllers "github.com/SuleimanKh97/TestMasterPeace/controllers/order"
	paymentControllers "github.com/SuleimanKh97/TestMasterPeace/controllers/payment"
	"github.com/SuleimanKh97/TestMasterPeace/middleware"
	"github.com/SuleimanKh97/TestMasterPeace/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupBuyerRoutes registers the cart, checkout, payment and feedback
// endpoints. Everything here requires a buyer token.
func SetupBuyerRoutes(r *gin.Engine, db *gorm.DB) {
	cartGroup := r.Group("/buyer/cart")
	cartGroup.Use(middleware.ValidateToken, middleware.RequireRoles(models.RoleBuyer))
	{
		cartGroup.GET("", cartControllers.GetCart(db))
		cartGroup.POST("", cartControllers.AddToCart(db))
		cartGroup.PUT("/:product_id", cartControllers.UpdateCartItem(db))
		cartGroup.DELETE("/:product_id", cartControllers.RemoveFromCart(db))
		cartGroup.DELETE("", cartControllers.ClearCart(db))
	}

	orderGroup := r.Group("/order")
	orderGroup.Use(middleware.ValidateToken, middleware.RequireRoles(models.RoleBuyer))
	{
		orderGroup.POST("", orderControllers.Checkout(db))
		orderGroup.GET("/my", orderControllers.GetMyOrders(db))
		orderGroup.PUT("/:id/cancel", orderControllers.CancelOrder(db))
		orderGroup.PUT("/:id/deliver", orderControllers.ConfirmDelivery(db))
	}

	// Live order feed used by seller/admin dashboards.
	r.GET("/order/ws", orderControllers.OrderWebSocketHandler)

	paymentGroup := r.Group("/payment")
	paymentGroup.Use(middleware.ValidateToken, middleware.RequireRoles(models.RoleBuyer))
	{
		paymentGroup.POST("/initiate", paymentControllers.InitiateSimulation(db))
		paymentGroup.POST("/confirm", paymentControllers.ConfirmSimulation(db))
	}

	r.POST("/api/feedback", middleware.ValidateToken, feedbackControllers.SubmitFeedback(db))
}
