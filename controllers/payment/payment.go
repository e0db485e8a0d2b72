package paymentControllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/SuleimanKh97/TestMasterPeace/middleware"
	"github.com/SuleimanKh97/TestMasterPeace/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type InitiatePaymentInput struct {
	OrderID uint `json:"order_id" binding:"required"`
}

type ConfirmPaymentInput struct {
	OrderID       uint   `json:"order_id" binding:"required"`
	Success       *bool  `json:"success" binding:"required"`
	PaymentMethod string `json:"payment_method"`
}

// POST /payment/initiate is a stand-in for a payment gateway redirect. Returns
// the simulation URL the frontend renders; no state changes here.
func InitiateSimulation(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input InitiatePaymentInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var order models.Order
		err := db.Where("id = ? AND user_id = ?", input.OrderID, userID).First(&order).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found or does not belong to user"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			return
		}

		if order.Status != models.OrderStatusPending {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Payment can only be initiated for pending orders"})
			return
		}

		simulationURL := fmt.Sprintf("/simulate-payment?orderId=%d&amount=%.2f", order.ID, order.TotalPrice)
		c.JSON(http.StatusOK, gin.H{"simulation_url": simulationURL})
	}
}

// POST /payment/confirm resolves a pending order. Success records the
// transaction, marks every ordered product sold and clears the buyer's cart;
// failure parks the order in payment_failed. One transaction either way.
func ConfirmSimulation(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input ConfirmPaymentInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var finalStatus models.OrderStatus
		var message string

		err := db.Transaction(func(tx *gorm.DB) error {
			var order models.Order
			err := tx.Preload("Items").Where("id = ? AND user_id = ?", input.OrderID, userID).First(&order).Error
			if err != nil {
				return err
			}
			if order.Status != models.OrderStatusPending {
				return errOrderNotPending
			}

			if *input.Success {
				finalStatus = models.OrderStatusProcessing
				message = "Payment successful (simulated). Order is now processing."

				method := input.PaymentMethod
				if method == "" {
					method = "simulated_card"
				}
				txn := models.Transaction{
					OrderID:         order.ID,
					PaymentMethod:   method,
					Amount:          order.TotalPrice,
					TransactionDate: time.Now(),
				}
				if err := tx.Create(&txn).Error; err != nil {
					return err
				}

				productIDs := make([]uint, 0, len(order.Items))
				for _, item := range order.Items {
					productIDs = append(productIDs, item.ProductID)
				}
				if len(productIDs) > 0 {
					if err := tx.Model(&models.Product{}).
						Where("id IN ?", productIDs).
						Update("is_sold", true).Error; err != nil {
						return err
					}
				}

				// Clears the buyer's whole cart, not just this order's lines.
				if err := tx.Where("user_id = ?", userID).Delete(&models.Cart{}).Error; err != nil {
					return err
				}
			} else {
				finalStatus = models.OrderStatusPaymentFailed
				message = "Payment failed (simulated)."
			}

			return tx.Model(&order).Update("status", finalStatus).Error
		})

		switch {
		case err == nil:
			c.JSON(http.StatusOK, gin.H{"message": message, "order_id": input.OrderID, "status": finalStatus})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found or does not belong to user"})
		case errors.Is(err, errOrderNotPending):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot confirm payment for order in its current state"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred during payment confirmation"})
		}
	}
}

var errOrderNotPending = errors.New("order is not pending")
