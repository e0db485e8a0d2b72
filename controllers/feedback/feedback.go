package feedbackControllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/SuleimanKh97/TestMasterPeace/middleware"
	"github.com/SuleimanKh97/TestMasterPeace/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type FeedbackInput struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment"`
}

// SubmitFeedback creates or updates the caller's rating for a product.
// Only buyers who received the product in a delivered order may rate it;
// a second submission for the same product replaces the first.
// POST /api/feedback
func SubmitFeedback(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input FeedbackInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var product models.Product
		if err := db.First(&product, input.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate product"})
			}
			return
		}

		var deliveredCount int64
		if err := db.Model(&models.OrderItem{}).
			Joins("JOIN orders ON orders.id = order_items.order_id").
			Where("order_items.product_id = ? AND orders.user_id = ? AND orders.status = ?",
				input.ProductID, userID, models.OrderStatusDelivered).
			Count(&deliveredCount).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify purchase"})
			return
		}
		if deliveredCount == 0 {
			c.JSON(http.StatusForbidden, gin.H{"error": "Feedback is only allowed for products received in a delivered order"})
			return
		}

		var feedback models.Feedback
		err := db.Where("user_id = ? AND product_id = ?", userID, input.ProductID).First(&feedback).Error
		switch {
		case err == nil:
			feedback.Rating = input.Rating
			feedback.Comment = input.Comment
			if err := db.Save(&feedback).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update feedback"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"message": "Feedback updated successfully", "feedback": feedback})
		case errors.Is(err, gorm.ErrRecordNotFound):
			feedback = models.Feedback{
				UserID:    userID,
				ProductID: input.ProductID,
				Rating:    input.Rating,
				Comment:   input.Comment,
				CreatedAt: time.Now(),
			}
			if err := db.Create(&feedback).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save feedback"})
				return
			}
			c.JSON(http.StatusCreated, gin.H{"message": "Feedback submitted successfully", "feedback": feedback})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing feedback"})
		}
	}
}

// GET /api/feedback/product/:id returns public ratings with the average.
func GetProductFeedback(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		var feedbacks []models.Feedback
		if err := db.Preload("User").
			Where("product_id = ?", productID).
			Order("created_at DESC").
			Find(&feedbacks).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch feedback"})
			return
		}

		views := make([]gin.H, 0, len(feedbacks))
		var sum int
		for _, fb := range feedbacks {
			username := ""
			if fb.User != nil {
				username = fb.User.Username
			}
			sum += fb.Rating
			views = append(views, gin.H{
				"rating":     fb.Rating,
				"comment":    fb.Comment,
				"username":   username,
				"created_at": fb.CreatedAt,
			})
		}

		var average float64
		if len(feedbacks) > 0 {
			average = float64(sum) / float64(len(feedbacks))
		}

		c.JSON(http.StatusOK, gin.H{
			"feedback":       views,
			"average_rating": average,
			"count":          len(feedbacks),
		})
	}
}
