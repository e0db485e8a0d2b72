package adminControllers

import (
	"net/http"
	"sort"

	"github.com/SuleimanKh97/TestMasterPeace/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GET /admin/dashboard
func GetDashboard(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var totalUsers, totalProducts, totalOrders int64
		if err := db.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch dashboard"})
			return
		}
		if err := db.Model(&models.Product{}).Count(&totalProducts).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch dashboard"})
			return
		}
		if err := db.Model(&models.Order{}).Count(&totalOrders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch dashboard"})
			return
		}

		var orders []models.Order
		if err := db.Select("id", "status", "total_price", "created_at").Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch dashboard"})
			return
		}

		byStatus := make(map[models.OrderStatus]int)
		byMonth := make(map[string]float64)
		for _, order := range orders {
			byStatus[order.Status]++
			byMonth[order.CreatedAt.Format("2006-01")] += order.TotalPrice
		}

		type monthRevenue struct {
			Month   string  `json:"month"`
			Revenue float64 `json:"revenue"`
		}
		months := make([]monthRevenue, 0, len(byMonth))
		for month, revenue := range byMonth {
			months = append(months, monthRevenue{Month: month, Revenue: revenue})
		}
		sort.Slice(months, func(i, j int) bool { return months[i].Month < months[j].Month })

		c.JSON(http.StatusOK, gin.H{
			"total_users":      totalUsers,
			"total_products":   totalProducts,
			"total_orders":     totalOrders,
			"orders_by_status": byStatus,
			"revenue_by_month": months,
		})
	}
}
