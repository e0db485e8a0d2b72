package sellerControllers

import (
	"net/http"
	"sort"
	"time"

	"github.com/SuleimanKh97/TestMasterPeace/middleware"
	"github.com/SuleimanKh97/TestMasterPeace/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type sellerSaleRow struct {
	OrderID   uint
	Status    models.OrderStatus
	CreatedAt time.Time
	LineTotal float64
}

type monthlyRevenue struct {
	Month   string  `json:"month"` // YYYY-MM
	Revenue float64 `json:"revenue"`
}

// GetDashboard aggregates the seller's side of the marketplace: product count,
// orders containing their items, revenue of their line items, revenue by month
// and order counts by status.
// GET /seller/dashboard
func GetDashboard(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sellerID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var totalProducts int64
		if err := db.Model(&models.Product{}).Where("seller_id = ?", sellerID).Count(&totalProducts).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch dashboard"})
			return
		}

		var rows []sellerSaleRow
		if err := db.Model(&models.OrderItem{}).
			Select("order_items.order_id, orders.status, orders.created_at, order_items.price * order_items.quantity AS line_total").
			Joins("JOIN orders ON orders.id = order_items.order_id").
			Joins("JOIN products ON products.id = order_items.product_id").
			Where("products.seller_id = ?", sellerID).
			Scan(&rows).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch dashboard"})
			return
		}

		revenueByMonth, ordersByStatus, totalRevenue, totalOrders := aggregateSales(rows)

		c.JSON(http.StatusOK, gin.H{
			"total_products":   totalProducts,
			"total_orders":     totalOrders,
			"total_revenue":    totalRevenue,
			"revenue_by_month": revenueByMonth,
			"orders_by_status": ordersByStatus,
		})
	}
}

// aggregateSales folds per-item sale rows into the dashboard figures. Grouping
// happens here rather than in SQL so the queries stay portable across engines.
func aggregateSales(rows []sellerSaleRow) ([]monthlyRevenue, map[models.OrderStatus]int, float64, int) {
	byMonth := make(map[string]float64)
	seenOrders := make(map[uint]models.OrderStatus)
	var totalRevenue float64

	for _, row := range rows {
		totalRevenue += row.LineTotal
		byMonth[row.CreatedAt.Format("2006-01")] += row.LineTotal
		seenOrders[row.OrderID] = row.Status
	}

	months := make([]monthlyRevenue, 0, len(byMonth))
	for month, revenue := range byMonth {
		months = append(months, monthlyRevenue{Month: month, Revenue: revenue})
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Month < months[j].Month })

	byStatus := make(map[models.OrderStatus]int)
	for _, status := range seenOrders {
		byStatus[status]++
	}

	return months, byStatus, totalRevenue, len(seenOrders)
}
