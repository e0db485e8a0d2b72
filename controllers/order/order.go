package orderControllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/SuleimanKh97/TestMasterPeace/middleware"
	"github.com/SuleimanKh97/TestMasterPeace/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CheckoutInput struct {
	PaymentMethod        string `json:"payment_method" binding:"required"`
	ShippingPhone        string `json:"shipping_phone" binding:"required"`
	ShippingAddressLine1 string `json:"shipping_address_line1" binding:"required"`
	ShippingAddressLine2 string `json:"shipping_address_line2"`
	ShippingCity         string `json:"shipping_city" binding:"required"`
}

type orderItemView struct {
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	Img         string  `json:"img"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

type orderView struct {
	OrderID    uint               `json:"order_id"`
	OrderRef   string             `json:"order_ref"`
	Status     models.OrderStatus `json:"status"`
	TotalPrice float64            `json:"total_price"`
	CreatedAt  time.Time          `json:"created_at"`
	Items      []orderItemView    `json:"items"`
}

func generateOrderRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}

// Checkout converts the buyer's cart into one order per distinct seller.
// Rows whose product has no seller are skipped. Everything runs in a single
// transaction: either every seller group commits or none does.
func Checkout(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input CheckoutInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var cartRows []models.Cart
		if err := db.Preload("Product").Where("user_id = ?", userID).Find(&cartRows).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
			return
		}
		if len(cartRows) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
			return
		}

		bySeller := make(map[uint][]models.Cart)
		for _, row := range cartRows {
			if row.Product == nil || row.Product.SellerID == nil {
				continue
			}
			sellerID := *row.Product.SellerID
			bySeller[sellerID] = append(bySeller[sellerID], row)
		}
		if len(bySeller) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No valid items in cart to create orders"})
			return
		}

		isCOD := strings.EqualFold(input.PaymentMethod, models.PaymentMethodCOD)
		status := models.OrderStatusPending
		if isCOD {
			// COD needs no confirmation step, the order goes straight to the seller.
			status = models.OrderStatusProcessing
		}

		var created []models.Order
		err := db.Transaction(func(tx *gorm.DB) error {
			for _, rows := range bySeller {
				var total float64
				items := make([]models.OrderItem, 0, len(rows))
				for _, row := range rows {
					total += row.Product.Price * float64(row.Quantity)
					items = append(items, models.OrderItem{
						ProductID: row.ProductID,
						Quantity:  row.Quantity,
						Price:     row.Product.Price, // price captured at order time
					})
				}

				order := models.Order{
					UserID:               userID,
					OrderRef:             generateOrderRef(),
					TotalPrice:           total,
					Status:               status,
					ShippingPhone:        input.ShippingPhone,
					ShippingAddressLine1: input.ShippingAddressLine1,
					ShippingAddressLine2: input.ShippingAddressLine2,
					ShippingCity:         input.ShippingCity,
					Items:                items,
					CreatedAt:            time.Now(),
				}
				if err := tx.Create(&order).Error; err != nil {
					return err
				}

				if isCOD {
					txn := models.Transaction{
						OrderID:         order.ID,
						PaymentMethod:   models.PaymentMethodCOD,
						Amount:          order.TotalPrice,
						TransactionDate: time.Now(),
					}
					if err := tx.Create(&txn).Error; err != nil {
						return err
					}

					productIDs := make([]uint, 0, len(rows))
					for _, row := range rows {
						productIDs = append(productIDs, row.ProductID)
					}
					if err := tx.Model(&models.Product{}).
						Where("id IN ?", productIDs).
						Update("is_sold", true).Error; err != nil {
						return err
					}
				}

				created = append(created, order)
			}

			if isCOD {
				// Cart is spent immediately; simulated payment keeps it until
				// the confirmation step.
				if err := tx.Where("user_id = ?", userID).Delete(&models.Cart{}).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create orders"})
			return
		}

		orderIDs := make([]uint, 0, len(created))
		orderRefs := make([]string, 0, len(created))
		for _, order := range created {
			orderIDs = append(orderIDs, order.ID)
			orderRefs = append(orderRefs, order.OrderRef)
			broadcastNewOrder(order)
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":    "Order(s) created successfully",
			"order_ids":  orderIDs,
			"order_refs": orderRefs,
			"status":     status,
		})
	}
}

// GET /order/my?status=
func GetMyOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		query := db.Preload("Items").Preload("Items.Product").
			Where("user_id = ?", userID)
		if status := c.Query("status"); status != "" {
			query = query.Where("LOWER(status) = ?", strings.ToLower(status))
		}

		var orders []models.Order
		if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}

		views := make([]orderView, 0, len(orders))
		for _, order := range orders {
			views = append(views, toOrderView(order))
		}
		c.JSON(http.StatusOK, views)
	}
}

// PUT /order/:id/cancel (buyer: only while pending)
func CancelOrder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		order, done := loadOwnOrder(c, db, userID)
		if done {
			return
		}

		if order.Status != models.OrderStatusPending {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Order cannot be cancelled in its current status (" + string(order.Status) + ")",
			})
			return
		}

		if err := db.Model(order).Update("status", models.OrderStatusCancelled).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel order"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order cancelled successfully", "order_id": order.ID, "status": models.OrderStatusCancelled})
	}
}

// PUT /order/:id/deliver (buyer: only after shipped)
func ConfirmDelivery(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		order, done := loadOwnOrder(c, db, userID)
		if done {
			return
		}

		if order.Status != models.OrderStatusShipped {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Only shipped orders can be marked delivered",
			})
			return
		}

		if err := db.Model(order).Update("status", models.OrderStatusDelivered).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order marked as delivered", "order_id": order.ID, "status": models.OrderStatusDelivered})
	}
}

func loadOwnOrder(c *gin.Context, db *gorm.DB, userID uint) (*models.Order, bool) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return nil, true
	}

	var order models.Order
	err = db.Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found or does not belong to the user"})
		return nil, true
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return nil, true
	}
	return &order, false
}

func toOrderView(order models.Order) orderView {
	view := orderView{
		OrderID:    order.ID,
		OrderRef:   order.OrderRef,
		Status:     order.Status,
		TotalPrice: order.TotalPrice,
		CreatedAt:  order.CreatedAt,
		Items:      make([]orderItemView, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		itemView := orderItemView{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
		if item.Product != nil {
			itemView.ProductName = item.Product.Name
			itemView.Img = item.Product.Img
		}
		view.Items = append(view.Items, itemView)
	}
	return view
}
