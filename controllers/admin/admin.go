package adminControllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/SuleimanKh97/TestMasterPeace/auth"
	"github.com/SuleimanKh97/TestMasterPeace/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CreateUserInput struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required"`
}

type UpdateUserInput struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Role     string `json:"role" binding:"required"`
}

type userView struct {
	ID        uint        `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

// GET /admin/users
func GetUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []models.User
		if err := db.Order("created_at DESC").Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
			return
		}

		views := make([]userView, 0, len(users))
		for _, u := range users {
			views = append(views, userView{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt})
		}
		c.JSON(http.StatusOK, views)
	}
}

// POST /admin/users
func AddUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateUserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		role, ok := models.ParseRole(input.Role)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Role must be buyer, seller or admin"})
			return
		}

		var count int64
		if err := db.Model(&models.User{}).
			Where("username = ? OR email = ?", input.Username, input.Email).
			Count(&count).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing users"})
			return
		}
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Username or email already exists"})
			return
		}

		hash, err := auth.HashPassword(input.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}

		user := models.User{
			Username:  input.Username,
			Email:     input.Email,
			Password:  hash,
			Role:      role,
			CreatedAt: time.Now(),
		}
		if err := db.Create(&user).Error; err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Username or email already exists"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "User added successfully", "user_id": user.ID})
	}
}

// PUT /admin/users/:id
func UpdateUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
			return
		}

		var input UpdateUserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		role, ok := models.ParseRole(input.Role)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Role must be buyer, seller or admin"})
			return
		}

		var user models.User
		if err := db.First(&user, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		var conflicts int64
		if err := db.Model(&models.User{}).
			Where("id <> ? AND (username = ? OR email = ?)", id, input.Username, input.Email).
			Count(&conflicts).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing users"})
			return
		}
		if conflicts > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Username or email is already taken by another user"})
			return
		}

		user.Username = input.Username
		user.Email = input.Email
		user.Role = role
		if err := db.Save(&user).Error; err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Username or email already exists"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "User updated successfully",
			"user":    userView{ID: user.ID, Username: user.Username, Email: user.Email, Role: user.Role, CreatedAt: user.CreatedAt},
		})
	}
}

// PUT /admin/users/:id/ban toggles between banned and buyer.
func BanUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
			return
		}

		var user models.User
		if err := db.First(&user, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		if user.Role == models.RoleBanned {
			user.Role = models.RoleBuyer
		} else {
			user.Role = models.RoleBanned
		}
		if err := db.Model(&user).Update("role", user.Role).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
			return
		}

		action := "banned"
		if user.Role != models.RoleBanned {
			action = "unbanned"
		}
		c.JSON(http.StatusOK, gin.H{"message": "User " + action + " successfully", "role": user.Role})
	}
}

// DELETE /admin/users/:id
func DeleteUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
			return
		}

		result := db.Delete(&models.User{}, id)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
	}
}

// GET /admin/products
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []models.Product
		if err := db.Preload("Category").Preload("Seller").
			Order("created_at DESC").Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

// DELETE /admin/products/:id
func DeleteProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		result := db.Delete(&models.Product{}, id)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
	}
}

// GET /admin/orders
func GetOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.Preload("User").
			Preload("Items").
			Preload("Items.Product").
			Preload("Items.Product.Seller").
			Preload("Transactions").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}

		views := make([]gin.H, 0, len(orders))
		for _, order := range orders {
			views = append(views, adminOrderView(order))
		}
		c.JSON(http.StatusOK, views)
	}
}

func adminOrderView(order models.Order) gin.H {
	buyer := ""
	if order.User != nil {
		buyer = order.User.Username
	}

	paymentMethod := ""
	var transactionDate *time.Time
	if len(order.Transactions) > 0 {
		paymentMethod = order.Transactions[0].PaymentMethod
		transactionDate = &order.Transactions[0].TransactionDate
	}

	items := make([]gin.H, 0, len(order.Items))
	for _, item := range order.Items {
		itemView := gin.H{
			"product_id": item.ProductID,
			"quantity":   item.Quantity,
			"price":      item.Price,
		}
		if item.Product != nil {
			itemView["product_name"] = item.Product.Name
			itemView["img"] = item.Product.Img
			if item.Product.Seller != nil {
				itemView["seller_id"] = item.Product.Seller.ID
				itemView["seller_username"] = item.Product.Seller.Username
			}
		}
		items = append(items, itemView)
	}

	return gin.H{
		"order_id":         order.ID,
		"order_ref":        order.OrderRef,
		"buyer_username":   buyer,
		"buyer_user_id":    order.UserID,
		"order_date":       order.CreatedAt,
		"total_amount":     order.TotalPrice,
		"status":           order.Status,
		"payment_method":   paymentMethod,
		"transaction_date": transactionDate,
		"items":            items,
	}
}
