package productControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/SuleimanKh97/TestMasterPeace/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type shopProduct struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Img         string  `json:"img"`
	SellerName  string  `json:"seller_name"`
}

type productDetail struct {
	shopProduct
	CategoryName string `json:"category_name"`
	CreatedAt    string `json:"created_at"`
}

// GetProducts returns the public catalog. Sold products are excluded; the
// remaining rows can be narrowed by category, price range and substring search.
// GET /product?category=&minPrice=&maxPrice=&search=
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Preload("Seller").Where("is_sold = ?", false)

		if category := c.Query("category"); category != "" {
			categoryID, err := strconv.ParseUint(category, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
				return
			}
			query = query.Where("category_id = ?", categoryID)
		}
		if minPrice := c.Query("minPrice"); minPrice != "" {
			price, err := strconv.ParseFloat(minPrice, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid minPrice"})
				return
			}
			query = query.Where("price >= ?", price)
		}
		if maxPrice := c.Query("maxPrice"); maxPrice != "" {
			price, err := strconv.ParseFloat(maxPrice, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid maxPrice"})
				return
			}
			query = query.Where("price <= ?", price)
		}
		if search := c.Query("search"); search != "" {
			pattern := "%" + search + "%"
			query = query.Where("name LIKE ? OR description LIKE ?", pattern, pattern)
		}

		var products []models.Product
		if err := query.Order("created_at DESC").Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}

		views := make([]shopProduct, 0, len(products))
		for _, p := range products {
			views = append(views, toShopProduct(p))
		}
		c.JSON(http.StatusOK, views)
	}
}

// GET /product/:id
func GetProductByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		var product models.Product
		err = db.Preload("Category").Preload("Seller").First(&product, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve product"})
			return
		}

		detail := productDetail{
			shopProduct:  toShopProduct(product),
			CategoryName: "Uncategorized",
			CreatedAt:    product.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if product.Category != nil {
			detail.CategoryName = product.Category.Name
		}
		c.JSON(http.StatusOK, detail)
	}
}

func toShopProduct(p models.Product) shopProduct {
	view := shopProduct{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Img:         p.Img,
		SellerName:  "Unknown Seller",
	}
	if p.Seller != nil {
		view.SellerName = p.Seller.Username
	}
	return view
}
