package orderControllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/SuleimanKh97/TestMasterPeace/auth"
	"github.com/SuleimanKh97/TestMasterPeace/middleware"
	"github.com/SuleimanKh97/TestMasterPeace/models"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTest(t *testing.T) (*gorm.DB, *gin.Engine) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_ISSUER", "marketplace-api")
	t.Setenv("JWT_AUDIENCE", "marketplace-clients")
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Category{}, &models.Product{}, &models.Cart{},
		&models.Order{}, &models.OrderItem{}, &models.Transaction{},
		&models.Feedback{}, &models.BlogPost{},
	))

	r := gin.New()
	group := r.Group("/order")
	group.Use(middleware.ValidateToken, middleware.RequireRoles(models.RoleBuyer))
	{
		group.POST("", Checkout(db))
		group.GET("/my", GetMyOrders(db))
		group.PUT("/:id/cancel", CancelOrder(db))
		group.PUT("/:id/deliver", ConfirmDelivery(db))
	}
	return db, r
}

func createUser(t *testing.T, db *gorm.DB, username string, role models.Role) models.User {
	t.Helper()
	user := models.User{
		Username:  username,
		Email:     username + "@example.com",
		Password:  "irrelevant",
		Role:      role,
		CreatedAt: time.Now(),
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createProduct(t *testing.T, db *gorm.DB, name string, price float64, sellerID *uint) models.Product {
	t.Helper()
	product := models.Product{Name: name, Price: price, SellerID: sellerID, CreatedAt: time.Now()}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func addCartRow(t *testing.T, db *gorm.DB, userID, productID uint, qty int) {
	t.Helper()
	require.NoError(t, db.Create(&models.Cart{UserID: userID, ProductID: productID, Quantity: qty}).Error)
}

func tokenFor(t *testing.T, user models.User) string {
	t.Helper()
	token, err := auth.IssueToken(&user)
	require.NoError(t, err)
	return token
}

func doJSON(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func checkoutBody(method string) gin.H {
	return gin.H{
		"payment_method":         method,
		"shipping_phone":         "0790000000",
		"shipping_address_line1": "12 Main St",
		"shipping_city":          "Amman",
	}
}

func TestCheckoutSplitsOrdersBySeller(t *testing.T) {
	db, r := setupTest(t)

	buyer := createUser(t, db, "buyer1", models.RoleBuyer)
	seller1 := createUser(t, db, "seller1", models.RoleSeller)
	seller2 := createUser(t, db, "seller2", models.RoleSeller)

	productA := createProduct(t, db, "Product A", 10, &seller1.ID)
	productB := createProduct(t, db, "Product B", 5, &seller2.ID)
	addCartRow(t, db, buyer.ID, productA.ID, 2)
	addCartRow(t, db, buyer.ID, productB.ID, 1)

	w := doJSON(r, http.MethodPost, "/order", tokenFor(t, buyer), checkoutBody("cod"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var orders []models.Order
	require.NoError(t, db.Preload("Items").Find(&orders).Error)
	require.Len(t, orders, 2)

	totals := map[float64]bool{}
	for _, order := range orders {
		assert.Equal(t, models.OrderStatusProcessing, order.Status)
		assert.NotEmpty(t, order.OrderRef)
		require.Len(t, order.Items, 1)
		assert.Equal(t, order.TotalPrice, order.Items[0].Price*float64(order.Items[0].Quantity))
		totals[order.TotalPrice] = true
	}
	assert.True(t, totals[20], "seller1 order total")
	assert.True(t, totals[5], "seller2 order total")

	// COD empties the cart and marks the products sold
	var cartCount int64
	db.Model(&models.Cart{}).Where("user_id = ?", buyer.ID).Count(&cartCount)
	assert.Zero(t, cartCount)

	var soldCount int64
	db.Model(&models.Product{}).Where("is_sold = ?", true).Count(&soldCount)
	assert.EqualValues(t, 2, soldCount)

	// one transaction per order
	var txnCount int64
	db.Model(&models.Transaction{}).Count(&txnCount)
	assert.EqualValues(t, 2, txnCount)
}

func TestCheckoutSimulatedPaymentLeavesCartUntouched(t *testing.T) {
	db, r := setupTest(t)

	buyer := createUser(t, db, "buyer1", models.RoleBuyer)
	seller := createUser(t, db, "seller1", models.RoleSeller)
	product := createProduct(t, db, "Product A", 10, &seller.ID)
	addCartRow(t, db, buyer.ID, product.ID, 2)

	w := doJSON(r, http.MethodPost, "/order", tokenFor(t, buyer), checkoutBody("card"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var order models.Order
	require.NoError(t, db.First(&order).Error)
	assert.Equal(t, models.OrderStatusPending, order.Status)

	var cartCount int64
	db.Model(&models.Cart{}).Where("user_id = ?", buyer.ID).Count(&cartCount)
	assert.EqualValues(t, 1, cartCount, "cart kept until payment confirmation")

	var fresh models.Product
	require.NoError(t, db.First(&fresh, product.ID).Error)
	assert.False(t, fresh.IsSold)

	var txnCount int64
	db.Model(&models.Transaction{}).Count(&txnCount)
	assert.Zero(t, txnCount)
}

func TestCheckoutCapturesPriceAtOrderTime(t *testing.T) {
	db, r := setupTest(t)

	buyer := createUser(t, db, "buyer1", models.RoleBuyer)
	seller := createUser(t, db, "seller1", models.RoleSeller)
	product := createProduct(t, db, "Product A", 10, &seller.ID)
	addCartRow(t, db, buyer.ID, product.ID, 1)

	w := doJSON(r, http.MethodPost, "/order", tokenFor(t, buyer), checkoutBody("card"))
	require.Equal(t, http.StatusCreated, w.Code)

	// a later price change must not affect the stored order
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", product.ID).Update("price", 99).Error)

	var item models.OrderItem
	require.NoError(t, db.First(&item).Error)
	assert.Equal(t, 10.0, item.Price)

	var order models.Order
	require.NoError(t, db.First(&order).Error)
	assert.Equal(t, 10.0, order.TotalPrice)
}

func TestCheckoutSkipsProductsWithoutSeller(t *testing.T) {
	db, r := setupTest(t)

	buyer := createUser(t, db, "buyer1", models.RoleBuyer)
	seller := createUser(t, db, "seller1", models.RoleSeller)
	withSeller := createProduct(t, db, "Product A", 10, &seller.ID)
	orphan := createProduct(t, db, "Orphan", 7, nil)
	addCartRow(t, db, buyer.ID, withSeller.ID, 1)
	addCartRow(t, db, buyer.ID, orphan.ID, 1)

	w := doJSON(r, http.MethodPost, "/order", tokenFor(t, buyer), checkoutBody("card"))
	require.Equal(t, http.StatusCreated, w.Code)

	var orders []models.Order
	require.NoError(t, db.Preload("Items").Find(&orders).Error)
	require.Len(t, orders, 1)
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, withSeller.ID, orders[0].Items[0].ProductID)
}

func TestCheckoutEmptyCart(t *testing.T) {
	db, r := setupTest(t)
	buyer := createUser(t, db, "buyer1", models.RoleBuyer)

	w := doJSON(r, http.MethodPost, "/order", tokenFor(t, buyer), checkoutBody("cod"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckoutOnlySellerlessItems(t *testing.T) {
	db, r := setupTest(t)
	buyer := createUser(t, db, "buyer1", models.RoleBuyer)
	orphan := createProduct(t, db, "Orphan", 7, nil)
	addCartRow(t, db, buyer.ID, orphan.ID, 1)

	w := doJSON(r, http.MethodPost, "/order", tokenFor(t, buyer), checkoutBody("cod"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCancelOrderOnlyFromPending(t *testing.T) {
	db, r := setupTest(t)
	buyer := createUser(t, db, "buyer1", models.RoleBuyer)
	token := tokenFor(t, buyer)

	pending := models.Order{UserID: buyer.ID, OrderRef: "ref-1", TotalPrice: 10, Status: models.OrderStatusPending, CreatedAt: time.Now()}
	shipped := models.Order{UserID: buyer.ID, OrderRef: "ref-2", TotalPrice: 10, Status: models.OrderStatusShipped, CreatedAt: time.Now()}
	require.NoError(t, db.Create(&pending).Error)
	require.NoError(t, db.Create(&shipped).Error)

	w := doJSON(r, http.MethodPut, orderPath(pending.ID, "cancel"), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var fresh models.Order
	require.NoError(t, db.First(&fresh, pending.ID).Error)
	assert.Equal(t, models.OrderStatusCancelled, fresh.Status)

	w = doJSON(r, http.MethodPut, orderPath(shipped.ID, "cancel"), token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	fresh = models.Order{}
	require.NoError(t, db.First(&fresh, shipped.ID).Error)
	assert.Equal(t, models.OrderStatusShipped, fresh.Status, "rejected cancel must not change state")
}

func TestConfirmDeliveryOnlyFromShipped(t *testing.T) {
	db, r := setupTest(t)
	buyer := createUser(t, db, "buyer1", models.RoleBuyer)
	token := tokenFor(t, buyer)

	shipped := models.Order{UserID: buyer.ID, OrderRef: "ref-1", TotalPrice: 10, Status: models.OrderStatusShipped, CreatedAt: time.Now()}
	processing := models.Order{UserID: buyer.ID, OrderRef: "ref-2", TotalPrice: 10, Status: models.OrderStatusProcessing, CreatedAt: time.Now()}
	require.NoError(t, db.Create(&shipped).Error)
	require.NoError(t, db.Create(&processing).Error)

	w := doJSON(r, http.MethodPut, orderPath(shipped.ID, "deliver"), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var fresh models.Order
	require.NoError(t, db.First(&fresh, shipped.ID).Error)
	assert.Equal(t, models.OrderStatusDelivered, fresh.Status)

	w = doJSON(r, http.MethodPut, orderPath(processing.ID, "deliver"), token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCancelSomeoneElsesOrder(t *testing.T) {
	db, r := setupTest(t)
	owner := createUser(t, db, "owner", models.RoleBuyer)
	other := createUser(t, db, "other", models.RoleBuyer)

	order := models.Order{UserID: owner.ID, OrderRef: "ref-1", TotalPrice: 10, Status: models.OrderStatusPending, CreatedAt: time.Now()}
	require.NoError(t, db.Create(&order).Error)

	w := doJSON(r, http.MethodPut, orderPath(order.ID, "cancel"), tokenFor(t, other), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetMyOrdersStatusFilter(t *testing.T) {
	db, r := setupTest(t)
	buyer := createUser(t, db, "buyer1", models.RoleBuyer)
	token := tokenFor(t, buyer)

	require.NoError(t, db.Create(&models.Order{UserID: buyer.ID, OrderRef: "ref-1", Status: models.OrderStatusPending, CreatedAt: time.Now()}).Error)
	require.NoError(t, db.Create(&models.Order{UserID: buyer.ID, OrderRef: "ref-2", Status: models.OrderStatusDelivered, CreatedAt: time.Now()}).Error)

	w := doJSON(r, http.MethodGet, "/order/my?status=Delivered", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var views []orderView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
	require.Len(t, views, 1)
	assert.Equal(t, models.OrderStatusDelivered, views[0].Status)
}

func TestOrderEndpointsRequireBuyerRole(t *testing.T) {
	db, r := setupTest(t)
	seller := createUser(t, db, "seller1", models.RoleSeller)

	w := doJSON(r, http.MethodPost, "/order", tokenFor(t, seller), checkoutBody("cod"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(r, http.MethodPost, "/order", "", checkoutBody("cod"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func orderPath(id uint, action string) string {
	return "/order/" + strconv.FormatUint(uint64(id), 10) + "/" + action
}
