package paymentControllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
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
		&models.User{}, &models.Product{}, &models.Cart{},
		&models.Order{}, &models.OrderItem{}, &models.Transaction{},
	))

	r := gin.New()
	group := r.Group("/payment")
	group.Use(middleware.ValidateToken, middleware.RequireRoles(models.RoleBuyer))
	{
		group.POST("/initiate", InitiateSimulation(db))
		group.POST("/confirm", ConfirmSimulation(db))
	}
	return db, r
}

type fixture struct {
	buyer   models.User
	token   string
	order   models.Order
	product models.Product
}

// a pending order with one item, plus a leftover cart row for the same buyer
func newPendingOrder(t *testing.T, db *gorm.DB) fixture {
	t.Helper()

	buyer := models.User{Username: "buyer1", Email: "buyer1@example.com", Password: "x", Role: models.RoleBuyer, CreatedAt: time.Now()}
	require.NoError(t, db.Create(&buyer).Error)

	seller := models.User{Username: "seller1", Email: "seller1@example.com", Password: "x", Role: models.RoleSeller, CreatedAt: time.Now()}
	require.NoError(t, db.Create(&seller).Error)

	product := models.Product{Name: "Product A", Price: 25, SellerID: &seller.ID, CreatedAt: time.Now()}
	require.NoError(t, db.Create(&product).Error)

	order := models.Order{
		UserID:     buyer.ID,
		OrderRef:   "ref-1",
		TotalPrice: 50,
		Status:     models.OrderStatusPending,
		Items:      []models.OrderItem{{ProductID: product.ID, Quantity: 2, Price: 25}},
		CreatedAt:  time.Now(),
	}
	require.NoError(t, db.Create(&order).Error)
	require.NoError(t, db.Create(&models.Cart{UserID: buyer.ID, ProductID: product.ID, Quantity: 2}).Error)

	token, err := auth.IssueToken(&buyer)
	require.NoError(t, err)

	return fixture{buyer: buyer, token: token, order: order, product: product}
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

func TestInitiateReturnsSimulationURL(t *testing.T) {
	db, r := setupTest(t)
	fx := newPendingOrder(t, db)

	w := doJSON(r, http.MethodPost, "/payment/initiate", fx.token, gin.H{"order_id": fx.order.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["simulation_url"], "orderId=")
	assert.Contains(t, resp["simulation_url"], "amount=50.00")
}

func TestInitiateRejectsNonPendingOrder(t *testing.T) {
	db, r := setupTest(t)
	fx := newPendingOrder(t, db)
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", fx.order.ID).
		Update("status", models.OrderStatusProcessing).Error)

	w := doJSON(r, http.MethodPost, "/payment/initiate", fx.token, gin.H{"order_id": fx.order.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConfirmSuccess(t *testing.T) {
	db, r := setupTest(t)
	fx := newPendingOrder(t, db)

	w := doJSON(r, http.MethodPost, "/payment/confirm", fx.token,
		gin.H{"order_id": fx.order.ID, "success": true, "payment_method": "card"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var order models.Order
	require.NoError(t, db.First(&order, fx.order.ID).Error)
	assert.Equal(t, models.OrderStatusProcessing, order.Status)

	var txn models.Transaction
	require.NoError(t, db.Where("order_id = ?", fx.order.ID).First(&txn).Error)
	assert.Equal(t, "card", txn.PaymentMethod)
	assert.Equal(t, 50.0, txn.Amount)

	var product models.Product
	require.NoError(t, db.First(&product, fx.product.ID).Error)
	assert.True(t, product.IsSold)

	var cartCount int64
	db.Model(&models.Cart{}).Where("user_id = ?", fx.buyer.ID).Count(&cartCount)
	assert.Zero(t, cartCount, "buyer cart cleared on confirmation")
}

func TestConfirmFailure(t *testing.T) {
	db, r := setupTest(t)
	fx := newPendingOrder(t, db)

	w := doJSON(r, http.MethodPost, "/payment/confirm", fx.token,
		gin.H{"order_id": fx.order.ID, "success": false})
	require.Equal(t, http.StatusOK, w.Code)

	var order models.Order
	require.NoError(t, db.First(&order, fx.order.ID).Error)
	assert.Equal(t, models.OrderStatusPaymentFailed, order.Status)

	var txnCount int64
	db.Model(&models.Transaction{}).Count(&txnCount)
	assert.Zero(t, txnCount, "no transaction row on failure")

	var product models.Product
	require.NoError(t, db.First(&product, fx.product.ID).Error)
	assert.False(t, product.IsSold)

	var cartCount int64
	db.Model(&models.Cart{}).Where("user_id = ?", fx.buyer.ID).Count(&cartCount)
	assert.EqualValues(t, 1, cartCount, "cart untouched on failure")
}

func TestConfirmRejectsNonPendingOrder(t *testing.T) {
	db, r := setupTest(t)
	fx := newPendingOrder(t, db)
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", fx.order.ID).
		Update("status", models.OrderStatusCancelled).Error)

	w := doJSON(r, http.MethodPost, "/payment/confirm", fx.token,
		gin.H{"order_id": fx.order.ID, "success": true})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var order models.Order
	require.NoError(t, db.First(&order, fx.order.ID).Error)
	assert.Equal(t, models.OrderStatusCancelled, order.Status, "no state change on rejection")
}

func TestConfirmSomeoneElsesOrder(t *testing.T) {
	db, r := setupTest(t)
	fx := newPendingOrder(t, db)

	other := models.User{Username: "other", Email: "other@example.com", Password: "x", Role: models.RoleBuyer, CreatedAt: time.Now()}
	require.NoError(t, db.Create(&other).Error)
	otherToken, err := auth.IssueToken(&other)
	require.NoError(t, err)

	w := doJSON(r, http.MethodPost, "/payment/confirm", otherToken,
		gin.H{"order_id": fx.order.ID, "success": true})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
