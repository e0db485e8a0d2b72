package authControllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

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
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Order{}))

	r := gin.New()
	group := r.Group("/auth")
	{
		group.POST("/register", Register(db))
		group.POST("/login", Login(db))

		protected := group.Group("")
		protected.Use(middleware.ValidateToken)
		{
			protected.GET("/me", GetCurrentUser(db))
			protected.PUT("/profile", UpdateProfile(db))
			protected.PUT("/password", ChangePassword(db))
		}
	}
	return db, r
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

func registerBody(username, email string) gin.H {
	return gin.H{"username": username, "email": email, "password": "secret123", "role": "buyer"}
}

func TestRegisterAndLogin(t *testing.T) {
	_, r := setupTest(t)

	w := doJSON(r, http.MethodPost, "/auth/register", "", registerBody("alice", "alice@example.com"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(r, http.MethodPost, "/auth/login", "", gin.H{"username": "alice", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["token"])
	assert.Equal(t, "buyer", resp["role"])
}

func TestRegisterDuplicateUsername(t *testing.T) {
	_, r := setupTest(t)

	require.Equal(t, http.StatusCreated, doJSON(r, http.MethodPost, "/auth/register", "", registerBody("alice", "alice@example.com")).Code)

	w := doJSON(r, http.MethodPost, "/auth/register", "", registerBody("alice", "other@example.com"))
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(r, http.MethodPost, "/auth/register", "", registerBody("bob", "alice@example.com"))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	_, r := setupTest(t)

	body := gin.H{"username": "eve", "email": "eve@example.com", "password": "secret123", "role": "superadmin"}
	w := doJSON(r, http.MethodPost, "/auth/register", "", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body["role"] = "banned"
	w = doJSON(r, http.MethodPost, "/auth/register", "", body)
	assert.Equal(t, http.StatusBadRequest, w.Code, "banned is not self-assignable")
}

func TestLoginWrongPassword(t *testing.T) {
	_, r := setupTest(t)
	require.Equal(t, http.StatusCreated, doJSON(r, http.MethodPost, "/auth/register", "", registerBody("alice", "alice@example.com")).Code)

	w := doJSON(r, http.MethodPost, "/auth/login", "", gin.H{"username": "alice", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodPost, "/auth/login", "", gin.H{"username": "nobody", "password": "secret123"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPasswordStoredAsUniqueDigest(t *testing.T) {
	db, r := setupTest(t)
	require.Equal(t, http.StatusCreated, doJSON(r, http.MethodPost, "/auth/register", "", registerBody("alice", "alice@example.com")).Code)
	require.Equal(t, http.StatusCreated, doJSON(r, http.MethodPost, "/auth/register", "", registerBody("bob", "bob@example.com")).Code)

	var users []models.User
	require.NoError(t, db.Find(&users).Error)
	require.Len(t, users, 2)
	assert.NotEqual(t, users[0].Password, users[1].Password, "same password must not hash identically")
	assert.NotEqual(t, "secret123", users[0].Password)
}

func TestUpdateProfileReissuesToken(t *testing.T) {
	db, r := setupTest(t)
	require.Equal(t, http.StatusCreated, doJSON(r, http.MethodPost, "/auth/register", "", registerBody("alice", "alice@example.com")).Code)

	var user models.User
	require.NoError(t, db.Where("username = ?", "alice").First(&user).Error)
	token, err := auth.IssueToken(&user)
	require.NoError(t, err)

	w := doJSON(r, http.MethodPut, "/auth/profile", token, gin.H{"new_username": "alice2"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	newToken, _ := resp["token"].(string)
	require.NotEmpty(t, newToken)

	claims, err := auth.ParseToken(newToken)
	require.NoError(t, err)
	assert.Equal(t, "alice2", claims.Username)
}

func TestUpdateProfileUsernameConflict(t *testing.T) {
	db, r := setupTest(t)
	require.Equal(t, http.StatusCreated, doJSON(r, http.MethodPost, "/auth/register", "", registerBody("alice", "alice@example.com")).Code)
	require.Equal(t, http.StatusCreated, doJSON(r, http.MethodPost, "/auth/register", "", registerBody("bob", "bob@example.com")).Code)

	var user models.User
	require.NoError(t, db.Where("username = ?", "alice").First(&user).Error)
	token, err := auth.IssueToken(&user)
	require.NoError(t, err)

	w := doJSON(r, http.MethodPut, "/auth/profile", token, gin.H{"new_username": "bob"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetCurrentUserCountsOrders(t *testing.T) {
	db, r := setupTest(t)
	require.Equal(t, http.StatusCreated, doJSON(r, http.MethodPost, "/auth/register", "", registerBody("alice", "alice@example.com")).Code)

	var user models.User
	require.NoError(t, db.Where("username = ?", "alice").First(&user).Error)
	token, err := auth.IssueToken(&user)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		order := models.Order{UserID: user.ID, OrderRef: fmt.Sprintf("ORD-%d", i), Status: models.OrderStatusPending, TotalPrice: 10}
		require.NoError(t, db.Create(&order).Error)
	}

	w := doJSON(r, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.EqualValues(t, 2, resp["order_count"])

	// A failing count query surfaces as a server error, not a silent zero.
	require.NoError(t, db.Migrator().DropTable(&models.Order{}))
	w = doJSON(r, http.MethodGet, "/auth/me", token, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestChangePasswordRequiresCurrent(t *testing.T) {
	db, r := setupTest(t)
	require.Equal(t, http.StatusCreated, doJSON(r, http.MethodPost, "/auth/register", "", registerBody("alice", "alice@example.com")).Code)

	var user models.User
	require.NoError(t, db.Where("username = ?", "alice").First(&user).Error)
	token, err := auth.IssueToken(&user)
	require.NoError(t, err)

	w := doJSON(r, http.MethodPut, "/auth/password", token, gin.H{"current_password": "wrong", "new_password": "newsecret"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodPut, "/auth/password", token, gin.H{"current_password": "secret123", "new_password": "newsecret"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPost, "/auth/login", "", gin.H{"username": "alice", "password": "newsecret"})
	assert.Equal(t, http.StatusOK, w.Code)
}
