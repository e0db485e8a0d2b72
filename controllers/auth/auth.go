package authControllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/SuleimanKh97/TestMasterPeace/auth"
	"github.com/SuleimanKh97/TestMasterPeace/middleware"
	"github.com/SuleimanKh97/TestMasterPeace/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required"`
}

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileInput struct {
	NewUsername  *string `json:"new_username"`
	NewEmail     *string `json:"new_email"`
	ProfileImage *string `json:"profile_image"`
	Phone        *string `json:"phone"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

// POST /auth/register
func Register(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RegisterInput
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

		c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "user_id": user.ID})
	}
}

// POST /auth/login
func Login(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var user models.User
		if err := db.Where("username = ?", input.Username).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		if !auth.VerifyPassword(input.Password, user.Password) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		token, err := auth.IssueToken(&user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token":    token,
			"user_id":  user.ID,
			"username": user.Username,
			"role":     user.Role,
		})
	}
}

// GET /auth/me
func GetCurrentUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		var orderCount int64
		if err := db.Model(&models.Order{}).Where("user_id = ?", userID).Count(&orderCount).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count orders"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"id":          user.ID,
			"username":    user.Username,
			"email":       user.Email,
			"role":        user.Role,
			"profile_img": user.ProfileImg,
			"phone":       user.Phone,
			"created_at":  user.CreatedAt,
			"order_count": orderCount,
		})
	}
}

// PUT /auth/profile
func UpdateProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		var input UpdateProfileInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		changed := false
		if input.NewUsername != nil && *input.NewUsername != user.Username {
			if taken, err := identityTaken(db, user.ID, "username", *input.NewUsername); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check username"})
				return
			} else if taken {
				c.JSON(http.StatusConflict, gin.H{"error": "Username is already taken"})
				return
			}
			user.Username = *input.NewUsername
			changed = true
		}
		if input.NewEmail != nil && *input.NewEmail != user.Email {
			if taken, err := identityTaken(db, user.ID, "email", *input.NewEmail); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check email"})
				return
			} else if taken {
				c.JSON(http.StatusConflict, gin.H{"error": "Email is already taken"})
				return
			}
			user.Email = *input.NewEmail
			changed = true
		}
		if input.ProfileImage != nil && *input.ProfileImage != user.ProfileImg {
			user.ProfileImg = *input.ProfileImage
			changed = true
		}
		if input.Phone != nil && *input.Phone != user.Phone {
			user.Phone = *input.Phone
			changed = true
		}

		if !changed {
			c.JSON(http.StatusOK, gin.H{"message": "No changes detected"})
			return
		}

		if err := db.Save(&user).Error; err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Username or email already exists"})
			return
		}

		// Claims changed, so the old token no longer reflects the user.
		token, err := auth.IssueToken(&user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Profile updated successfully",
			"token":   token,
			"user": gin.H{
				"id":          user.ID,
				"username":    user.Username,
				"email":       user.Email,
				"role":        user.Role,
				"profile_img": user.ProfileImg,
			},
		})
	}
}

// PUT /auth/password
func ChangePassword(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input ChangePasswordInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		if !auth.VerifyPassword(input.CurrentPassword, user.Password) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Current password is incorrect"})
			return
		}

		hash, err := auth.HashPassword(input.NewPassword)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		if err := db.Model(&user).Update("password", hash).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
	}
}

func identityTaken(db *gorm.DB, selfID uint, column, value string) (bool, error) {
	var existing models.User
	err := db.Where(column+" = ? AND id <> ?", value, selfID).First(&existing).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}
