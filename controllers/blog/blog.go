package blogControllers

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

const summaryLength = 200

type BlogPostInput struct {
	Title       string `json:"title" binding:"required"`
	Content     string `json:"content" binding:"required"`
	ImageURL    string `json:"image_url"`
	IsPublished bool   `json:"is_published"`
}

type blogSummary struct {
	ID         uint      `json:"id"`
	Title      string    `json:"title"`
	Summary    string    `json:"summary"`
	ImageURL   string    `json:"image_url"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
}

// GET /blog lists published posts only, newest first.
func GetBlogPosts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		listPublished(c, db, 0)
	}
}

// GET /blog/latest/:count
func GetLatestBlogPosts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := strconv.Atoi(c.Param("count"))
		if err != nil || count <= 0 {
			count = 3
		}
		listPublished(c, db, count)
	}
}

func listPublished(c *gin.Context, db *gorm.DB, limit int) {
	query := db.Preload("Author").
		Where("is_published = ?", true).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var posts []models.BlogPost
	if err := query.Find(&posts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch blog posts"})
		return
	}

	summaries := make([]blogSummary, 0, len(posts))
	for _, post := range posts {
		summaries = append(summaries, blogSummary{
			ID:         post.ID,
			Title:      post.Title,
			Summary:    summarize(post.Content),
			ImageURL:   post.ImageURL,
			AuthorName: authorName(post),
			CreatedAt:  post.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, summaries)
}

// GET /blog/:id serves published posts only.
func GetBlogPostByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid blog post ID"})
			return
		}

		var post models.BlogPost
		err = db.Preload("Author").
			Where("id = ? AND is_published = ?", id, true).
			First(&post).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Blog post not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch blog post"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"id":          post.ID,
			"title":       post.Title,
			"content":     post.Content,
			"image_url":   post.ImageURL,
			"author_name": authorName(post),
			"created_at":  post.CreatedAt,
			"updated_at":  post.UpdatedAt,
		})
	}
}

// POST /blog (admin)
func CreateBlogPost(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		authorID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input BlogPostInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		post := models.BlogPost{
			Title:       input.Title,
			Content:     input.Content,
			ImageURL:    input.ImageURL,
			AuthorID:    &authorID,
			IsPublished: input.IsPublished,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}
		if err := db.Create(&post).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create blog post"})
			return
		}
		c.JSON(http.StatusCreated, post)
	}
}

// PUT /blog/:id (admin)
func UpdateBlogPost(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid blog post ID"})
			return
		}

		var post models.BlogPost
		if err := db.First(&post, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Blog post not found"})
			return
		}

		var input BlogPostInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		post.Title = input.Title
		post.Content = input.Content
		post.ImageURL = input.ImageURL
		post.IsPublished = input.IsPublished
		post.UpdatedAt = time.Now()

		if err := db.Save(&post).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update blog post"})
			return
		}
		c.JSON(http.StatusOK, post)
	}
}

// DELETE /blog/:id (admin)
func DeleteBlogPost(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid blog post ID"})
			return
		}

		result := db.Delete(&models.BlogPost{}, id)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete blog post"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Blog post not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Blog post deleted successfully"})
	}
}

// summarize truncates by characters, not bytes, so multi-byte content
// is never cut mid-rune.
func summarize(content string) string {
	runes := []rune(content)
	if len(runes) > summaryLength {
		return string(runes[:summaryLength]) + "..."
	}
	return content
}

func authorName(post models.BlogPost) string {
	if post.Author != nil {
		return post.Author.Username
	}
	return "Anonymous"
}
