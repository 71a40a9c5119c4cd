package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/emilythestrangee/restaurant-reviews/backend/internal/engine"
	"github.com/emilythestrangee/restaurant-reviews/backend/internal/models"
)

type LikeHandler struct {
	db    *gorm.DB
	store *engine.Store[models.Like, models.Like]
}

func NewLikeHandler(db *gorm.DB) *LikeHandler {
	store := engine.NewStore(db, engine.Config[models.Like, models.Like]{
		Table: "likes",
	})
	return &LikeHandler{db: db, store: store}
}

// CreateLike likes a post on behalf of the caller. The post must exist; a
// second like on the same post collides on the (user, post) unique key.
func (h *LikeHandler) CreateLike(c *gin.Context) {
	caller, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input models.CreateLikeRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if input.PostID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Post not found"})
		return
	}

	var count int64
	if err := h.db.Model(&models.Post{}).Where("id = ?", input.PostID).Count(&count).Error; err != nil {
		writeError(c, err)
		return
	}
	if count == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Post not found"})
		return
	}

	like := models.Like{
		UserID: caller,
		PostID: input.PostID,
	}

	item, err := h.store.Create(c.Request.Context(), &like, caller)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// DeleteLike removes the caller's like on a post. The target is keyed by the
// (post, user) pair, so a caller can only ever remove their own like.
func (h *LikeHandler) DeleteLike(c *gin.Context) {
	caller, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	postID, err := strconv.Atoi(c.Param("postId"))
	if err != nil {
		writeError(c, fmt.Errorf("invalid post id"))
		return
	}

	item, err := h.store.DeleteWhere(c.Request.Context(), map[string]any{
		"post_id": postID,
		"user_id": caller,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}
