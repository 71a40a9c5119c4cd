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

type CommentHandler struct {
	db    *gorm.DB
	store *engine.Store[models.Comment, models.Comment]
}

func NewCommentHandler(db *gorm.DB, pageLimit int) *CommentHandler {
	store := engine.NewStore(db, engine.Config[models.Comment, models.Comment]{
		Table: "comments",
		Filters: []engine.FilterField{
			{Param: "sender", Column: "sender_id", Coerce: engine.CoerceInt},
			{Param: "postId", Column: "post_id", Coerce: engine.CoerceInt},
		},
		Updatable: []engine.UpdateField{
			{Param: "content", Column: "content"},
		},
		PageLimit: pageLimit,
		Preloads:  []string{"Sender"},
		Restrict: func(tx *gorm.DB, caller int) *gorm.DB {
			return tx.Where("sender_id = ?", caller)
		},
	})
	return &CommentHandler{db: db, store: store}
}

// GetComments returns a page of comments, filterable by sender and post.
func (h *CommentHandler) GetComments(c *gin.Context) {
	caller, _ := extractUserID(c)

	items, meta, err := h.store.List(c.Request.Context(), c.Request.URL.Query(), caller)
	if err != nil {
		writeError(c, err)
		return
	}
	writePage(c, items, meta)
}

func (h *CommentHandler) GetComment(c *gin.Context) {
	caller, _ := extractUserID(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		writeError(c, fmt.Errorf("invalid comment id"))
		return
	}

	item, err := h.store.GetByID(c.Request.Context(), id, caller)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// CreateComment creates a comment against an existing post. Post existence is
// checked at creation time only.
func (h *CommentHandler) CreateComment(c *gin.Context) {
	caller, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input models.CreateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
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

	comment := models.Comment{
		Content:  input.Content,
		SenderID: caller,
		PostID:   input.PostID,
	}

	item, err := h.store.Create(c.Request.Context(), &comment, caller)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// UpdateComment updates a comment (owner only)
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	caller, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		writeError(c, fmt.Errorf("invalid comment id"))
		return
	}

	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	item, err := h.store.Update(c.Request.Context(), id, body, caller)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteComment deletes a comment (owner only)
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	caller, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		writeError(c, fmt.Errorf("invalid comment id"))
		return
	}

	item, err := h.store.Delete(c.Request.Context(), id, caller)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}
