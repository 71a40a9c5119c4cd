package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/emilythestrangee/restaurant-reviews/backend/internal/engine"
	"github.com/emilythestrangee/restaurant-reviews/backend/internal/models"
	"github.com/emilythestrangee/restaurant-reviews/backend/internal/ratings"
)

type PostHandler struct {
	db    *gorm.DB
	store *engine.Store[models.Post, models.PostView]
}

// postPipeline is the computed-field query for posts: one query producing the
// post row plus sender info, like/comment counts, and the per-caller isLiked
// flag. None of the computed columns are persisted.
func postPipeline(tx *gorm.DB, caller int) *gorm.DB {
	return tx.Table("posts").
		Select(`posts.*,
			users.username AS sender_username,
			users.avatar_url AS sender_avatar_url,
			(SELECT count(*) FROM likes WHERE likes.post_id = posts.id) AS likes_count,
			(SELECT count(*) FROM comments WHERE comments.post_id = posts.id) AS comments_count,
			EXISTS (SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) AS is_liked`, caller).
		Joins("LEFT JOIN users ON users.id = posts.sender_id")
}

func NewPostHandler(db *gorm.DB, ledger *ratings.Ledger, pageLimit int) *PostHandler {
	store := engine.NewStore(db, engine.Config[models.Post, models.PostView]{
		Table: "posts",
		Filters: []engine.FilterField{
			{Param: "sender", Column: "sender_id", Coerce: engine.CoerceInt},
			{Param: "restaurant", Column: "restaurant_id"},
		},
		Updatable: []engine.UpdateField{
			{Param: "content", Column: "content"},
			{Param: "rating", Column: "rating"},
			{Param: "imageUrl", Column: "image_url"},
		},
		PageLimit: pageLimit,
		Pipeline:  postPipeline,
		Restrict: func(tx *gorm.DB, caller int) *gorm.DB {
			return tx.Where("sender_id = ?", caller)
		},
		Hooks: engine.Hooks[models.Post]{
			PostCreate: func(ctx context.Context, caller int, p *models.Post) error {
				var input models.RestaurantInput
				if p.RestaurantInput != nil {
					input = *p.RestaurantInput
				}
				return ledger.AddRating(ctx, p, input)
			},
			PostUpdate: func(ctx context.Context, caller int, old, updated *models.Post) error {
				return ledger.RebalanceRating(ctx, updated.RestaurantID, old.Rating, updated.Rating)
			},
			PostDelete: func(ctx context.Context, caller int, p *models.Post) error {
				ledger.RemoveRating(ctx, p)
				return nil
			},
		},
	})
	return &PostHandler{db: db, store: store}
}

// GetPosts returns a page of posts, filterable by sender and restaurant.
func (h *PostHandler) GetPosts(c *gin.Context) {
	caller, _ := extractUserID(c)

	items, meta, err := h.store.List(c.Request.Context(), c.Request.URL.Query(), caller)
	if err != nil {
		writeError(c, err)
		return
	}
	writePage(c, items, meta)
}

// GetPost returns a single post by ID
func (h *PostHandler) GetPost(c *gin.Context) {
	caller, _ := extractUserID(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		writeError(c, fmt.Errorf("invalid post id"))
		return
	}

	item, err := h.store.GetByID(c.Request.Context(), id, caller)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// CreatePost creates a new post; the rating ledger upserts the referenced
// restaurant before the post is returned.
func (h *PostHandler) CreatePost(c *gin.Context) {
	caller, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input models.CreatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	post := models.Post{
		Content:         input.Post.Content,
		SenderID:        caller,
		RestaurantID:    input.Post.Restaurant,
		Rating:          input.Post.Rating,
		ImageURL:        input.Post.ImageURL,
		RestaurantInput: &input.Restaurant,
	}

	item, err := h.store.Create(c.Request.Context(), &post, caller)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// UpdatePost updates a post's content, rating or image (owner only).
func (h *PostHandler) UpdatePost(c *gin.Context) {
	caller, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		writeError(c, fmt.Errorf("invalid post id"))
		return
	}

	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if raw, ok := body["rating"]; ok {
		rating, isNum := raw.(float64)
		if !isNum || rating < 1 || rating > 5 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "rating must be between 1 and 5"})
			return
		}
	}

	item, err := h.store.Update(c.Request.Context(), id, body, caller)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeletePost deletes a post (owner only); the ledger withdraws its rating and
// cascades to the post's comments and likes.
func (h *PostHandler) DeletePost(c *gin.Context) {
	caller, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		writeError(c, fmt.Errorf("invalid post id"))
		return
	}

	item, err := h.store.Delete(c.Request.Context(), id, caller)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}
