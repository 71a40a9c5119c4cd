package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/emilythestrangee/restaurant-reviews/backend/internal/config"
	"github.com/emilythestrangee/restaurant-reviews/backend/internal/engine"
	"github.com/emilythestrangee/restaurant-reviews/backend/internal/ratings"
)

// Handler combines all handler types
type Handler struct {
	Auth       *AuthHandler
	User       *UserHandler
	Post       *PostHandler
	Comment    *CommentHandler
	Like       *LikeHandler
	Restaurant *RestaurantHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(db *gorm.DB, cfg *config.Config) *Handler {
	ledger := ratings.NewLedger(db)
	userStore := newUserStore(db, cfg.PageLimit)

	return &Handler{
		Auth:       NewAuthHandler(db, cfg, userStore),
		User:       NewUserHandler(db, userStore),
		Post:       NewPostHandler(db, ledger, cfg.PageLimit),
		Comment:    NewCommentHandler(db, cfg.PageLimit),
		Like:       NewLikeHandler(db),
		Restaurant: NewRestaurantHandler(db, cfg.PageLimit),
	}
}

func extractUserID(c *gin.Context) (int, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	switch v := raw.(type) {
	case int:
		return v, true
	case uint:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// writeError maps the engine error taxonomy onto responses: not-found (and
// ownership misses) as 404 plain text, everything else as 400 with a message.
func writeError(c *gin.Context, err error) {
	if errors.Is(err, engine.ErrNotFound) {
		c.String(http.StatusNotFound, "not found")
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
}

// writePage renders the uniform list response: the page plus the next-window
// cursors.
func writePage[V any](c *gin.Context, items []V, meta engine.PageMeta) {
	if items == nil {
		items = []V{}
	}
	c.JSON(http.StatusOK, gin.H{"min": meta.Min, "max": meta.Max, "data": items})
}
