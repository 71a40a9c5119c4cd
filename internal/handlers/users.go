package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/emilythestrangee/restaurant-reviews/backend/internal/engine"
	"github.com/emilythestrangee/restaurant-reviews/backend/internal/models"
)

type UserHandler struct {
	db    *gorm.DB
	store *engine.Store[models.User, models.User]
}

// newUserStore is shared with the auth handler, which creates users at
// registration through the same engine path.
func newUserStore(db *gorm.DB, pageLimit int) *engine.Store[models.User, models.User] {
	return engine.NewStore(db, engine.Config[models.User, models.User]{
		Table: "users",
		Filters: []engine.FilterField{
			{Param: "username", Column: "username"},
			{Param: "email", Column: "email"},
		},
		Updatable: []engine.UpdateField{
			{Param: "username", Column: "username"},
			{Param: "email", Column: "email"},
			{Param: "password", Column: "password"},
			{Param: "avatarUrl", Column: "avatar_url"},
		},
		PageLimit: pageLimit,
		// A user may only mutate themself.
		Restrict: func(tx *gorm.DB, caller int) *gorm.DB {
			return tx.Where("id = ?", caller)
		},
	})
}

func NewUserHandler(db *gorm.DB, store *engine.Store[models.User, models.User]) *UserHandler {
	return &UserHandler{db: db, store: store}
}

// GetUsers returns a page of users, filterable by username and email.
func (h *UserHandler) GetUsers(c *gin.Context) {
	caller, _ := extractUserID(c)

	items, meta, err := h.store.List(c.Request.Context(), c.Request.URL.Query(), caller)
	if err != nil {
		writeError(c, err)
		return
	}
	writePage(c, items, meta)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	caller, _ := extractUserID(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		writeError(c, fmt.Errorf("invalid user id"))
		return
	}

	item, err := h.store.GetByID(c.Request.Context(), id, caller)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// UpdateUser updates the caller's own profile; a supplied password is hashed
// before it reaches the store.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	caller, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		writeError(c, fmt.Errorf("invalid user id"))
		return
	}

	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if raw, ok := body["password"]; ok {
		password, isStr := raw.(string)
		if isStr && password != "" {
			hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "failed to hash password"})
				return
			}
			body["password"] = string(hashed)
		}
	}

	item, err := h.store.Update(c.Request.Context(), id, body, caller)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteUser deletes the caller's own account.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	caller, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		writeError(c, fmt.Errorf("invalid user id"))
		return
	}

	item, err := h.store.Delete(c.Request.Context(), id, caller)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}
