package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/emilythestrangee/restaurant-reviews/backend/internal/engine"
	"github.com/emilythestrangee/restaurant-reviews/backend/internal/models"
)

// RestaurantHandler exposes the read-only restaurant surface; mutations flow
// exclusively through the rating ledger.
type RestaurantHandler struct {
	store *engine.Store[models.Restaurant, models.Restaurant]
}

func NewRestaurantHandler(db *gorm.DB, pageLimit int) *RestaurantHandler {
	store := engine.NewStore(db, engine.Config[models.Restaurant, models.Restaurant]{
		Table:      "restaurants",
		Searchable: []string{"name", "category", "address"},
		PageLimit:  pageLimit,
	})
	return &RestaurantHandler{store: store}
}

// GetRestaurants returns a page of restaurants; `like` searches name,
// category and address.
func (h *RestaurantHandler) GetRestaurants(c *gin.Context) {
	caller, _ := extractUserID(c)

	items, meta, err := h.store.List(c.Request.Context(), c.Request.URL.Query(), caller)
	if err != nil {
		writeError(c, err)
		return
	}
	writePage(c, items, meta)
}

func (h *RestaurantHandler) GetRestaurant(c *gin.Context) {
	caller, _ := extractUserID(c)

	item, err := h.store.GetByID(c.Request.Context(), c.Param("id"), caller)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}
