package ratings

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emilythestrangee/restaurant-reviews/backend/internal/models"
)

// Ledger keeps a restaurant's running rating mean and sample count consistent
// with the posts that reference it. Every recompute is a single atomic
// statement against the restaurant row, so concurrent post mutations
// serialize there without a cross-record lock.
type Ledger struct {
	db *gorm.DB
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

var errRestaurantAttrs = errors.New("restaurant name, address and priceTypes are required")

// AddRating incorporates a new post's rating: it merges the caller-supplied
// restaurant attributes over the stored ones (stored values win when the
// caller omits a field), then upserts the restaurant applying count+1 and the
// incremental mean in one statement. A nonexistent restaurant starts from
// rating 0, count 0.
func (l *Ledger) AddRating(ctx context.Context, post *models.Post, input models.RestaurantInput) error {
	var existing models.Restaurant
	res := l.db.WithContext(ctx).Where("id = ?", post.RestaurantID).Limit(1).Find(&existing)
	if res.Error != nil {
		return res.Error
	}

	merged := input
	if res.RowsAffected > 0 {
		if merged.Name == "" {
			merged.Name = existing.Name
		}
		if merged.Category == "" {
			merged.Category = existing.Category
		}
		if merged.Address == "" {
			merged.Address = existing.Address
		}
		if merged.PriceTypes == "" {
			merged.PriceTypes = existing.PriceTypes
		}
	}
	if merged.Name == "" || merged.Address == "" || merged.PriceTypes == "" {
		return errRestaurantAttrs
	}

	restaurant := models.Restaurant{
		ID:          post.RestaurantID,
		Name:        merged.Name,
		Category:    merged.Category,
		Address:     merged.Address,
		PriceTypes:  merged.PriceTypes,
		Rating:      float64(post.Rating),
		RatingCount: 1,
	}

	// SET expressions evaluate against the pre-update row, so rating and
	// rating_count stay arithmetically consistent under concurrent upserts.
	return l.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"name":         merged.Name,
			"category":     merged.Category,
			"address":      merged.Address,
			"price_types":  merged.PriceTypes,
			"rating":       gorm.Expr("(restaurants.rating * restaurants.rating_count + ?) / (restaurants.rating_count + 1)", post.Rating),
			"rating_count": gorm.Expr("restaurants.rating_count + 1"),
		}),
	}).Create(&restaurant).Error
}

// RebalanceRating swaps one contributed rating for another after a post's
// rating field changed. The sample count is unchanged.
func (l *Ledger) RebalanceRating(ctx context.Context, restaurantID string, oldRating, newRating int) error {
	if oldRating == newRating {
		return nil
	}
	return l.db.WithContext(ctx).Model(&models.Restaurant{}).
		Where("id = ?", restaurantID).
		Update("rating", gorm.Expr("(rating * rating_count + ? - ?) / rating_count", newRating, oldRating)).
		Error
}

// RemoveRating withdraws a deleted post's contribution, deletes the
// restaurant once nothing references it, and cascades to the post's comments
// and likes. The post is already gone from the caller's perspective, so every
// step here is best-effort: failures are logged, never surfaced.
func (l *Ledger) RemoveRating(ctx context.Context, post *models.Post) {
	err := l.db.WithContext(ctx).Model(&models.Restaurant{}).
		Where("id = ?", post.RestaurantID).
		Updates(map[string]any{
			"rating":       gorm.Expr("CASE WHEN rating_count = 1 THEN 0 ELSE (rating * rating_count - ?) / (rating_count - 1) END", post.Rating),
			"rating_count": gorm.Expr("rating_count - 1"),
		}).Error
	if err != nil {
		log.Error().Err(err).Str("restaurant", post.RestaurantID).Msg("failed to withdraw rating")
	}

	err = l.db.WithContext(ctx).
		Where("id = ? AND rating_count = 0", post.RestaurantID).
		Delete(&models.Restaurant{}).Error
	if err != nil {
		log.Error().Err(err).Str("restaurant", post.RestaurantID).Msg("failed to delete unreferenced restaurant")
	}

	if err := l.db.WithContext(ctx).Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
		log.Error().Err(err).Int("post", post.ID).Msg("failed to cascade comments")
	}
	if err := l.db.WithContext(ctx).Where("post_id = ?", post.ID).Delete(&models.Like{}).Error; err != nil {
		log.Error().Err(err).Int("post", post.ID).Msg("failed to cascade likes")
	}
}
