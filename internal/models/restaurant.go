package models

import "time"

// Restaurant exists only while posts reference it: the rating ledger upserts
// it on the first post and deletes it when its rating count drops to zero.
// The id is supplied by the caller (an external place identifier), not
// generated.
type Restaurant struct {
	ID          string  `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"not null" json:"name"`
	Category    string  `json:"category"`
	Address     string  `gorm:"not null" json:"address"`
	PriceTypes  string  `gorm:"not null" json:"priceTypes"`
	Rating      float64 `gorm:"not null" json:"rating"`
	RatingCount int     `gorm:"not null" json:"ratingCount"`

	CreatedAt time.Time `json:"createdAt"`
}

func (r Restaurant) PrimaryKey() any { return r.ID }

func (r Restaurant) CreationTime() time.Time { return r.CreatedAt }

// RestaurantInput is the caller-supplied restaurant attribute set sent with a
// post creation. Empty fields fall back to the stored values during the
// ledger merge.
type RestaurantInput struct {
	Name       string `json:"name"`
	Category   string `json:"category"`
	Address    string `json:"address"`
	PriceTypes string `json:"priceTypes"`
}
