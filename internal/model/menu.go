package model

import "time"

// Response reaction types. These are the only values accepted by the
// responses table.
const (
	ResponseNah        = "Nah"
	ResponseInterested = "Interested"
	ResponseCraving    = "Craving"
)

type MenuItem struct {
	ID        string     `json:"id"`
	FamilyID  string     `json:"family_id"`
	Title     string     `json:"title"`
	CreatedBy int64      `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	Recipes   []Recipe   `json:"recipes"`
	Responses []Response `json:"responses"`
}

// Recipe is a value object nested in a menu item, addressed by its position
// in the ordered list.
type Recipe struct {
	Position   int    `json:"position"`
	Title      string `json:"title"`
	ImageURL   string `json:"image_url,omitempty"`
	RecipeLink string `json:"recipe_link,omitempty"`
	OrderLink  string `json:"order_link,omitempty"`
}

// Response is one user's timestamped reaction to a menu item. History
// accumulates: a user may have many responses on the same item, and the
// entry with the greatest CreatedAt is their current stance.
type Response struct {
	ID           int64     `json:"id"`
	ItemID       string    `json:"item_id"`
	UserID       int64     `json:"user_id"`
	Type         string    `json:"type"`
	UserName     string    `json:"user_name"`
	UserPhotoURL string    `json:"user_photo_url"`
	CreatedAt    time.Time `json:"created_at"`
}
