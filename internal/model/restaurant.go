package model

import "time"

// Restaurant is a named takeout option holding a list of menu item IDs.
type Restaurant struct {
	ID          string    `json:"id"`
	FamilyID    string    `json:"family_id"`
	Name        string    `json:"name"`
	MenuItemIDs []string  `json:"menu_item_ids"`
	CreatedAt   time.Time `json:"created_at"`
}
