package model

import "time"

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PhotoURL     string    `json:"photo_url"`
	PasswordHash string    `json:"-"`
	// CurrentFamilyID is the family the user is acting in. Nil until the
	// user creates or joins their first family.
	CurrentFamilyID *string   `json:"current_family_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
