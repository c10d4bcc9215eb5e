package model

import "time"

// Family is a shared group with its own menu catalog. The ID is a 6-character
// uppercase-alphanumeric join code. The join PIN is stored as a bcrypt hash.
type Family struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	PinHash    string    `json:"-"`
	CalendarID *string   `json:"calendar_id"`
	CreatedBy  int64     `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type FamilyMember struct {
	ID       int64     `json:"id"`
	FamilyID string    `json:"family_id"`
	UserID   int64     `json:"user_id"`
	IsAdmin  bool      `json:"is_admin"`
	JoinedAt time.Time `json:"joined_at"`
}

// FamilyMemberDetail is a member joined with the user's display fields,
// used by the family details view.
type FamilyMemberDetail struct {
	FamilyMember
	Name     string `json:"name"`
	Email    string `json:"email"`
	PhotoURL string `json:"photo_url"`
}

// FamilyDetails is a family merged with its full membership set.
type FamilyDetails struct {
	Family
	Members []FamilyMemberDetail `json:"members"`
}
