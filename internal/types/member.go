package types

import "time"

const TypeMember = "member"

// Member is the registered user document. Credits gate AI-assisted course
// generation; admins bypass credit consumption entirely.
type Member struct {
	ID             string      `json:"_id,omitempty"`
	Type           string      `json:"_type"`
	Rev            string      `json:"_rev,omitempty"`
	Name           string      `json:"name"`
	Email          string      `json:"email"`
	PasswordHash   string      `json:"passwordHash,omitempty"`
	Credits        int         `json:"credits"`
	IsAdmin        bool        `json:"isAdmin"`
	CreatedCourses []Reference `json:"createdCourses,omitempty"`
	CreatedAt      time.Time   `json:"_createdAt,omitempty"`
}
