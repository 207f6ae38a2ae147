package domain

import "time"

// IncidentStatus mirrors the backend's incident status enum.
type IncidentStatus string

const (
	StatusOpen       IncidentStatus = "abierta"
	StatusInProgress IncidentStatus = "en_progreso"
	StatusClosed     IncidentStatus = "cerrada"
)

func (s IncidentStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusClosed:
		return true
	}
	return false
}

// User is a registered account as returned by the users resource.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NewUser is the registration payload.
type NewUser struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Incident is a reported incident. Owner is only populated by the
// gateway's detailed listing.
type Incident struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Status      IncidentStatus `json:"status"`
	UserID      int64          `json:"user_id"`
	CreatedAt   time.Time      `json:"created_at"`
	Owner       *User          `json:"owner,omitempty"`
}

// NewIncident is the creation payload.
type NewIncident struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	UserID      int64          `json:"user_id"`
	Status      IncidentStatus `json:"status,omitempty"`
}

// IncidentPatch is a partial update; nil fields are left untouched.
type IncidentPatch struct {
	Title       *string         `json:"title,omitempty"`
	Description *string         `json:"description,omitempty"`
	Status      *IncidentStatus `json:"status,omitempty"`
	UserID      *int64          `json:"user_id,omitempty"`
}

// TokenPair is the body returned by the login and refresh endpoints.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
}
