// Package user defines the identity entities shared by the auth bridge
// and the session token layer.
package user

import "time"

// Role names the authorization tiers carried in session tokens.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleEditor   Role = "editor"
	RoleAdmin    Role = "admin"
)

// Profile is the view of an authenticated customer carried in tokens and
// returned to the storefront. Profiles originate from the legacy backend;
// this service never stores credentials for customers.
type Profile struct {
	UserID    string `json:"userId"`
	FirstName string `json:"firstName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// Session is the per-browser identity tracked by the cart bridge. A
// session starts as a guest and may transition to an authenticated user
// and back; the bridge reacts only to actual identity changes.
type Session struct {
	SessionID    string    `json:"sessionId"`
	UserID       string    `json:"userId"` // empty while guest
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	LastAccessed time.Time `json:"lastAccessed"`
}

// IsGuest reports whether the session has no authenticated identity.
func (s *Session) IsGuest() bool {
	return s.UserID == ""
}
