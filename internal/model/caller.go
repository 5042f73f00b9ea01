package model

import "github.com/google/uuid"

// Caller is the authenticated identity attached to a request by the auth
// middleware. The service never holds session state; identity and role
// travel explicitly on every call.
type Caller struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Role     string    `json:"role"`
}

func (c *Caller) Moderator() bool {
	return c.Role == "mod" || c.Role == "admin"
}
