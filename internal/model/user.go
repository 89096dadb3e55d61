package model

// Roles carried in the JWT "role" claim.  The service only reads identity;
// account management lives in an external auth collaborator.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the minimal authenticated identity the booking core consumes.
type User struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

// IsAdmin reports whether the user holds the administrator role.
// Administrator accounts are blocked from purchasing tickets by policy.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }
