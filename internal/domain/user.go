package domain

type ContextKey string

const UserContextKey ContextKey = "user"

// User is the authenticated identity extracted from the access token. Sessions are issued
// elsewhere; this service only reads the claims.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
