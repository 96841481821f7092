package domain

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Principal is the authenticated caller supplied by the session layer.
type Principal struct {
	ID   int64  `json:"id"`
	Role string `json:"role"`
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
