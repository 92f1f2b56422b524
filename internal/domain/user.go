package domain

import "time"

type Role string

const (
	RoleViewer Role = "viewer"
	RoleStaff  Role = "staff"
	RoleAdmin  Role = "admin"
)

// HasPermission reports whether the role satisfies the minimum role.
func (r Role) HasPermission(min Role) bool {
	return roleRank(r) >= roleRank(min)
}

func roleRank(r Role) int {
	switch r {
	case RoleAdmin:
		return 2
	case RoleStaff:
		return 1
	case RoleViewer:
		return 0
	}
	return -1
}

// User is an admin-console account. The password hash never leaves
// the server.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
