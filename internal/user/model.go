package user

import "time"

// Roles. The upstream identity provider asserts one of these per request and
// the service trusts it as-is.
const (
	RoleAdmin    = "ADMIN"
	RoleKitchen  = "KITCHEN"
	RoleCustomer = "CUSTOMER"
)

func ValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleKitchen, RoleCustomer:
		return true
	}
	return false
}

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	PhoneNumber  string    `json:"phone_number,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) IsStaff() bool {
	return u.Role == RoleAdmin || u.Role == RoleKitchen
}
