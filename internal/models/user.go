package models

// Role values carried in the JWT and checked by route guards.
const (
	RoleAdmin    = "admin"
	RoleCourier  = "kurir"
	RoleCustomer = "pengguna"
)

// Account status values.
const (
	UserActive   = "aktif"
	UserInactive = "nonaktif"
)

// User is an account in one of the three portals (customer, admin, courier).
type User struct {
	BaseModel
	Name         string `json:"name"`
	Email        string `gorm:"uniqueIndex" json:"email"`
	PasswordHash string `json:"-"`
	Role         string `gorm:"default:pengguna" json:"role"`
	Address      string `json:"address"`
	Phone        string `json:"phone"`
	Status       string `gorm:"default:aktif" json:"status"`
}

// ValidRole reports whether role is one of the known role literals.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleCourier, RoleCustomer:
		return true
	}
	return false
}
