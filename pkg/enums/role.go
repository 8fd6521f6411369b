package enums

import "fmt"

// Role is the pricing tier attached to an account. It selects which
// discount/GST/price override fields apply when a variant is priced.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleStockist Role = "stockist"
	RoleReseller Role = "reseller"
	RoleAdmin    Role = "admin"
)

var validRoles = []Role{
	RoleCustomer,
	RoleStockist,
	RoleReseller,
	RoleAdmin,
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// Normalize maps unknown role values onto the customer tier. Pricing
// lookups never reject a role; they fall back instead.
func (r Role) Normalize() Role {
	if r.IsValid() {
		return r
	}
	return RoleCustomer
}

// ParseRole converts raw input into a Role.
func ParseRole(value string) (Role, error) {
	for _, candidate := range validRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}
