package models

type Role string

const (
	RoleClient  Role = "client"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// RoleSet holds the elevated grants of a caller. Client is implied for every
// authenticated caller; manager and admin are independent of each other.
type RoleSet struct {
	Manager bool `json:"is_manager"`
	Admin   bool `json:"is_admin"`
}

func (s RoleSet) Has(role Role) bool {
	switch role {
	case RoleClient:
		return true
	case RoleManager:
		return s.Manager
	case RoleAdmin:
		return s.Admin
	default:
		return false
	}
}

func (s RoleSet) Roles() []Role {
	roles := []Role{RoleClient}
	if s.Manager {
		roles = append(roles, RoleManager)
	}
	if s.Admin {
		roles = append(roles, RoleAdmin)
	}
	return roles
}

// Caller is the identity a request acts as. It is resolved by the transport
// layer and passed explicitly into every service operation.
type Caller struct {
	UserID   int64
	Username string
	Roles    RoleSet
	// Service is set for machine clients (API keys) that act without a user.
	Service string
}

// ServiceCaller builds a caller for an API-key client.
func ServiceCaller(name string) *Caller {
	if name == "" {
		name = "service"
	}
	return &Caller{Service: name}
}

func (c *Caller) Authenticated() bool {
	return c != nil && (c.UserID > 0 || c.Service != "")
}

// IsUser reports whether the caller is an end user who can own bookings.
func (c *Caller) IsUser() bool {
	return c != nil && c.UserID > 0
}

func (c *Caller) HasAny(roles ...Role) bool {
	if !c.Authenticated() {
		return false
	}
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if c.Roles.Has(r) {
			return true
		}
	}
	return false
}
