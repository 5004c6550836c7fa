package workflow

import (
	"fmt"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin             Role = "admin"
	RoleOperations        Role = "operations"
	RoleOperationsManager Role = "operations-manager"
	RoleSales             Role = "sales"
	RoleSalesManager      Role = "sales-manager"
	RoleDriver            Role = "driver"
	RoleIT                Role = "it"
)

var AllRoles = []Role{
	RoleAdmin,
	RoleOperations,
	RoleOperationsManager,
	RoleSales,
	RoleSalesManager,
	RoleDriver,
	RoleIT,
}

func ParseRole(s string) (Role, error) {
	for _, role := range AllRoles {
		if string(role) == s {
			return role, nil
		}
	}
	return "", fmt.Errorf("unknown role: %q", s)
}

func (r Role) IsValid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// IsAdmin reports whether the role carries the administrator capability
// (unlimited amendments, case deletion).
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// Actor is the authenticated user performing a transition or amendment.
// Threaded explicitly through every operation; there is no ambient current
// user.
type Actor struct {
	ID   uuid.UUID
	Name string
	Role Role
}
