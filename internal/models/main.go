// Package models defines the core data structures for board users and tasks.
package models

import (
	"encoding/json"
	"fmt"
)

// AdminUsername is the reserved login of the mandatory administrator account.
const AdminUsername = "admin"

// Permission is a user's role. Roles are ordered by privilege:
// ReadOnly < Permitted < Admin.
type Permission int

const (
	// ReadOnly users may view tasks only.
	ReadOnly Permission = iota
	// Permitted users may create, edit, move and delete tasks.
	Permitted
	// Admin users may additionally manage other users.
	Admin
)

var permissionNames = [...]string{"READ_ONLY", "PERMITTED", "ADMIN"}

// Permissions lists every role in privilege order.
func Permissions() []Permission {
	return []Permission{ReadOnly, Permitted, Admin}
}

// Valid reports whether p is one of the defined roles.
func (p Permission) Valid() bool {
	return p >= ReadOnly && p <= Admin
}

func (p Permission) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Permission(%d)", int(p))
	}
	return permissionNames[p]
}

// ParsePermission returns the role with the given wire name.
func ParsePermission(s string) (Permission, error) {
	for i, name := range permissionNames {
		if name == s {
			return Permission(i), nil
		}
	}
	return ReadOnly, fmt.Errorf("unknown permission %q", s)
}

// MarshalJSON encodes the role by name.
func (p Permission) MarshalJSON() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid permission %d", int(p))
	}
	return json.Marshal(p.String())
}

// UnmarshalJSON decodes a role name. Unknown names decode to ReadOnly so a
// damaged record never grants privilege.
func (p *Permission) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*p = ReadOnly
		return nil
	}
	parsed, err := ParsePermission(s)
	if err != nil {
		*p = ReadOnly
		return nil
	}
	*p = parsed
	return nil
}

// User represents an account on the board.
type User struct {
	// Username is the unique, case-sensitive login name.
	Username string `json:"username"`
	// HashedPassword is the hex digest of the user's password.
	HashedPassword string `json:"hashedPassword"`
	// Permission is the user's role.
	Permission Permission `json:"permission"`
}

// IsAdmin reports whether the user holds the Admin role.
func (u User) IsAdmin() bool {
	return u.Permission == Admin
}
