package models

import (
	"fmt"
	"time"
)

type Role string

const (
	RoleOrganiser Role = "organiser"
	RoleDonor     Role = "donor"
)

// Roles lists every role a user can register with, in display order.
var Roles = []Role{RoleOrganiser, RoleDonor}

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleOrganiser:
		return RoleOrganiser, nil
	case RoleDonor:
		return RoleDonor, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) Valid() bool {
	switch r {
	case RoleOrganiser, RoleDonor:
		return true
	default:
		return false
	}
}

func (r Role) Display() string {
	switch r {
	case RoleOrganiser:
		return "Organiser"
	case RoleDonor:
		return "Donor"
	default:
		return string(r)
	}
}

type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Phone          string    `json:"phone"`
	Role           Role      `json:"role"`
	ProfilePicture string    `json:"profile_picture,omitempty"`
	PasswordHash   string    `json:"-"`
	DateJoined     time.Time `json:"date_joined"`
}

func (u *User) String() string {
	return fmt.Sprintf("%s (%s)", u.Username, u.Role)
}
