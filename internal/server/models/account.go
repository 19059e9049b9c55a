package models

import "time"

// Role gates member-only features such as bulk pushing.
type Role string

const (
	RoleNonMember Role = "NON_MEMBER"
	RoleMember    Role = "MEMBER"
	RoleSuperuser Role = "SUPERUSER"
)

// IsMember reports whether the role grants member-only features.
func (r Role) IsMember() bool {
	return r == RoleMember || r == RoleSuperuser
}

// Account is the engine's minimal projection of the external account system:
// identity plus entitlement. Registration, credentials and profile data live
// with the auth collaborator.
type Account struct {
	ID        string    `db:"id"`
	Email     string    `db:"email"`
	Role      Role      `db:"role"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
