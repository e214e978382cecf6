package models

import "time"

// Role is a single access tag assigned to a user account.
type Role string

// Known roles, ordered from widest to narrowest access.
const (
	RoleProprietario Role = "proprietario"
	RoleSuperAdmin   Role = "super_admin"
	RoleGerente      Role = "gerente"
	RoleAtendente    Role = "atendente"
	RoleProfissional Role = "profissional"
)

// User types distinguishing staff with a linked professional profile from
// purely administrative accounts.
const (
	UserTypeProfessional   = "professional"
	UserTypeAdministrative = "administrative"
)

// User represents an account entity used for authentication and authorization.
// Records live in the KV store under "user:{username}" and must tolerate
// missing or extra fields when decoded.
//
// Roles is the source of truth for access; the legacy Role field is kept in
// sync as Roles[0] on every write and used to backfill Roles when decoding
// records written before the list existed.
type User struct {
	// ID is the internal unique identifier of the user.
	ID string `json:"id"`

	// Username is the unique login identifier. Immutable after creation;
	// it is also the KV key suffix, so changing it would orphan the record.
	Username string `json:"username"`

	// Name is the display name, safe to show in UI.
	Name string `json:"name"`

	// Email is the contact address. Optional.
	Email string `json:"email,omitempty"`

	// Role is the legacy single-role field, always equal to Roles[0].
	Role Role `json:"role"`

	// Roles is the ordered list of roles. The head is the primary role.
	Roles []Role `json:"roles,omitempty"`

	// Password holds the stored credential. The canonical form is a salted
	// argon2id digest; legacy records may still hold a bare SHA-256 hex
	// digest or plaintext and are upgraded on the next successful login.
	Password string `json:"password"`

	// Active gates login. Accounts are never deleted, only deactivated.
	Active bool `json:"active"`

	// FirstLogin marks accounts that must change their password before use.
	FirstLogin bool `json:"firstLogin"`

	// ProfessionalID links a profissional-role user to its extended profile.
	ProfessionalID string `json:"professionalId,omitempty"`

	// UserType is "professional" or "administrative".
	UserType string `json:"userType,omitempty"`

	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt,omitzero"`
	LastLogin         time.Time `json:"lastLogin,omitzero"`
	PasswordChangedAt time.Time `json:"passwordChangedAt,omitzero"`

	// Professional is the merged extended profile, attached at login for
	// profissional-role users. Never persisted back into the user record.
	Professional *Professional `json:"professional,omitempty"`
}

// PrimaryRole returns the effective role of the account: the head of Roles
// when present, the legacy Role field otherwise.
func (u *User) PrimaryRole() Role {
	if len(u.Roles) > 0 {
		return u.Roles[0]
	}
	return u.Role
}

// NormalizeRoles reconciles the dual role representation before a write:
// records without a Roles list get one seeded from the legacy field, and the
// legacy field is re-pointed at the list head.
func (u *User) NormalizeRoles() {
	if len(u.Roles) == 0 && u.Role != "" {
		u.Roles = []Role{u.Role}
	}
	if len(u.Roles) > 0 {
		u.Role = u.Roles[0]
	}
}

// IsMaster reports whether the account holds one of the all-access roles.
func (u *User) IsMaster() bool {
	r := u.PrimaryRole()
	return r == RoleProprietario || r == RoleSuperAdmin
}
