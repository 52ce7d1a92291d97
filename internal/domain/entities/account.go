package entities

// AccountRole represents account roles
type AccountRole string

const (
	AccountRoleSuperAdmin AccountRole = "SUPER_ADMIN"
	AccountRoleSubAdmin   AccountRole = "SUB_ADMIN"
	AccountRoleMember     AccountRole = "MEMBER"
)

// Role slot caps
const (
	MaxSuperAdmins = 1
	MaxSubAdmins   = 4
)

// Valid reports whether r is a known role.
func (r AccountRole) Valid() bool {
	switch r {
	case AccountRoleSuperAdmin, AccountRoleSubAdmin, AccountRoleMember:
		return true
	}
	return false
}

// IsAdmin reports whether r grants access to the admin panel.
func (r AccountRole) IsAdmin() bool {
	return r == AccountRoleSuperAdmin || r == AccountRoleSubAdmin
}

// Account represents a registered member of the group
type Account struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Email  string      `json:"email"`
	Role   AccountRole `json:"role"`
	Avatar string      `json:"avatar,omitempty"`
}

// RegisterInput represents input for registering an account
type RegisterInput struct {
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Role       AccountRole `json:"role"`
	SecretCode string      `json:"secretCode"`
	Avatar     string      `json:"avatar"`
}

// LoginInput represents input for logging in
type LoginInput struct {
	Email      string `json:"email"`
	SecretCode string `json:"secretCode"`
}

// ProfileUpdate carries optional self-service profile changes. Role is not editable.
type ProfileUpdate struct {
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Avatar *string `json:"avatar"`
}

// ChangeRoleCommand is a typed role change issued by the super admin.
type ChangeRoleCommand struct {
	TargetID string      `json:"targetId"`
	NewRole  AccountRole `json:"newRole"`
}

// CountRole returns how many accounts hold role.
func CountRole(accounts []Account, role AccountRole) int {
	n := 0
	for i := range accounts {
		if accounts[i].Role == role {
			n++
		}
	}
	return n
}

// FindAccountByEmail returns the index of the first account with an exact email match, or -1.
func FindAccountByEmail(accounts []Account, email string) int {
	for i := range accounts {
		if accounts[i].Email == email {
			return i
		}
	}
	return -1
}

// FindAccount returns the index of the account with id, or -1.
func FindAccount(accounts []Account, id string) int {
	for i := range accounts {
		if accounts[i].ID == id {
			return i
		}
	}
	return -1
}
