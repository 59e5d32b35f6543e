package types

// Organization member roles
const (
	RoleAdmin  = "ADMIN"
	RoleMember = "MEMBER"
)

// Invitation status values (always derived from timestamps, never stored)
const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationExpired  = "expired"
)

// Valid role values for validation
var ValidRoles = []string{RoleAdmin, RoleMember}

// IsValidRole reports whether role is one of the organization roles.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
