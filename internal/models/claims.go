package models

import "github.com/golang-jwt/jwt/v5"

// Roles issued by the identity service.
const (
	RoleParent   = "parent"
	RoleChild    = "child"
	RoleRelative = "relative"
)

// UserClaims are the authenticated-request claims this service trusts.
// Identity and session management live in a separate service; we only
// verify the token signature and read these fields.
type UserClaims struct {
	jwt.RegisteredClaims
	UserID   uint   `json:"user_id"`
	FamilyID uint   `json:"family_id"`
	Role     string `json:"role"`
}

// IsParent reports whether the caller may operate payouts.
func (c *UserClaims) IsParent() bool {
	return c.Role == RoleParent
}
