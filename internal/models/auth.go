package models

import "github.com/golang-jwt/jwt/v5"

// Role constants as minted by the external identity service.
const (
	RoleRoot    = "ROOT"
	RoleAdmin   = "ADMIN"
	RoleFaculty = "FACULTY"
	RoleStudent = "STUDENT"
)

// JWTClaims are the token claims the portal consumes. Tokens are issued and
// managed by the identity service; this API only validates them.
type JWTClaims struct {
	UserID string `json:"sub"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
