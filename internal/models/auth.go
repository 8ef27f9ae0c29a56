package models

import "github.com/golang-jwt/jwt/v5"

// UserRole represents the available roles for the RBAC system. Token issuance
// lives upstream; this service only validates and authorizes.
type UserRole string

// RBAC roles.
const (
	RoleAdmin       UserRole = "ADMIN"
	RoleFacilitator UserRole = "TEACHER"
	RoleLearner     UserRole = "STUDENT"
)

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	Role     UserRole `json:"role"`
	FullName string   `json:"full_name"`
	jwt.RegisteredClaims
}
