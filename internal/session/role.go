package session

import "github.com/golang-jwt/jwt/v4"

// Role is the privilege tag derived from the access token. It only controls
// which UI affordances are shown; the remote API is the actual authority.
type Role string

const (
	RoleNone  Role = ""
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) IsAdmin() bool { return r == RoleAdmin }

// RoleFromToken decodes the token's payload segment without verifying the
// signature and reads its role claim. This is display gating, not
// authentication: a malformed token of any kind (wrong segment count, bad
// encoding, non-object payload, missing or non-string role) degrades to
// RoleNone. A corrupt token must never be read as elevated privilege.
func RoleFromToken(token string) Role {
	if token == "" {
		return RoleNone
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return RoleNone
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return RoleNone
	}
	role, ok := claims["role"].(string)
	if !ok {
		return RoleNone
	}
	switch role {
	case string(RoleAdmin):
		return RoleAdmin
	case string(RoleUser):
		return RoleUser
	default:
		return RoleNone
	}
}
