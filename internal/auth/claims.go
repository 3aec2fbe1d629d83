package auth

import "github.com/golang-jwt/jwt/v5"

// Claims is the only supported JWT claims shape for this service.
// A token is a point-in-time snapshot of the account at issuance:
// nothing here is re-checked against storage during verification, so
// role changes and deletions only take effect once the token expires.
type Claims struct {
	jwt.RegisteredClaims

	UserID int64  `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}
