package auth

import (
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims represents the claims carried by an access token.
// The subject is the user's numeric ID rendered as a decimal string.
type AccessClaims struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`

	jwt.RegisteredClaims
}

// UserID parses the token subject back into the user's numeric ID.
func (c *AccessClaims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}
