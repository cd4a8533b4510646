package models

import "github.com/golang-jwt/jwt/v5"

// Claims is the JWT payload issued at login and consumed by the resolver.
// Identity and role are opaque inputs to the core; how the token was minted
// does not matter past verification.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// GetUserID returns the user id from the subject claim.
func (c *Claims) GetUserID() string {
	return c.Subject
}

// Identity is the resolved caller of a request. A nil *Identity means the
// request carried no credential; handlers must report that as
// "authentication required", never "forbidden".
type Identity struct {
	UserID string
	Role   string
}
