package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued token and user info.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	User        UserInfo  `json:"user"`
	IssuedAt    time.Time `json:"issued_at"`
}

// Session identifies the acting user of a command.
type Session struct {
	UserID   int
	Username string
	Role     UserRole
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID   int      `json:"user_id"`
	Username string   `json:"username"`
	Role     UserRole `json:"role"`
	jwt.RegisteredClaims
}

// Session converts the claims into the acting identity.
func (c *JWTClaims) Session() Session {
	return Session{UserID: c.UserID, Username: c.Username, Role: c.Role}
}
