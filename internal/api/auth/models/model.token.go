package models

import "github.com/dgrijalva/jwt-go"

// JwtClaims is the payload of an access token.
type JwtClaims struct {
	AdminID  string `json:"adminId"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.StandardClaims
}
