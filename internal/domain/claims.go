package domain

import "github.com/golang-jwt/jwt/v5"

const RoleOperator = "operator"

// Claims is the JWT payload accepted by the job routes.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}
