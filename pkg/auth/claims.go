package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	CustomerID uuid.UUID
	Email      string
	Name       string
	JTI        string
}

// AccessTokenClaims represents the typed JWT issued to storefront clients.
type AccessTokenClaims struct {
	CustomerID uuid.UUID `json:"customer_id"`
	Email      string    `json:"email"`
	Name       string    `json:"name,omitempty"`
	jwt.RegisteredClaims
}
