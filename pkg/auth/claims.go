package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/bidzone/bidzone-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	CustomerID uuid.UUID
	Role       enums.ActorRole
	Tier       *enums.MembershipTier
	JTI        string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	CustomerID uuid.UUID             `json:"customer_id"`
	Role       enums.ActorRole       `json:"role"`
	Tier       *enums.MembershipTier `json:"tier,omitempty"`
	jwt.RegisteredClaims
}
