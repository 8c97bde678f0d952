package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mediplace/lab-api/internal/model"
)

// TokenValidator verifies access tokens issued by the marketplace's
// identity service and extracts the calling actor from the claims.
type TokenValidator interface {
	ValidateToken(token string) (*model.Actor, error)
}

// Claims are the marketplace access-token claims this service relies
// on. Token issuance lives in the identity service, not here.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

type jwtValidator struct {
	secret []byte
}

func NewTokenValidator(secret string) TokenValidator {
	return &jwtValidator{secret: []byte(secret)}
}

func (v *jwtValidator) ValidateToken(tokenString string) (*model.Actor, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	actorID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("invalid subject claim: %w", err)
	}

	role := model.Role(claims.Role)
	if !role.IsValid() {
		return nil, fmt.Errorf("unknown role %q", claims.Role)
	}

	return &model.Actor{ID: actorID, Role: role}, nil
}
