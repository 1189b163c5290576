package verification

import (
	"fmt"
	"time"

	"persian-pages/constants"

	"github.com/golang-jwt/jwt/v5"
)

// ClaimClaims is the payload of a verification token. It proves that UserID
// confirmed Phone through verification VerificationID.
type ClaimClaims struct {
	UserID         string `json:"userId"`
	Phone          string `json:"phone"`
	VerificationID string `json:"verificationId"`
	jwt.RegisteredClaims
}

type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(secret),
		ttl:    constants.ClaimTokenTTL,
		now:    time.Now,
	}
}

// Issue signs a short-lived HS256 token.
func (t *TokenIssuer) Issue(userID, phone, verificationID string) (string, error) {
	now := t.now()
	claims := ClaimClaims{
		UserID:         userID,
		Phone:          phone,
		VerificationID: verificationID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    constants.ClaimTokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign verification token: %w", err)
	}
	return signed, nil
}

// Parse verifies signature, algorithm, issuer and expiry. Every failure is
// reported as ErrTokenInvalid.
func (t *TokenIssuer) Parse(token string) (*ClaimClaims, error) {
	if token == "" {
		return nil, ErrTokenInvalid
	}

	claims := &ClaimClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(constants.ClaimTokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !parsed.Valid || claims.UserID == "" || claims.VerificationID == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
