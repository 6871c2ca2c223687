package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrTokenMalformed        = errors.New("token is malformed")
	ErrTokenSignatureInvalid = errors.New("token signature is invalid")
	ErrTokenExpired          = errors.New("token is expired")
)

// TokenIssuer signs and verifies the bearer tokens that carry a user
// identity between requests. The secret is fixed at construction; rotating
// it invalidates every previously issued token.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue returns a signed token asserting userID until ttl from now.
func (ti *TokenIssuer) Issue(userID primitive.ObjectID) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID.Hex(),
		"iat": now.Unix(),
		"exp": now.Add(ti.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
}

// Verify checks signature and expiry against the verification time and
// returns the embedded user id.
func (ti *TokenIssuer) Verify(raw string) (primitive.ObjectID, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return ti.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return primitive.NilObjectID, ErrTokenMalformed
	case errors.Is(err, jwt.ErrTokenExpired):
		return primitive.NilObjectID, ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return primitive.NilObjectID, ErrTokenSignatureInvalid
	case err != nil || !token.Valid:
		return primitive.NilObjectID, ErrTokenMalformed
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return primitive.NilObjectID, ErrTokenMalformed
	}
	sub, _ := claims["sub"].(string)
	userID, err := primitive.ObjectIDFromHex(sub)
	if err != nil {
		return primitive.NilObjectID, ErrTokenMalformed
	}
	return userID, nil
}
