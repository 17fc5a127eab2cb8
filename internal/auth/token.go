package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rotisserie/eris"
)

// ErrInvalidToken indicates a bearer token that failed signature or expiry checks.
var ErrInvalidToken = eris.New("invalid token")

// Claims carries the identity inside a signed bearer token.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
	Role   string `json:"role"`
}

// GenerateToken mints an HS256 token for the identity, valid for ttl.
func GenerateToken(identity Identity, secret []byte, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", eris.New("token secret is required")
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: identity.UserID,
		Role:   string(identity.Role),
	})

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", eris.Wrap(err, "signing token")
	}

	return signed, nil
}

// ParseToken verifies a bearer token and returns the identity it carries.
func ParseToken(tokenString string, secret []byte) (*Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, eris.Wrapf(ErrInvalidToken, "unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, eris.Wrap(ErrInvalidToken, err.Error())
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	role, err := ParseRole(claims.Role)
	if err != nil {
		return nil, eris.Wrap(ErrInvalidToken, "token carries unknown role")
	}

	return &Identity{UserID: claims.UserID, Role: role}, nil
}
