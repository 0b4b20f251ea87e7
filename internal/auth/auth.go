package auth

import (
	"crypto/rsa"
	"os"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
)

// These are the expectable roles for a signed in user.
const (
	RoleAdmin     = "ADMIN"
	RoleTeacher   = "TEACHER"
	RoleScanner   = "SCANNER"
	RoleDashboard = "DASHBOARD"
)

// ctxKey represents the type of value for the context key.
type ctxKey int

// Key is used to store/retrieve a Claims value from a context.Context.
const Key ctxKey = 1

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	UserId int    `json:"user_id"`
	Role   string `json:"role"`
	jwt.StandardClaims
}

// Authorized returns true if the claims hold one of the provided roles.
func (c Claims) Authorized(roles ...string) bool {
	for _, role := range roles {
		if c.Role == role {
			return true
		}
	}
	return false
}

// Auth is used to authenticate clients. It keeps the key used to verify
// tokens issued at sign in.
type Auth struct {
	publicKey *rsa.PublicKey
}

// New loads the RSA private key from keyPath and prepares an Auth for token
// validation.
func New(keyPath string) (*Auth, error) {
	keyData, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, errors.Wrap(err, "reading auth private key")
	}

	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(keyData)
	if err != nil {
		return nil, errors.Wrap(err, "parsing auth private key")
	}

	return &Auth{publicKey: &privateKey.PublicKey}, nil
}

// ValidateToken recreates the Claims that were used to generate a token. It
// verifies that the token was signed using our key.
func (a *Auth) ValidateToken(tokenStr string) (Claims, error) {
	var claims Claims

	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.publicKey, nil
	})
	if err != nil {
		return Claims{}, errors.Wrap(err, "parsing token")
	}

	if !token.Valid {
		return Claims{}, errors.New("invalid token")
	}

	return claims, nil
}
