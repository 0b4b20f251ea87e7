package commands

import (
	"crypto/rsa"
	"os"
	"time"

	"rollbook/backend/internal/auth"
	"rollbook/backend/internal/repository/postgres/user"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
)

const (
	accessTokenTTL  = 12 * time.Hour
	refreshTokenTTL = 30 * 24 * time.Hour
)

// GenToken signs a new access/refresh token pair for the given account.
func GenToken(claims user.AuthClaims, keyPath string) (string, string, error) {
	key, err := loadPrivateKey(keyPath)
	if err != nil {
		return "", "", err
	}

	now := time.Now()

	accessToken, err := signClaims(key, auth.Claims{
		UserId: claims.ID,
		Role:   claims.Role,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(accessTokenTTL).Unix(),
		},
	})
	if err != nil {
		return "", "", errors.Wrap(err, "signing access token")
	}

	refreshToken, err := signClaims(key, auth.Claims{
		UserId: claims.ID,
		Role:   claims.Role,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(refreshTokenTTL).Unix(),
		},
	})
	if err != nil {
		return "", "", errors.Wrap(err, "signing refresh token")
	}

	return accessToken, refreshToken, nil
}

// VerifyTokens checks a token pair during refresh. The access token may be
// expired, the refresh token must still be valid.
func VerifyTokens(accessToken, refreshToken, keyPath string) (*auth.Claims, *auth.Claims, error) {
	key, err := loadPrivateKey(keyPath)
	if err != nil {
		return nil, nil, err
	}
	public := &key.PublicKey

	accessClaims, err := parseClaims(accessToken, public, true)
	if err != nil {
		return nil, nil, errors.Wrap(err, "parsing access token")
	}

	refreshClaims, err := parseClaims(refreshToken, public, false)
	if err != nil {
		return nil, nil, errors.Wrap(err, "parsing refresh token")
	}

	if accessClaims.UserId != refreshClaims.UserId {
		return nil, nil, errors.New("token pair mismatch")
	}

	return accessClaims, refreshClaims, nil
}

func signClaims(key *rsa.PrivateKey, claims auth.Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
}

func parseClaims(token string, public *rsa.PublicKey, allowExpired bool) (*auth.Claims, error) {
	var claims auth.Claims

	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return public, nil
	})
	if err != nil {
		vErr, ok := err.(*jwt.ValidationError)
		if !ok || !allowExpired || vErr.Errors != jwt.ValidationErrorExpired {
			return nil, err
		}
	}

	return &claims, nil
}

func loadPrivateKey(keyPath string) (*rsa.PrivateKey, error) {
	data, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, errors.Wrap(err, "reading private key")
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM(data)
	if err != nil {
		return nil, errors.Wrap(err, "parsing private key")
	}

	return key, nil
}
