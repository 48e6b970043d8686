package jwt

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

const (
	MinSecretKeyLen = 32
	DefaultIssuer   = "robot-notifier"
)

var (
	ErrWeakSecret   = errors.New("jwt: secret key too short")
	ErrInvalidToken = errors.New("jwt: invalid token")
)

// Config holds JWT configuration
type Config struct {
	SecretKey string
	Issuer    string
}

// Claims represents the JWT claims structure
type Claims struct {
	jwt.RegisteredClaims
}

type managerImpl struct {
	secretKey []byte
	issuer    string
}
