package config

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// JWTConfig holds configuration for API token generation and validation.
type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

// NewJWTConfig creates a JWT configuration from environment variables.
// JWT_SECRET is required; JWT_EXPIRATION defaults to 24h.
func NewJWTConfig() (*JWTConfig, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}

	expiration := getEnvDuration("JWT_EXPIRATION", 24*time.Hour)
	if expiration < time.Minute {
		return nil, fmt.Errorf("JWT_EXPIRATION too short: %s", expiration)
	}

	return &JWTConfig{
		Secret:     secret,
		Expiration: expiration,
	}, nil
}

// PasswordConfig holds bcrypt hashing parameters for the API password.
type PasswordConfig struct {
	BcryptCost int
}

// NewPasswordConfig creates a password configuration from environment
// variables. BCRYPT_COST defaults to 12 and must stay within 10-14.
func NewPasswordConfig() (*PasswordConfig, error) {
	cost := getEnvInt("BCRYPT_COST", 12)
	if cost < 10 || cost > 14 {
		return nil, fmt.Errorf("bcrypt cost out of range: %d (must be 10-14)", cost)
	}
	return &PasswordConfig{BcryptCost: cost}, nil
}

// HashPassword hashes a password using bcrypt.
func (c *PasswordConfig) HashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), c.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword verifies a password against a stored bcrypt hash.
func (c *PasswordConfig) VerifyPassword(pw, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(pw)) == nil
}
