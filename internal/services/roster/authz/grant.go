// Package authz verifies caller grants: short-lived EdDSA tokens that carry
// the identity and capabilities of whoever triggers a roster operation.
package authz

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/louisbranch/muster/internal/platform/errors"
	"github.com/louisbranch/muster/internal/services/roster/engine"
)

const (
	EnvCallerGrantIssuer    = "MUSTER_CALLER_GRANT_ISSUER"
	EnvCallerGrantAudience  = "MUSTER_CALLER_GRANT_AUDIENCE"
	EnvCallerGrantPublicKey = "MUSTER_CALLER_GRANT_PUBLIC_KEY"
)

// grantEnv holds raw env values before post-parse validation.
type grantEnv struct {
	Issuer    string `env:"MUSTER_CALLER_GRANT_ISSUER"`
	Audience  string `env:"MUSTER_CALLER_GRANT_AUDIENCE"`
	PublicKey string `env:"MUSTER_CALLER_GRANT_PUBLIC_KEY"`
}

// Config defines how caller grants are verified.
type Config struct {
	Issuer   string
	Audience string
	Key      ed25519.PublicKey
	Now      func() time.Time
}

// Enabled reports whether grant verification is configured.
func (c Config) Enabled() bool {
	return c.Issuer != "" && c.Audience != "" && len(c.Key) == ed25519.PublicKeySize
}

// Claims captures validated caller grant claims.
type Claims struct {
	Issuer       string
	Audience     []string
	Subject      string
	Capabilities []string
	GuildID      string
	ExpiresAt    time.Time
	IssuedAt     time.Time
	JWTID        string
}

// Caller converts the claims into the engine caller they authorize.
func (c Claims) Caller() engine.Caller {
	return engine.Caller{Identity: c.Subject, Capabilities: slices.Clone(c.Capabilities)}
}

type grantClaims struct {
	jwt.RegisteredClaims
	Capabilities []string `json:"capabilities"`
	GuildID      string   `json:"guild_id"`
}

// LoadConfigFromEnv reads caller grant verification configuration. All
// three variables unset yields a disabled config; a partial set is an error.
func LoadConfigFromEnv(now func() time.Time) (Config, error) {
	var raw grantEnv
	if err := env.Parse(&raw); err != nil {
		return Config{}, fmt.Errorf("parse caller grant env: %w", err)
	}
	issuer := strings.TrimSpace(raw.Issuer)
	audience := strings.TrimSpace(raw.Audience)
	publicKey := strings.TrimSpace(raw.PublicKey)
	if now == nil {
		now = time.Now
	}
	if issuer == "" && audience == "" && publicKey == "" {
		return Config{Now: now}, nil
	}
	if issuer == "" {
		return Config{}, fmt.Errorf("%s is required", EnvCallerGrantIssuer)
	}
	if audience == "" {
		return Config{}, fmt.Errorf("%s is required", EnvCallerGrantAudience)
	}
	if publicKey == "" {
		return Config{}, fmt.Errorf("%s is required", EnvCallerGrantPublicKey)
	}
	keyBytes, err := decodeBase64(publicKey)
	if err != nil {
		return Config{}, fmt.Errorf("decode caller grant public key: %w", err)
	}
	if len(keyBytes) != ed25519.PublicKeySize {
		return Config{}, fmt.Errorf("caller grant public key must be %d bytes", ed25519.PublicKeySize)
	}
	return Config{
		Issuer:   issuer,
		Audience: audience,
		Key:      ed25519.PublicKey(keyBytes),
		Now:      now,
	}, nil
}

// Validate verifies a caller grant and returns its claims.
func Validate(grant string, cfg Config) (Claims, error) {
	grant = strings.TrimSpace(grant)
	if grant == "" {
		return Claims{}, apperrors.New(apperrors.CodeCallerGrantInvalid, "caller grant is required")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if !cfg.Enabled() {
		return Claims{}, errors.New("caller grant verifier is not configured")
	}

	var parsed grantClaims
	_, err := jwt.ParseWithClaims(grant, &parsed, func(*jwt.Token) (any, error) {
		return cfg.Key, nil
	},
		jwt.WithValidMethods([]string{"EdDSA"}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return Claims{}, mapJWTError(err)
	}

	if parsed.Issuer == "" || parsed.Issuer != cfg.Issuer {
		return Claims{}, mismatch("issuer")
	}
	if !slices.Contains(parsed.Audience, cfg.Audience) {
		return Claims{}, mismatch("audience")
	}
	if strings.TrimSpace(parsed.Subject) == "" {
		return Claims{}, apperrors.New(apperrors.CodeCallerGrantInvalid, "caller grant sub is required")
	}
	if parsed.ExpiresAt == nil {
		return Claims{}, apperrors.New(apperrors.CodeCallerGrantInvalid, "caller grant exp is required")
	}

	now := cfg.Now().UTC()
	exp := parsed.ExpiresAt.Time.UTC()
	if !exp.After(now) {
		return Claims{}, apperrors.New(apperrors.CodeCallerGrantExpired, "caller grant is expired")
	}
	if parsed.NotBefore != nil && now.Before(parsed.NotBefore.Time.UTC()) {
		return Claims{}, apperrors.New(apperrors.CodeCallerGrantInvalid, "caller grant not active yet")
	}

	claims := Claims{
		Issuer:       parsed.Issuer,
		Audience:     []string(parsed.Audience),
		Subject:      strings.TrimSpace(parsed.Subject),
		Capabilities: parsed.Capabilities,
		GuildID:      parsed.GuildID,
		ExpiresAt:    exp,
		JWTID:        parsed.ID,
	}
	if parsed.IssuedAt != nil {
		claims.IssuedAt = parsed.IssuedAt.Time.UTC()
	}
	return claims, nil
}

func mismatch(field string) error {
	return apperrors.WithMetadata(
		apperrors.CodeCallerGrantInvalid,
		"caller grant "+field+" mismatch",
		map[string]string{"Field": field},
	)
}

// mapJWTError translates jwt library errors to application errors.
func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenSignatureInvalid) || errors.Is(err, jwt.ErrEd25519Verification) {
		return apperrors.New(apperrors.CodeCallerGrantInvalid, "caller grant signature is invalid")
	}
	if errors.Is(err, jwt.ErrTokenUnverifiable) {
		return apperrors.New(apperrors.CodeCallerGrantInvalid, "caller grant alg is invalid")
	}
	return apperrors.New(apperrors.CodeCallerGrantInvalid, "caller grant is invalid")
}

func decodeBase64(value string) ([]byte, error) {
	decoded, err := base64.RawStdEncoding.DecodeString(value)
	if err == nil {
		return decoded, nil
	}
	return base64.StdEncoding.DecodeString(value)
}
