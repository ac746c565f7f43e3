package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"booth_dashboard/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultTokenTTL = 12 * time.Hour
	tokenSubject    = "booth-operator"
	tokenIssuer     = "booth-dashboard"
)

// GateService guards writes with one shared secret. Without a configured
// secret the gate is open.
type GateService struct {
	hash       []byte
	signingKey []byte
	ttl        time.Duration
	now        func() time.Time
}

// NewGateService hashes the secret once. Without a signing key a random one
// is generated, so tokens do not survive a restart.
func NewGateService(cfg config.AuthConfig) (*GateService, error) {
	g := &GateService{ttl: cfg.TokenTTL, now: time.Now}
	if g.ttl <= 0 {
		g.ttl = defaultTokenTTL
	}
	if cfg.Secret != "" {
		hash, err := hashSecret(cfg.Secret)
		if err != nil {
			return nil, err
		}
		g.hash = hash
	}
	if cfg.SigningKey != "" {
		g.signingKey = []byte(cfg.SigningKey)
	} else {
		g.signingKey = make([]byte, 32)
		if _, err := rand.Read(g.signingKey); err != nil {
			return nil, fmt.Errorf("generate signing key: %w", err)
		}
	}
	return g, nil
}

func (g *GateService) Enabled() bool { return len(g.hash) > 0 }

// Unlock checks pin against the secret and issues a token.
func (g *GateService) Unlock(pin string) (string, error) {
	if g.Enabled() {
		if err := bcrypt.CompareHashAndPassword(g.hash, []byte(pin)); err != nil {
			return "", ErrInvalidPin
		}
	}
	return g.issueToken()
}

// ParseToken validates a token issued by Unlock. An open gate accepts anything.
func (g *GateService) ParseToken(accessToken string) error {
	if !g.Enabled() {
		return nil
	}
	if accessToken == "" {
		return ErrGateLocked
	}
	token, err := jwt.ParseWithClaims(accessToken, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return g.signingKey, nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithSubject(tokenSubject),
		jwt.WithTimeFunc(g.now),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return ErrInvalidToken
	}
	return nil
}

func (g *GateService) issueToken() (string, error) {
	now := g.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    tokenIssuer,
		Subject:   tokenSubject,
		ExpiresAt: jwt.NewNumericDate(now.Add(g.ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	})
	return token.SignedString(g.signingKey)
}

// helper: hash secret safely
func hashSecret(secret string) ([]byte, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("secret is blank")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash secret: %w", err)
	}
	return hash, nil
}
