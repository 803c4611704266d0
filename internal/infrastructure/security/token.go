package security

import (
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/99minutos/user-directory/internal/core/domain"
)

const (
	DefaultKeyBits  = 2048
	DefaultTokenTTL = 2 * time.Hour
	DefaultIssuer   = "self"
)

// Claims is the token payload. Authorities holds the principal's authority
// strings exactly as issued.
type Claims struct {
	jwt.RegisteredClaims
	Authorities []string `json:"authorities"`
}

// TokenService issues and verifies RS256 tokens with a single key pair.
type TokenService struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	issuer     string
	ttl        time.Duration
	now        func() time.Time
}

// TokenOption customises a TokenService.
type TokenOption func(*TokenService)

// WithIssuer sets the iss claim written and required on verification.
func WithIssuer(issuer string) TokenOption {
	return func(s *TokenService) { s.issuer = issuer }
}

// WithTTL sets the validity window of issued tokens.
func WithTTL(ttl time.Duration) TokenOption {
	return func(s *TokenService) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock overrides the time source for issuing and verifying.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

// GenerateKey creates the process signing key.
func GenerateKey(bits int) (*rsa.PrivateKey, error) {
	if bits <= 0 {
		bits = DefaultKeyBits
	}
	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, fmt.Errorf("generate rsa key: %w", err)
	}
	return key, nil
}

func NewTokenService(key *rsa.PrivateKey, opts ...TokenOption) *TokenService {
	s := &TokenService{
		privateKey: key,
		publicKey:  &key.PublicKey,
		issuer:     DefaultIssuer,
		ttl:        DefaultTokenTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue signs a token for principal.
func (s *TokenService) Issue(principal *domain.Principal) (string, error) {
	if principal == nil || principal.Username == "" {
		return "", errors.New("issue token: principal has no subject")
	}
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   principal.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Authorities: append([]string{}, principal.Authorities...),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.privateKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, issuer and expiry and rebuilds the principal from
// the claims. No prefix is applied to the authorities claim.
func (s *TokenService) Verify(token string) (*domain.Principal, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.publicKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, domain.ErrInvalidToken
	}

	return &domain.Principal{
		Username:    claims.Subject,
		Authorities: claims.Authorities,
		Enabled:     true,
	}, nil
}
