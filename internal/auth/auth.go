// Package auth decodes the signed launch token of the platform into the
// credentials every core operation needs.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultLeeway is the clock skew tolerated on exp, nbf and iat.
const DefaultLeeway = 60 * time.Second

// Payload is the nested payload claim of the launch token.
type Payload struct {
	MeetingURL string `json:"meeting_url"`
	APIKey     string `json:"api_key"`
	Target     string `json:"target"`
	StyleURL   string `json:"style_url"`
}

// Claims of the launch token.
type Claims struct {
	APIKey     string  `json:"api_key"`
	MeetingURL string  `json:"meeting_url"`
	Payload    Payload `json:"payload"`
	jwt.RegisteredClaims
}

// Credentials identify one meeting on the platform.
type Credentials struct {
	APIKey     string `json:"api_key"`
	MeetingURL string `json:"meeting_url"`
	Target     string `json:"target,omitempty"`
}

// Decoder verifies HS256 launch tokens.
type Decoder struct {
	secret []byte
	leeway time.Duration
	now    func() time.Time
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithLeeway overrides DefaultLeeway.
func WithLeeway(d time.Duration) Option {
	return func(dec *Decoder) { dec.leeway = d }
}

// WithClock sets the clock used for time based claims.
func WithClock(now func() time.Time) Option {
	return func(dec *Decoder) {
		if now != nil {
			dec.now = now
		}
	}
}

// NewDecoder creates a decoder for tokens signed with secret.
func NewDecoder(secret string, opts ...Option) *Decoder {
	d := &Decoder{secret: []byte(secret), leeway: DefaultLeeway, now: time.Now}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode verifies the token and extracts the credentials. The API key is
// read at the top level first, then from the payload; the meeting URL from
// the payload first, then at the top level.
func (d *Decoder) Decode(token string) (Credentials, error) {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	if token == "" {
		return Credentials{}, fmt.Errorf("%w: empty", ErrInvalidToken)
	}
	if len(d.secret) == 0 {
		return Credentials{}, fmt.Errorf("%w: no secret configured", ErrInvalidToken)
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return d.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(d.leeway),
		jwt.WithTimeFunc(d.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return Credentials{}, fmt.Errorf("%w: signature", ErrInvalidToken)
		}
		return Credentials{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return Credentials{}, ErrInvalidToken
	}

	creds := Credentials{
		APIKey:     firstNonEmpty(claims.APIKey, claims.Payload.APIKey),
		MeetingURL: firstNonEmpty(claims.Payload.MeetingURL, claims.MeetingURL),
		Target:     claims.Payload.Target,
	}
	switch {
	case creds.APIKey == "":
		return Credentials{}, fmt.Errorf("%w: api_key", ErrMissingClaim)
	case creds.MeetingURL == "":
		return Credentials{}, fmt.Errorf("%w: meeting_url", ErrMissingClaim)
	}
	return creds, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
