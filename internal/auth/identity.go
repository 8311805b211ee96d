// Package auth resolves the caller's subject from already-verified
// authorizer claims or from an HS256 bearer token.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoIdentity is returned when no subject can be resolved for a request.
var ErrNoIdentity = errors.New("no identity")

// SubjectClaim is the claim carrying the caller's stable identifier.
const SubjectClaim = "sub"

// Credentials carries whatever the transport supplied to identify the caller.
type Credentials struct {
	// Claims verified by an upstream authorizer (API Gateway JWT or Cognito).
	Claims map[string]string
	// Authorization is the raw Authorization header value.
	Authorization string
}

// Extractor resolves the caller's subject.
type Extractor interface {
	Subject(ctx context.Context, creds Credentials) (string, error)
}

// ClaimsExtractor trusts the "sub" claim handed over by the API Gateway authorizer.
type ClaimsExtractor struct{}

func (ClaimsExtractor) Subject(_ context.Context, creds Credentials) (string, error) {
	if sub := creds.Claims[SubjectClaim]; sub != "" {
		return sub, nil
	}
	return "", fmt.Errorf("%w: no %q claim from authorizer", ErrNoIdentity, SubjectClaim)
}

// BearerExtractor verifies an HS256 "Authorization: Bearer <token>" header.
type BearerExtractor struct {
	secret []byte
}

// NewBearerExtractor creates a BearerExtractor for the given signing secret.
func NewBearerExtractor(secret string) *BearerExtractor {
	return &BearerExtractor{secret: []byte(secret)}
}

func (b *BearerExtractor) Subject(_ context.Context, creds Credentials) (string, error) {
	tokenString, ok := strings.CutPrefix(creds.Authorization, "Bearer ")
	if !ok || tokenString == "" {
		return "", fmt.Errorf("%w: no bearer token", ErrNoIdentity)
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return b.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: invalid token: %w", ErrNoIdentity, err)
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("%w: invalid token claims", ErrNoIdentity)
	}
	return sub, nil
}

// Chain tries each Extractor in order and returns the first subject found.
type Chain []Extractor

func (c Chain) Subject(ctx context.Context, creds Credentials) (string, error) {
	var errs []error
	for _, e := range c {
		sub, err := e.Subject(ctx, creds)
		if err == nil {
			return sub, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return "", ErrNoIdentity
	}
	return "", errors.Join(errs...)
}
