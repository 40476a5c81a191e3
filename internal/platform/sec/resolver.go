// Copyright (c) 2026 BookVault. All rights reserved.

// Package sec provides identity resolution for requests that arrive through
// the upstream access proxy.
//
// # Trust Boundary
//
// In production every request reaches BookVault through an access proxy that
// verifies the signature of the identity-assertion token BEFORE forwarding
// the request. [HeaderResolver] therefore decodes the token payload without
// re-verifying its signature. This is a deliberate, documented trust
// boundary, not an oversight. Deployments that want to tighten it can inject
// [VerifyingResolver] instead — the rest of the application only depends on
// the [IdentityResolver] interface.
package sec

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bookvault/api/internal/platform/apperr"
	"github.com/bookvault/api/internal/platform/constants"
)

// IdentityResolver extracts a single verified email from an inbound request.
//
// Implementations fail closed: no identity means an error, never an empty
// string with a nil error.
type IdentityResolver interface {
	Resolve(request *http.Request) (string, error)
}

// # Header Resolver (production default)

// HeaderResolver trusts the pre-verified assertion token forwarded by the
// access proxy and extracts its `email` claim without a cryptographic check.
//
// When no token is present and a development override email is configured,
// the override is returned instead. This keeps local and test environments
// functional without running the proxy.
type HeaderResolver struct {
	devEmail string
	parser   *jwt.Parser
}

// NewHeaderResolver creates a resolver with an optional development override.
func NewHeaderResolver(devEmail string) *HeaderResolver {
	return &HeaderResolver{
		devEmail: devEmail,
		parser:   jwt.NewParser(),
	}
}

// Resolve implements [IdentityResolver].
func (resolver *HeaderResolver) Resolve(request *http.Request) (string, error) {
	token := request.Header.Get(constants.HeaderAccessAssertion)

	if token == "" {
		if resolver.devEmail != "" {
			return resolver.devEmail, nil
		}
		return "", apperr.Unauthorized("Authentication required")
	}

	return resolver.extractEmail(token)
}

// extractEmail decodes the payload segment of the assertion token and pulls
// out the `email` claim.
func (resolver *HeaderResolver) extractEmail(token string) (string, error) {
	segments := strings.Split(token, ".")
	if len(segments) < 2 {
		return "", apperr.MalformedToken("Invalid assertion token format")
	}

	payloadBytes, err := resolver.parser.DecodeSegment(segments[1])
	if err != nil {
		return "", apperr.MalformedToken("Assertion token payload is not decodable")
	}

	var claims map[string]any
	if err := json.Unmarshal(payloadBytes, &claims); err != nil {
		return "", apperr.MalformedToken("Assertion token payload is not valid JSON")
	}

	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return "", apperr.MalformedToken("Assertion token does not contain a valid email claim")
	}

	return email, nil
}

// # Verifying Resolver (hardened alternative)

// VerifyingResolver re-verifies the assertion token signature locally using
// the injected keyfunc before extracting the email claim. It is not wired by
// default; use it when the application is deployed without a trusted proxy
// in front of it.
type VerifyingResolver struct {
	keyfunc jwt.Keyfunc
}

// NewVerifyingResolver creates a resolver that verifies token signatures.
func NewVerifyingResolver(keyfunc jwt.Keyfunc) *VerifyingResolver {
	return &VerifyingResolver{keyfunc: keyfunc}
}

// Resolve implements [IdentityResolver].
func (resolver *VerifyingResolver) Resolve(request *http.Request) (string, error) {
	token := request.Header.Get(constants.HeaderAccessAssertion)
	if token == "" {
		return "", apperr.Unauthorized("Authentication required")
	}

	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(token, claims, resolver.keyfunc); err != nil {
		return "", apperr.Unauthorized("Invalid or expired assertion token")
	}

	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return "", apperr.MalformedToken("Assertion token does not contain a valid email claim")
	}

	return email, nil
}
