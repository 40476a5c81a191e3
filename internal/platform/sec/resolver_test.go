// Copyright (c) 2026 BookVault. All rights reserved.

package sec

import (
	"encoding/base64"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookvault/api/internal/platform/apperr"
	"github.com/bookvault/api/internal/platform/constants"
)

// assertionToken builds a header.payload token around a raw JSON payload.
// The signature segment is irrelevant to the resolver and omitted.
func assertionToken(payload string) string {
	encode := func(s string) string {
		return base64.RawURLEncoding.EncodeToString([]byte(s))
	}
	return encode(`{"alg":"RS256","typ":"JWT"}`) + "." + encode(payload)
}

func TestHeaderResolver_NoTokenNoOverride(t *testing.T) {
	resolver := NewHeaderResolver("")
	request := httptest.NewRequest("GET", "/", nil)

	_, err := resolver.Resolve(request)
	require.Error(t, err)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "UNAUTHORIZED", appError.Code)
}

func TestHeaderResolver_DevOverride(t *testing.T) {
	resolver := NewHeaderResolver("dev@bookvault.app")
	request := httptest.NewRequest("GET", "/", nil)

	email, err := resolver.Resolve(request)
	require.NoError(t, err)
	assert.Equal(t, "dev@bookvault.app", email)
}

func TestHeaderResolver_TokenBeatsOverride(t *testing.T) {
	resolver := NewHeaderResolver("dev@bookvault.app")
	request := httptest.NewRequest("GET", "/", nil)
	request.Header.Set(constants.HeaderAccessAssertion, assertionToken(`{"email":"admin@bookvault.app"}`))

	email, err := resolver.Resolve(request)
	require.NoError(t, err)
	assert.Equal(t, "admin@bookvault.app", email)
}

func TestHeaderResolver_MalformedTokens(t *testing.T) {
	testCases := []struct {
		name  string
		token string
	}{
		{name: "single segment", token: "notatoken"},
		{name: "payload not base64", token: "header.!!!not-base64!!!"},
		{name: "payload not json", token: assertionToken(`not json`)},
		{name: "missing email claim", token: assertionToken(`{"sub":"123"}`)},
		{name: "email claim not a string", token: assertionToken(`{"email":42}`)},
		{name: "email claim empty", token: assertionToken(`{"email":""}`)},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			resolver := NewHeaderResolver("")
			request := httptest.NewRequest("GET", "/", nil)
			request.Header.Set(constants.HeaderAccessAssertion, testCase.token)

			_, err := resolver.Resolve(request)
			require.Error(t, err)

			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, "MALFORMED_TOKEN", appError.Code)
		})
	}
}
