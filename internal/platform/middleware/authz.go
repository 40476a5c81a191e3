// Copyright (c) 2026 BookVault. All rights reserved.

package middleware

import (
	"context"
	"net/http"

	"github.com/bookvault/api/internal/auth"
	"github.com/bookvault/api/internal/platform/apperr"
	"github.com/bookvault/api/internal/platform/ctxutil"
	"github.com/bookvault/api/internal/platform/respond"
	"github.com/bookvault/api/internal/platform/sec"
)

// # Identity Resolution

// Identify resolves the caller identity from the access-proxy assertion
// header and stores the verified email in the request context.
//
// Requests without an assertion pass through anonymously; public routes
// stay reachable and the access gate rejects protected ones later. A
// present-but-malformed assertion is rejected immediately with 401.
func Identify(resolver sec.IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			email, err := resolver.Resolve(request)
			if err != nil {
				// No identity at all: continue as anonymous.
				if appError := apperr.As(err); appError != nil && appError.Code == "UNAUTHORIZED" {
					next.ServeHTTP(writer, request)
					return
				}

				// A broken assertion is never forgiven.
				respond.Error(writer, request, err)
				return
			}

			ctx := ctxutil.WithIdentity(request.Context(), email)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// # Access Gate

// Gate decides whether a resolved identity maps to a registered account
// and whether that account holds administrative rights.
type Gate interface {
	// Authenticate returns the account for the identity in ctx, or an
	// Unauthorized error when the identity is absent or unregistered.
	Authenticate(ctx context.Context) (*auth.User, error)

	// AuthorizeAdmin behaves like Authenticate but additionally requires
	// the admin role, returning Forbidden otherwise.
	AuthorizeAdmin(ctx context.Context) (*auth.User, error)
}

// RequireUser admits only requests whose identity maps to a registered
// account, and makes that account available to downstream handlers.
func RequireUser(gate Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			user, err := gate.Authenticate(request.Context())
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			ctx := auth.WithUser(request.Context(), user)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAdmin admits only requests from accounts holding the admin role.
func RequireAdmin(gate Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			user, err := gate.AuthorizeAdmin(request.Context())
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			ctx := auth.WithUser(request.Context(), user)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}
