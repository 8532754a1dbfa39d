// Package tenant carries the authenticated shop owner through request
// contexts. Handlers behind the auth middleware read the admin from here
// instead of re-parsing credentials.
package tenant

import (
	"context"

	"github.com/bilasin/bilasin/internal/domain"
)

type contextKey string

const adminContextKey contextKey = "admin"

// NewContext returns a new context with the admin attached.
func NewContext(ctx context.Context, a *domain.Admin) context.Context {
	return context.WithValue(ctx, adminContextKey, a)
}

// FromContext extracts the admin from the context.
// Returns nil if no admin is present.
func FromContext(ctx context.Context) *domain.Admin {
	a, ok := ctx.Value(adminContextKey).(*domain.Admin)
	if !ok {
		return nil
	}
	return a
}

// MustFromContext extracts the admin from the context.
// Panics if no admin is present. Use only in handlers that are definitely
// mounted behind the auth middleware.
func MustFromContext(ctx context.Context) *domain.Admin {
	a := FromContext(ctx)
	if a == nil {
		panic("tenant.MustFromContext: no admin in context")
	}
	return a
}

// IDFromContext returns the admin id from context, or 0 if absent.
func IDFromContext(ctx context.Context) int64 {
	a := FromContext(ctx)
	if a == nil {
		return 0
	}
	return a.ID
}
