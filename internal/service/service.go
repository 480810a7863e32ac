// Package service implements the pairing workflow and the pocket store on top
// of a store.Store. Every operation reads the caller's external identity from
// the context.
package service

import (
	"context"

	"shared_pockets/internal/store"
)

// Service bundles the user, couple, invite and pocket operations
type Service struct {
	store   store.Store
	newCode func() (string, error)
}

// Option customises a Service
type Option func(*Service)

// WithCodeGenerator replaces the random invite code source
func WithCodeGenerator(gen func() (string, error)) Option {
	return func(s *Service) { s.newCode = gen }
}

// New returns a Service backed by st
func New(st store.Store, opts ...Option) *Service {
	s := &Service{store: st, newCode: RandomInviteCode}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type identityKey struct{}

// WithIdentity returns a context carrying the caller's external identity
func WithIdentity(ctx context.Context, externalID string) context.Context {
	return context.WithValue(ctx, identityKey{}, externalID)
}

// IdentityFrom returns the external identity on ctx, if any
func IdentityFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(identityKey{}).(string)
	return id, ok && id != ""
}
