package service

import (
	"context"
	"sync"
	"testing"

	"shared_pockets/internal/domain"
	"shared_pockets/internal/store"

	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, opts ...Option) (*Service, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	return New(st, opts...), st
}

func addUser(t *testing.T, st store.Store, externalID string) *domain.User {
	t.Helper()
	u := &domain.User{ExternalID: externalID, Name: externalID, Email: externalID + "@example.com"}
	require.NoError(t, st.CreateUser(context.Background(), u))
	return u
}

func as(u *domain.User) context.Context {
	return WithIdentity(context.Background(), u.ExternalID)
}

// scriptedCodes replays codes in order, repeating the last one, and counts calls
type scriptedCodes struct {
	mu    sync.Mutex
	codes []string
	calls int
}

func (s *scriptedCodes) next() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := min(s.calls, len(s.codes)-1)
	s.calls++
	return s.codes[i], nil
}
