package store

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"shared_pockets/internal/domain"
)

// memData holds every collection plus the secondary indexes
type memData struct {
	users      map[uint]domain.User
	byExternal map[string]uint // external id -> user id
	couples    map[uint]domain.Couple
	byUserA    map[uint]uint // user id -> couple id
	byUserB    map[uint]uint // user id -> couple id
	codes      map[uint]domain.InviteCode
	byCode     map[string]uint // code -> invite code id
	pockets    map[uint]domain.Pocket
	nextID     uint
	lastMillis int64
}

func newMemData() *memData {
	return &memData{
		users:      make(map[uint]domain.User),
		byExternal: make(map[string]uint),
		couples:    make(map[uint]domain.Couple),
		byUserA:    make(map[uint]uint),
		byUserB:    make(map[uint]uint),
		codes:      make(map[uint]domain.InviteCode),
		byCode:     make(map[string]uint),
		pockets:    make(map[uint]domain.Pocket),
	}
}

func (d *memData) clone() *memData {
	c := &memData{
		users:      maps.Clone(d.users),
		byExternal: maps.Clone(d.byExternal),
		couples:    maps.Clone(d.couples),
		byUserA:    maps.Clone(d.byUserA),
		byUserB:    maps.Clone(d.byUserB),
		codes:      maps.Clone(d.codes),
		byCode:     maps.Clone(d.byCode),
		pockets:    make(map[uint]domain.Pocket, len(d.pockets)),
		nextID:     d.nextID,
		lastMillis: d.lastMillis,
	}
	for id, p := range d.pockets {
		c.pockets[id] = copyPocket(p)
	}
	return c
}

func (d *memData) id() uint {
	d.nextID++
	return d.nextID
}

// now returns a strictly increasing millisecond clock so creation order is
// recoverable from CreatedAt alone
func (d *memData) now() int64 {
	ms := time.Now().UnixMilli()
	if ms <= d.lastMillis {
		ms = d.lastMillis + 1
	}
	d.lastMillis = ms
	return ms
}

// MemoryStore is a thread-safe in-memory Store. Every call is serialised by a
// single mutex; InTx holds it for the whole unit of work and restores a
// snapshot when fn fails.
type MemoryStore struct {
	mu   *sync.Mutex
	data **memData
	inTx bool
}

// NewMemoryStore returns an empty store
func NewMemoryStore() *MemoryStore {
	d := newMemData()
	return &MemoryStore{mu: &sync.Mutex{}, data: &d}
}

func (s *MemoryStore) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *MemoryStore) d() *memData { return *s.data }

func copyPocket(p domain.Pocket) domain.Pocket {
	p.Members = slices.Clone(p.Members)
	if p.Target != nil {
		t := *p.Target
		p.Target = &t
	}
	return p
}

func (s *MemoryStore) UserByID(_ context.Context, id uint) (*domain.User, error) {
	defer s.lock()()
	u, ok := s.d().users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (s *MemoryStore) UserByExternalID(_ context.Context, externalID string) (*domain.User, error) {
	defer s.lock()()
	id, ok := s.d().byExternal[externalID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u := s.d().users[id]
	return &u, nil
}

func (s *MemoryStore) CreateUser(_ context.Context, u *domain.User) error {
	defer s.lock()()
	d := s.d()
	if _, exists := d.byExternal[u.ExternalID]; exists {
		return domain.ErrDuplicate
	}
	u.ID = d.id()
	u.CreatedAt = d.now()
	u.UpdatedAt = u.CreatedAt
	if u.Role == "" {
		u.Role = domain.RoleUser
	}
	d.users[u.ID] = *u
	d.byExternal[u.ExternalID] = u.ID
	return nil
}

func (s *MemoryStore) SaveUser(_ context.Context, u *domain.User) error {
	defer s.lock()()
	d := s.d()
	old, ok := d.users[u.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if other, taken := d.byExternal[u.ExternalID]; taken && other != u.ID {
		return domain.ErrDuplicate
	}
	delete(d.byExternal, old.ExternalID)
	u.UpdatedAt = d.now()
	d.users[u.ID] = *u
	d.byExternal[u.ExternalID] = u.ID
	return nil
}

func (s *MemoryStore) DeleteUser(_ context.Context, id uint) error {
	defer s.lock()()
	d := s.d()
	u, ok := d.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(d.users, id)
	delete(d.byExternal, u.ExternalID)
	return nil
}

// LockUsers is a no-op: the store mutex already serialises writers
func (s *MemoryStore) LockUsers(context.Context, ...uint) error { return nil }

func (s *MemoryStore) CoupleByUserA(_ context.Context, userID uint) (*domain.Couple, error) {
	defer s.lock()()
	return s.coupleByIndex(s.d().byUserA, userID)
}

func (s *MemoryStore) CoupleByUserB(_ context.Context, userID uint) (*domain.Couple, error) {
	defer s.lock()()
	return s.coupleByIndex(s.d().byUserB, userID)
}

func (s *MemoryStore) coupleByIndex(index map[uint]uint, userID uint) (*domain.Couple, error) {
	id, ok := index[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := s.d().couples[id]
	return &c, nil
}

func (s *MemoryStore) CreateCouple(_ context.Context, c *domain.Couple) error {
	defer s.lock()()
	d := s.d()
	if _, taken := d.byUserA[c.UserAID]; taken {
		return domain.ErrDuplicate
	}
	if _, taken := d.byUserB[c.UserBID]; taken {
		return domain.ErrDuplicate
	}
	c.ID = d.id()
	c.CreatedAt = d.now()
	d.couples[c.ID] = *c
	d.byUserA[c.UserAID] = c.ID
	d.byUserB[c.UserBID] = c.ID
	return nil
}

func (s *MemoryStore) ListCouples(context.Context) ([]domain.Couple, error) {
	defer s.lock()()
	out := slices.Collect(maps.Values(s.d().couples))
	slices.SortFunc(out, func(a, b domain.Couple) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (s *MemoryStore) InviteCodeByCode(_ context.Context, code string) (*domain.InviteCode, error) {
	defer s.lock()()
	id, ok := s.d().byCode[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := s.d().codes[id]
	return &c, nil
}

func (s *MemoryStore) InviteCodesByOwner(_ context.Context, ownerUserID uint) ([]domain.InviteCode, error) {
	defer s.lock()()
	var out []domain.InviteCode
	for _, c := range s.d().codes {
		if c.OwnerUserID == ownerUserID {
			out = append(out, c)
		}
	}
	// newest first
	slices.SortFunc(out, func(a, b domain.InviteCode) int { return cmp.Compare(b.ID, a.ID) })
	return out, nil
}

func (s *MemoryStore) CreateInviteCode(_ context.Context, c *domain.InviteCode) error {
	defer s.lock()()
	d := s.d()
	if _, exists := d.byCode[c.Code]; exists {
		return domain.ErrDuplicate
	}
	c.ID = d.id()
	c.CreatedAt = d.now()
	d.codes[c.ID] = *c
	d.byCode[c.Code] = c.ID
	return nil
}

func (s *MemoryStore) MarkInviteCodeRedeemed(_ context.Context, id, redeemerID uint) error {
	defer s.lock()()
	d := s.d()
	c, ok := d.codes[id]
	if !ok || !c.Redeemable() {
		return domain.ErrInvalidCode
	}
	c.IsActive = false
	c.RedeemedByUserID = &redeemerID
	d.codes[id] = c
	return nil
}

func (s *MemoryStore) PocketByID(_ context.Context, id uint) (*domain.Pocket, error) {
	defer s.lock()()
	p, ok := s.d().pockets[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p = copyPocket(p)
	return &p, nil
}

func (s *MemoryStore) PocketsForUsers(_ context.Context, userIDs []uint) ([]domain.Pocket, error) {
	defer s.lock()()
	out := []domain.Pocket{}
	for _, p := range s.d().pockets {
		if p.SharesAny(userIDs) {
			out = append(out, copyPocket(p))
		}
	}
	slices.SortFunc(out, func(a, b domain.Pocket) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (s *MemoryStore) CreatePocket(_ context.Context, p *domain.Pocket) error {
	defer s.lock()()
	d := s.d()
	p.ID = d.id()
	p.CreatedAt = d.now()
	p.UpdatedAt = p.CreatedAt
	for i := range p.Members {
		p.Members[i].PocketID = p.ID
	}
	d.pockets[p.ID] = copyPocket(*p)
	return nil
}

func (s *MemoryStore) UpdatePocket(_ context.Context, id uint, update domain.PocketUpdate) error {
	defer s.lock()()
	d := s.d()
	p, ok := d.pockets[id]
	if !ok {
		return domain.ErrNotFound
	}
	if update.Label != nil {
		p.Label = *update.Label
	}
	if update.Description != nil {
		p.Description = *update.Description
	}
	if update.Target != nil {
		t := *update.Target
		p.Target = &t
	}
	if update.Value != nil {
		p.Value = *update.Value
	}
	p.UpdatedAt = d.now()
	d.pockets[id] = p
	return nil
}

func (s *MemoryStore) DeletePocket(_ context.Context, id uint) error {
	defer s.lock()()
	d := s.d()
	if _, ok := d.pockets[id]; !ok {
		return domain.ErrNotFound
	}
	delete(d.pockets, id)
	return nil
}

func (s *MemoryStore) InTx(_ context.Context, fn func(tx Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.d().clone()
	tx := &MemoryStore{mu: s.mu, data: s.data, inTx: true}
	if err := fn(tx); err != nil {
		*s.data = snapshot // roll back
		return err
	}
	return nil
}
