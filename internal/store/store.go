// Package store declares the indexed collections the pairing workflow runs
// against, with a GORM implementation for MySQL and an in-memory one for tests.
package store

import (
	"context"

	"shared_pockets/internal/domain"
)

// Store is the storage contract. Lookups that find nothing return
// domain.ErrNotFound; inserts rejected by a unique index return
// domain.ErrDuplicate.
type Store interface {
	// Users
	UserByID(ctx context.Context, id uint) (*domain.User, error)
	UserByExternalID(ctx context.Context, externalID string) (*domain.User, error)
	CreateUser(ctx context.Context, u *domain.User) error
	SaveUser(ctx context.Context, u *domain.User) error
	DeleteUser(ctx context.Context, id uint) error
	// LockUsers holds the given user rows until the surrounding transaction ends
	LockUsers(ctx context.Context, ids ...uint) error

	// Couples
	CoupleByUserA(ctx context.Context, userID uint) (*domain.Couple, error)
	CoupleByUserB(ctx context.Context, userID uint) (*domain.Couple, error)
	CreateCouple(ctx context.Context, c *domain.Couple) error
	ListCouples(ctx context.Context) ([]domain.Couple, error)

	// Invite codes
	InviteCodeByCode(ctx context.Context, code string) (*domain.InviteCode, error)
	// InviteCodesByOwner returns the owner's codes, newest first
	InviteCodesByOwner(ctx context.Context, ownerUserID uint) ([]domain.InviteCode, error)
	CreateInviteCode(ctx context.Context, c *domain.InviteCode) error
	// MarkInviteCodeRedeemed flips an active, unredeemed code to redeemed.
	// It returns domain.ErrInvalidCode if the code was no longer redeemable.
	MarkInviteCodeRedeemed(ctx context.Context, id, redeemerID uint) error

	// Pockets
	PocketByID(ctx context.Context, id uint) (*domain.Pocket, error)
	// PocketsForUsers returns pockets with at least one member in userIDs, by id
	PocketsForUsers(ctx context.Context, userIDs []uint) ([]domain.Pocket, error)
	CreatePocket(ctx context.Context, p *domain.Pocket) error
	UpdatePocket(ctx context.Context, id uint, update domain.PocketUpdate) error
	DeletePocket(ctx context.Context, id uint) error

	// InTx runs fn as one atomic unit. Any error from fn undoes its writes.
	// Inside fn, InviteCodeByCode and LockUsers are locking reads. Plain reads
	// see a snapshot fixed by the first of them, so fn must take its locks
	// before any plain read of rows a concurrent fn may be writing.
	InTx(ctx context.Context, fn func(tx Store) error) error
}
