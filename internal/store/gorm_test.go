package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"shared_pockets/internal/db"
	"shared_pockets/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newSQLiteStore migrates a fresh database file and wraps it in a GormStore
func newSQLiteStore(t *testing.T) *GormStore {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "pockets.db")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1) // One writer at a time
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, gdb.AutoMigrate(db.Models()...))
	return NewGormStore(gdb)
}

func TestGormStore_Users(t *testing.T) {
	st := newSQLiteStore(t)
	ctx := context.Background()

	u := &domain.User{ExternalID: "ext_1", Name: "Sam", Email: "sam@example.com", Role: domain.RoleUser}
	require.NoError(t, st.CreateUser(ctx, u))
	require.NotZero(t, u.ID)
	assert.NotZero(t, u.CreatedAt)

	err := st.CreateUser(ctx, &domain.User{ExternalID: "ext_1", Email: "other@example.com", Role: domain.RoleUser})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	u.Name = "Sam Lee"
	u.Address = "1 Main St"
	require.NoError(t, st.SaveUser(ctx, u))
	got, err := st.UserByExternalID(ctx, "ext_1")
	require.NoError(t, err)
	assert.Equal(t, "Sam Lee", got.Name)
	assert.Equal(t, "1 Main St", got.Address)
	assert.Equal(t, u.CreatedAt, got.CreatedAt)

	require.NoError(t, st.DeleteUser(ctx, u.ID))
	_, err = st.UserByID(ctx, u.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, st.DeleteUser(ctx, u.ID), domain.ErrNotFound)
}

func TestGormStore_CoupleSlots(t *testing.T) {
	st := newSQLiteStore(t)
	ctx := context.Background()

	c := &domain.Couple{UserAID: 1, UserBID: 2}
	require.NoError(t, st.CreateCouple(ctx, c))

	byA, err := st.CoupleByUserA(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, c.ID, byA.ID)
	byB, err := st.CoupleByUserB(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, c.ID, byB.ID)
	_, err = st.CoupleByUserA(ctx, 2)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, st.CreateCouple(ctx, &domain.Couple{UserAID: 1, UserBID: 3}), domain.ErrDuplicate)
	assert.ErrorIs(t, st.CreateCouple(ctx, &domain.Couple{UserAID: 4, UserBID: 2}), domain.ErrDuplicate)

	couples, err := st.ListCouples(ctx)
	require.NoError(t, err)
	assert.Len(t, couples, 1)
}

func TestGormStore_InviteCodes(t *testing.T) {
	st := newSQLiteStore(t)
	ctx := context.Background()

	for _, code := range []string{"AAAAAA", "BBBBBB", "CCCCCC"} {
		require.NoError(t, st.CreateInviteCode(ctx, &domain.InviteCode{Code: code, OwnerUserID: 7, IsActive: true}))
	}
	err := st.CreateInviteCode(ctx, &domain.InviteCode{Code: "BBBBBB", OwnerUserID: 8, IsActive: true})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// Newest first; ids break same-millisecond ties
	codes, err := st.InviteCodesByOwner(ctx, 7)
	require.NoError(t, err)
	require.Len(t, codes, 3)
	assert.Equal(t, []string{"CCCCCC", "BBBBBB", "AAAAAA"}, []string{codes[0].Code, codes[1].Code, codes[2].Code})

	entry, err := st.InviteCodeByCode(ctx, "BBBBBB")
	require.NoError(t, err)
	require.NoError(t, st.MarkInviteCodeRedeemed(ctx, entry.ID, 9))
	assert.ErrorIs(t, st.MarkInviteCodeRedeemed(ctx, entry.ID, 10), domain.ErrInvalidCode)

	entry, err = st.InviteCodeByCode(ctx, "BBBBBB")
	require.NoError(t, err)
	assert.False(t, entry.IsActive)
	require.NotNil(t, entry.RedeemedByUserID)
	assert.Equal(t, uint(9), *entry.RedeemedByUserID)

	_, err = st.InviteCodeByCode(ctx, "ZZZZZZ")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGormStore_Pockets(t *testing.T) {
	st := newSQLiteStore(t)
	ctx := context.Background()

	target := decimal.RequireFromString("1500.50")
	shared := &domain.Pocket{
		Label:     "Holiday",
		Target:    &target,
		Value:     decimal.Zero,
		CreatedBy: 1,
		Members:   []domain.PocketMember{{UserID: 1}, {UserID: 2}},
	}
	solo := &domain.Pocket{Label: "Solo", Value: decimal.Zero, CreatedBy: 3, Members: []domain.PocketMember{{UserID: 3}}}
	require.NoError(t, st.CreatePocket(ctx, shared))
	require.NoError(t, st.CreatePocket(ctx, solo))

	got, err := st.PocketsForUsers(ctx, []uint{2})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, shared.ID, got[0].ID)
	assert.ElementsMatch(t, []uint{1, 2}, got[0].MemberIDs(), "members are preloaded in full")
	require.NotNil(t, got[0].Target)
	assert.True(t, target.Equal(*got[0].Target))

	got, err = st.PocketsForUsers(ctx, []uint{1, 3})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, shared.ID, got[0].ID)
	assert.Equal(t, solo.ID, got[1].ID)

	got, err = st.PocketsForUsers(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	value := decimal.RequireFromString("250.25")
	label := "Summer"
	require.NoError(t, st.UpdatePocket(ctx, shared.ID, domain.PocketUpdate{Label: &label, Value: &value}))
	p, err := st.PocketByID(ctx, shared.ID)
	require.NoError(t, err)
	assert.Equal(t, "Summer", p.Label)
	assert.True(t, value.Equal(p.Value))
	assert.Len(t, p.Members, 2)

	require.NoError(t, st.DeletePocket(ctx, shared.ID))
	_, err = st.PocketByID(ctx, shared.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, st.DeletePocket(ctx, shared.ID), domain.ErrNotFound)
	got, err = st.PocketsForUsers(ctx, []uint{2})
	require.NoError(t, err)
	assert.Empty(t, got, "membership rows go with the pocket")
}

func TestGormStore_InTx(t *testing.T) {
	st := newSQLiteStore(t)
	ctx := context.Background()
	code := &domain.InviteCode{Code: "ABCDEF", OwnerUserID: 1, IsActive: true}
	require.NoError(t, st.CreateInviteCode(ctx, code))

	boom := errors.New("boom")
	err := st.InTx(ctx, func(tx Store) error {
		require.NoError(t, tx.LockUsers(ctx, 1, 2))
		require.NoError(t, tx.MarkInviteCodeRedeemed(ctx, code.ID, 2))
		require.NoError(t, tx.CreateCouple(ctx, &domain.Couple{UserAID: 1, UserBID: 2}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	stored, err := st.InviteCodeByCode(ctx, "ABCDEF")
	require.NoError(t, err)
	assert.True(t, stored.Redeemable(), "rolled back")
	_, err = st.CoupleByUserA(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = st.InTx(ctx, func(tx Store) error {
		if err := tx.MarkInviteCodeRedeemed(ctx, code.ID, 2); err != nil {
			return err
		}
		return tx.CreateCouple(ctx, &domain.Couple{UserAID: 1, UserBID: 2})
	})
	require.NoError(t, err)
	_, err = st.CoupleByUserB(ctx, 2)
	assert.NoError(t, err)
}

func TestGormStore_ConcurrentMarkRedeemed(t *testing.T) {
	st := newSQLiteStore(t)
	ctx := context.Background()
	code := &domain.InviteCode{Code: "ABCDEF", OwnerUserID: 1, IsActive: true}
	require.NoError(t, st.CreateInviteCode(ctx, code))

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := uint(2); i < 10; i++ {
		wg.Add(1)
		go func(redeemer uint) {
			defer wg.Done()
			err := st.InTx(ctx, func(tx Store) error {
				return tx.MarkInviteCodeRedeemed(ctx, code.ID, redeemer)
			})
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, domain.ErrInvalidCode)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}

// statementLog keeps every statement gorm builds
type statementLog struct {
	logger.Interface
	mu    sync.Mutex
	stmts []string
}

func (l *statementLog) LogMode(logger.LogLevel) logger.Interface { return l }

func (l *statementLog) Trace(_ context.Context, _ time.Time, fc func() (string, int64), _ error) {
	sql, _ := fc()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stmts = append(l.stmts, sql)
}

func (l *statementLog) last() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.stmts) == 0 {
		return ""
	}
	return l.stmts[len(l.stmts)-1]
}

// MySQL fixes a REPEATABLE READ snapshot at the first plain read, so the code
// lookup that opens a redeem must be a locking read.
func TestGormStore_LockingReadsInsideTransaction(t *testing.T) {
	rec := &statementLog{Interface: logger.Discard}
	gdb, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "pockets:pockets@tcp(127.0.0.1:3306)/pockets?parseTime=true",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true, Logger: rec})
	require.NoError(t, err)
	ctx := context.Background()

	plain := NewGormStore(gdb)
	_, _ = plain.InviteCodeByCode(ctx, "ABC234")
	assert.NotContains(t, rec.last(), "FOR UPDATE")

	inTx := &GormStore{db: gdb, inTx: true}
	_, _ = inTx.InviteCodeByCode(ctx, "ABC234")
	assert.Contains(t, rec.last(), "FOR UPDATE")

	_ = inTx.LockUsers(ctx, 2, 1)
	assert.Contains(t, rec.last(), "FOR UPDATE")
}
