package store

import (
	"context" // Context for query cancellation
	"errors"  // Error inspection

	"shared_pockets/internal/domain" // Domain models

	"gorm.io/gorm"        // GORM ORM library
	"gorm.io/gorm/clause" // Locking clauses
)

// GormStore implements Store on top of GORM. The *gorm.DB must be opened with
// TranslateError so unique index violations surface as gorm.ErrDuplicatedKey.
type GormStore struct {
	db   *gorm.DB // Database handle, or the open transaction inside InTx
	inTx bool     // Set on the store handed to an InTx callback
}

// NewGormStore wraps an open GORM connection
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// translate maps GORM errors onto the domain taxonomy
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.ErrDuplicate
	}
	return err
}

// UserByID fetches a user by primary key
func (s *GormStore) UserByID(ctx context.Context, id uint) (*domain.User, error) {
	var u domain.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// UserByExternalID fetches a user through the unique external id index
func (s *GormStore) UserByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	var u domain.User
	if err := s.db.WithContext(ctx).Where("external_id = ?", externalID).Take(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// CreateUser inserts a new user
func (s *GormStore) CreateUser(ctx context.Context, u *domain.User) error {
	return translate(s.db.WithContext(ctx).Create(u).Error)
}

// SaveUser writes every column of an existing user
func (s *GormStore) SaveUser(ctx context.Context, u *domain.User) error {
	return translate(s.db.WithContext(ctx).Model(u).Select("*").Omit("id", "created_at").Updates(u).Error)
}

// DeleteUser removes a user row
func (s *GormStore) DeleteUser(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&domain.User{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// LockUsers takes row locks on the users, in id order to avoid deadlocks
func (s *GormStore) LockUsers(ctx context.Context, ids ...uint) error {
	var users []domain.User
	return s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}). // SELECT ... FOR UPDATE
		Where("id IN ?", ids).
		Order("id").
		Find(&users).Error
}

// CoupleByUserA looks up the couple through the first-member index
func (s *GormStore) CoupleByUserA(ctx context.Context, userID uint) (*domain.Couple, error) {
	return s.coupleWhere(ctx, "user_a_id = ?", userID)
}

// CoupleByUserB looks up the couple through the second-member index
func (s *GormStore) CoupleByUserB(ctx context.Context, userID uint) (*domain.Couple, error) {
	return s.coupleWhere(ctx, "user_b_id = ?", userID)
}

func (s *GormStore) coupleWhere(ctx context.Context, cond string, userID uint) (*domain.Couple, error) {
	var c domain.Couple
	if err := s.db.WithContext(ctx).Where(cond, userID).Take(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

// CreateCouple inserts a couple row
func (s *GormStore) CreateCouple(ctx context.Context, c *domain.Couple) error {
	return translate(s.db.WithContext(ctx).Create(c).Error)
}

// ListCouples returns every couple ordered by id
func (s *GormStore) ListCouples(ctx context.Context) ([]domain.Couple, error) {
	var couples []domain.Couple
	if err := s.db.WithContext(ctx).Order("id").Find(&couples).Error; err != nil {
		return nil, err
	}
	return couples, nil
}

// InviteCodeByCode looks up a code through its unique index. Inside a
// transaction the row is read FOR UPDATE: a locking read does not fix the
// InnoDB snapshot, which must only be taken once LockUsers holds the members.
func (s *GormStore) InviteCodeByCode(ctx context.Context, code string) (*domain.InviteCode, error) {
	var c domain.InviteCode
	q := s.db.WithContext(ctx)
	if s.inTx {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"}) // SELECT ... FOR UPDATE
	}
	if err := q.Where("code = ?", code).Take(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

// InviteCodesByOwner returns the owner's codes, newest first
func (s *GormStore) InviteCodesByOwner(ctx context.Context, ownerUserID uint) ([]domain.InviteCode, error) {
	var codes []domain.InviteCode
	if err := s.db.WithContext(ctx).
		Where("owner_user_id = ?", ownerUserID).
		Order("created_at desc").
		Order("id desc"). // Tie-break codes created in the same millisecond
		Find(&codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}

// CreateInviteCode inserts a code; a taken code yields domain.ErrDuplicate
func (s *GormStore) CreateInviteCode(ctx context.Context, c *domain.InviteCode) error {
	return translate(s.db.WithContext(ctx).Create(c).Error)
}

// MarkInviteCodeRedeemed flips the code only while it is still redeemable, so
// of two concurrent redeemers exactly one sees a row change
func (s *GormStore) MarkInviteCodeRedeemed(ctx context.Context, id, redeemerID uint) error {
	res := s.db.WithContext(ctx).
		Model(&domain.InviteCode{}).
		Where("id = ? AND is_active = ? AND redeemed_by_user_id IS NULL", id, true).
		Updates(map[string]any{
			"is_active":           false,      // Terminal
			"redeemed_by_user_id": redeemerID, // Who used it
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrInvalidCode // Lost the race or already used
	}
	return nil
}

// PocketByID fetches a pocket with its members
func (s *GormStore) PocketByID(ctx context.Context, id uint) (*domain.Pocket, error) {
	var p domain.Pocket
	if err := s.db.WithContext(ctx).Preload("Members").First(&p, id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// PocketsForUsers returns pockets whose member set intersects userIDs
func (s *GormStore) PocketsForUsers(ctx context.Context, userIDs []uint) ([]domain.Pocket, error) {
	pockets := []domain.Pocket{}
	if len(userIDs) == 0 {
		return pockets, nil
	}
	db := s.db.WithContext(ctx)
	memberOf := db.Model(&domain.PocketMember{}).Select("pocket_id").Where("user_id IN ?", userIDs)
	if err := db.Preload("Members").
		Where("id IN (?)", memberOf).
		Order("id").
		Find(&pockets).Error; err != nil {
		return nil, err
	}
	return pockets, nil
}

// CreatePocket inserts the pocket and its membership rows together
func (s *GormStore) CreatePocket(ctx context.Context, p *domain.Pocket) error {
	return translate(s.db.WithContext(ctx).Create(p).Error)
}

// UpdatePocket applies the non-nil fields of update. Existence is the
// caller's concern: MySQL reports zero affected rows for a no-op write.
func (s *GormStore) UpdatePocket(ctx context.Context, id uint, update domain.PocketUpdate) error {
	fields := map[string]any{}
	if update.Label != nil {
		fields["label"] = *update.Label
	}
	if update.Description != nil {
		fields["description"] = *update.Description
	}
	if update.Target != nil {
		fields["target"] = *update.Target
	}
	if update.Value != nil {
		fields["value"] = *update.Value
	}
	return s.db.WithContext(ctx).Model(&domain.Pocket{ID: id}).Updates(fields).Error
}

// DeletePocket removes the pocket and its membership rows
func (s *GormStore) DeletePocket(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Drop membership first so the foreign key never dangles
		if err := tx.Where("pocket_id = ?", id).Delete(&domain.PocketMember{}).Error; err != nil {
			return err // Return error to rollback
		}
		res := tx.Delete(&domain.Pocket{}, id)
		if res.Error != nil {
			return res.Error // Return error to rollback
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil // Commit transaction
	})
}

// InTx runs fn inside one database transaction
func (s *GormStore) InTx(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx, inTx: true}) // Returning an error rolls back
	})
}
