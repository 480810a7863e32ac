package service

import (
	"context"
	"errors"
	"fmt"

	"shared_pockets/internal/domain"
	"shared_pockets/internal/store"

	"github.com/sirupsen/logrus"
)

// FindCoupleForUser returns the couple userID belongs to, or nil
func (s *Service) FindCoupleForUser(ctx context.Context, userID uint) (*domain.Couple, error) {
	c, err := findCouple(ctx, s.store, userID)
	if err != nil {
		return nil, fmt.Errorf("service.FindCoupleForUser: %w", err)
	}
	return c, nil
}

// findCouple checks the first-member index, then the second-member index
func findCouple(ctx context.Context, st store.Store, userID uint) (*domain.Couple, error) {
	c, err := st.CoupleByUserA(ctx, userID)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	c, err = st.CoupleByUserB(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return c, err
}

// CreateCouple pairs userA and userB. The caller must be one of them.
func (s *Service) CreateCouple(ctx context.Context, userA, userB uint) (*domain.Couple, error) {
	caller, err := s.RequireCurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if caller.ID != userA && caller.ID != userB {
		return nil, domain.ErrUnauthorized
	}
	var couple *domain.Couple
	err = s.store.InTx(ctx, func(tx store.Store) error {
		couple, err = pair(ctx, tx, userA, userB)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("service.CreateCouple: %w", err)
	}
	logCouple(couple, "create_couple")
	return couple, nil
}

// pair inserts the couple (userA, userB) after checking that neither user is
// already part of one. It must run inside a transaction.
func pair(ctx context.Context, tx store.Store, userA, userB uint) (*domain.Couple, error) {
	if userA == userB {
		return nil, domain.ErrSelfPairing
	}
	// Serialise concurrent pairings that touch either user. The couple reads
	// below see the snapshot taken after the lock, so they must come second.
	if err := tx.LockUsers(ctx, userA, userB); err != nil {
		return nil, fmt.Errorf("service.pair: %w", err)
	}
	for _, id := range []uint{userA, userB} {
		existing, err := findCouple(ctx, tx, id)
		if err != nil {
			return nil, fmt.Errorf("service.pair: %w", err)
		}
		if existing == nil {
			continue
		}
		if existing.Matches(userA, userB) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, domain.ErrAlreadyPaired
	}
	c := &domain.Couple{UserAID: userA, UserBID: userB}
	if err := tx.CreateCouple(ctx, c); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.ErrAlreadyPaired
		}
		return nil, fmt.Errorf("service.pair: %w", err)
	}
	return c, nil
}

func logCouple(c *domain.Couple, kind string) {
	logrus.WithFields(logrus.Fields{
		"couple_id": c.ID,
		"user_a_id": c.UserAID,
		"user_b_id": c.UserBID,
		"type":      kind,
	}).Info("Couple created")
}

// ListAllCouples returns every couple. Admins only.
func (s *Service) ListAllCouples(ctx context.Context) ([]domain.Couple, error) {
	caller, err := s.RequireCurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if caller.Role != domain.RoleAdmin {
		return nil, domain.ErrUnauthorized
	}
	couples, err := s.store.ListCouples(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ListAllCouples: %w", err)
	}
	return couples, nil
}

// PartnerOf returns the partner of userID, if paired
func (s *Service) PartnerOf(ctx context.Context, userID uint) (uint, bool, error) {
	c, err := s.FindCoupleForUser(ctx, userID)
	if err != nil || c == nil {
		return 0, false, err
	}
	partner, ok := c.Partner(userID)
	return partner, ok, nil
}
