package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"shared_pockets/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// PocketInput describes a pocket to create
type PocketInput struct {
	Label       string
	Description string
	Target      *decimal.Decimal
	Value       *decimal.Decimal // nil means zero
	MemberIDs   []uint
}

// CreatePocket creates a pocket shared by in.MemberIDs. The caller must be
// one of the members.
func (s *Service) CreatePocket(ctx context.Context, in PocketInput) (*domain.Pocket, error) {
	caller, err := s.RequireCurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(in.MemberIDs, caller.ID) {
		return nil, domain.ErrUnauthorized
	}
	label := strings.TrimSpace(in.Label)
	if label == "" {
		return nil, fmt.Errorf("%w: label is required", domain.ErrInvalidInput)
	}
	members := slices.Clone(in.MemberIDs)
	slices.Sort(members)
	members = slices.Compact(members)
	if len(members) != len(in.MemberIDs) || len(members) > domain.MaxPocketMembers {
		return nil, fmt.Errorf("%w: a pocket has one or two distinct members", domain.ErrInvalidInput)
	}
	p := &domain.Pocket{
		Label:       label,
		Description: strings.TrimSpace(in.Description),
		Target:      in.Target,
		Value:       decimal.Zero,
		CreatedBy:   caller.ID,
	}
	if in.Value != nil {
		p.Value = *in.Value
	}
	for _, id := range in.MemberIDs {
		p.Members = append(p.Members, domain.PocketMember{UserID: id})
	}
	if err := s.store.CreatePocket(ctx, p); err != nil {
		return nil, fmt.Errorf("service.CreatePocket: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"user_id":   caller.ID,
		"pocket_id": p.ID,
		"members":   p.MemberIDs(),
	}).Info("Pocket created")
	return p, nil
}

// ListPocketsForUsers returns every pocket shared with any of userIDs
func (s *Service) ListPocketsForUsers(ctx context.Context, userIDs []uint) ([]domain.Pocket, error) {
	if _, err := s.RequireCurrentUser(ctx); err != nil {
		return nil, err
	}
	pockets, err := s.store.PocketsForUsers(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("service.ListPocketsForUsers: %w", err)
	}
	return pockets, nil
}

// MembershipFor returns userID followed by their partner, if paired
func (s *Service) MembershipFor(ctx context.Context, userID uint) ([]uint, error) {
	ids := []uint{userID}
	partner, ok, err := s.PartnerOf(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.MembershipFor: %w", err)
	}
	if ok {
		ids = append(ids, partner)
	}
	return ids, nil
}

// ListMyPockets returns the pockets of the caller and their partner
func (s *Service) ListMyPockets(ctx context.Context) ([]domain.Pocket, error) {
	caller, err := s.RequireCurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	ids, err := s.MembershipFor(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	return s.ListPocketsForUsers(ctx, ids)
}

// memberPocket loads pocketID and checks the caller belongs to it
func (s *Service) memberPocket(ctx context.Context, pocketID uint) (*domain.User, *domain.Pocket, error) {
	caller, err := s.RequireCurrentUser(ctx)
	if err != nil {
		return nil, nil, err
	}
	p, err := s.store.PocketByID(ctx, pocketID)
	if err != nil {
		return nil, nil, err
	}
	if !p.HasMember(caller.ID) {
		return nil, nil, domain.ErrUnauthorized
	}
	return caller, p, nil
}

// UpdatePocket applies update to a pocket the caller belongs to
func (s *Service) UpdatePocket(ctx context.Context, pocketID uint, update domain.PocketUpdate) (*domain.Pocket, error) {
	if update.Empty() {
		return nil, fmt.Errorf("%w: nothing to update", domain.ErrInvalidInput)
	}
	if update.Label != nil {
		label := strings.TrimSpace(*update.Label)
		if label == "" {
			return nil, fmt.Errorf("%w: label cannot be empty", domain.ErrInvalidInput)
		}
		update.Label = &label
	}
	caller, _, err := s.memberPocket(ctx, pocketID)
	if err != nil {
		return nil, fmt.Errorf("service.UpdatePocket: %w", err)
	}
	if err := s.store.UpdatePocket(ctx, pocketID, update); err != nil {
		return nil, fmt.Errorf("service.UpdatePocket: %w", err)
	}
	updated, err := s.store.PocketByID(ctx, pocketID)
	if err != nil {
		return nil, fmt.Errorf("service.UpdatePocket: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"user_id":   caller.ID,
		"pocket_id": pocketID,
	}).Info("Pocket updated")
	return updated, nil
}

// DeletePocket removes a pocket the caller belongs to
func (s *Service) DeletePocket(ctx context.Context, pocketID uint) error {
	caller, _, err := s.memberPocket(ctx, pocketID)
	if err != nil {
		return fmt.Errorf("service.DeletePocket: %w", err)
	}
	if err := s.store.DeletePocket(ctx, pocketID); err != nil {
		return fmt.Errorf("service.DeletePocket: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"user_id":   caller.ID,
		"pocket_id": pocketID,
	}).Info("Pocket deleted")
	return nil
}
