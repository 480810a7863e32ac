package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"shared_pockets/internal/domain"
	"shared_pockets/internal/store"

	"github.com/sirupsen/logrus"
)

// IdentityAttributes is the part of an identity provider event we read
type IdentityAttributes struct {
	ExternalID string
	Username   string
	Name       string
	Email      string
}

// Validate checks the fields every user record needs
func (a IdentityAttributes) Validate() error {
	if strings.TrimSpace(a.ExternalID) == "" {
		return fmt.Errorf("%w: external id is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(a.Email) == "" {
		return fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}
	return nil
}

// ResolveCurrentUser returns the caller's user record, or nil when the caller
// is anonymous or has no record yet
func (s *Service) ResolveCurrentUser(ctx context.Context) (*domain.User, error) {
	externalID, ok := IdentityFrom(ctx)
	if !ok {
		return nil, nil
	}
	u, err := s.store.UserByExternalID(ctx, externalID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("service.ResolveCurrentUser: %w", err)
	}
	return u, nil
}

// RequireCurrentUser is ResolveCurrentUser for mutations: no user is an error
func (s *Service) RequireCurrentUser(ctx context.Context) (*domain.User, error) {
	u, err := s.ResolveCurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUnauthenticated
	}
	return u, nil
}

// UpsertFromIdentityEvent creates or refreshes the user keyed by external id.
// When a concurrent event for the same new id inserts first, the write is
// retried as an update of that row.
func (s *Service) UpsertFromIdentityEvent(ctx context.Context, attrs IdentityAttributes) (*domain.User, error) {
	if err := attrs.Validate(); err != nil {
		return nil, err
	}
	out, err := s.upsertUser(ctx, attrs)
	if errors.Is(err, domain.ErrDuplicate) {
		out, err = s.upsertUser(ctx, attrs) // The rival row is committed now
	}
	if err != nil {
		return nil, fmt.Errorf("service.UpsertFromIdentityEvent: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"user_id":     out.ID,
		"external_id": out.ExternalID,
	}).Info("User upserted from identity event")
	return out, nil
}

// upsertUser is one create-or-update attempt in its own transaction
func (s *Service) upsertUser(ctx context.Context, attrs IdentityAttributes) (*domain.User, error) {
	var out *domain.User
	err := s.store.InTx(ctx, func(tx store.Store) error {
		u, err := tx.UserByExternalID(ctx, attrs.ExternalID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			u = &domain.User{ExternalID: attrs.ExternalID, Role: domain.RoleUser}
			applyAttributes(u, attrs)
			if err := tx.CreateUser(ctx, u); err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			applyAttributes(u, attrs)
			if err := tx.SaveUser(ctx, u); err != nil {
				return err
			}
		}
		out = u
		return nil
	})
	return out, err
}

func applyAttributes(u *domain.User, attrs IdentityAttributes) {
	u.Username = strings.TrimSpace(attrs.Username)
	u.Name = strings.TrimSpace(attrs.Name)
	u.Email = strings.TrimSpace(attrs.Email)
}

// DeleteFromIdentityEvent removes the user for externalID. A missing user is
// logged and ignored.
func (s *Service) DeleteFromIdentityEvent(ctx context.Context, externalID string) error {
	u, err := s.store.UserByExternalID(ctx, externalID)
	if errors.Is(err, domain.ErrNotFound) {
		logrus.WithField("external_id", externalID).Warn("Can't delete user, none exists for external id")
		return nil
	}
	if err != nil {
		return fmt.Errorf("service.DeleteFromIdentityEvent: %w", err)
	}
	if err := s.store.DeleteUser(ctx, u.ID); err != nil {
		return fmt.Errorf("service.DeleteFromIdentityEvent: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"user_id":     u.ID,
		"external_id": externalID,
	}).Info("User deleted from identity event")
	return nil
}

// UpdateAddress sets the caller's postal address
func (s *Service) UpdateAddress(ctx context.Context, address string) (*domain.User, error) {
	u, err := s.RequireCurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, fmt.Errorf("%w: address cannot be empty", domain.ErrInvalidInput)
	}
	if len([]rune(address)) > domain.MaxAddressLength {
		return nil, fmt.Errorf("%w: address is too long (maximum %d characters)", domain.ErrInvalidInput, domain.MaxAddressLength)
	}
	u.Address = address
	if err := s.store.SaveUser(ctx, u); err != nil {
		return nil, fmt.Errorf("service.UpdateAddress: %w", err)
	}
	return u, nil
}
