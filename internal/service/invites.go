package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	"shared_pockets/internal/domain"
	"shared_pockets/internal/store"

	"github.com/sirupsen/logrus"
)

// RandomInviteCode draws InviteCodeLength symbols uniformly from the invite
// alphabet. The alphabet has 32 symbols, so the low five bits of a random
// byte index it without bias.
func RandomInviteCode() (string, error) {
	buf := make([]byte, domain.InviteCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = domain.InviteCodeAlphabet[int(b)%len(domain.InviteCodeAlphabet)]
	}
	return string(buf), nil
}

// GenerateInviteCode issues a fresh code for ownerUserID, who must be the caller
func (s *Service) GenerateInviteCode(ctx context.Context, ownerUserID uint) (*domain.InviteCode, error) {
	caller, err := s.RequireCurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if caller.ID != ownerUserID {
		return nil, domain.ErrUnauthorized
	}
	for attempt := 1; attempt <= domain.MaxInviteCodeAttempts; attempt++ {
		candidate, err := s.newCode()
		if err != nil {
			return nil, fmt.Errorf("service.GenerateInviteCode: %w", err)
		}
		_, err = s.store.InviteCodeByCode(ctx, candidate)
		if err == nil {
			logrus.WithField("attempt", attempt).Debug("Invite code collision")
			continue // Taken, draw again
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("service.GenerateInviteCode: %w", err)
		}
		code := &domain.InviteCode{Code: candidate, OwnerUserID: ownerUserID, IsActive: true}
		err = s.store.CreateInviteCode(ctx, code)
		if errors.Is(err, domain.ErrDuplicate) {
			continue // Lost a race for the same code
		}
		if err != nil {
			return nil, fmt.Errorf("service.GenerateInviteCode: %w", err)
		}
		logrus.WithFields(logrus.Fields{
			"user_id":  ownerUserID,
			"code_id":  code.ID,
			"attempts": attempt,
		}).Info("Invite code generated")
		return code, nil
	}
	logrus.WithField("user_id", ownerUserID).Error("Invite code generation exhausted its attempts")
	return nil, domain.ErrCodeGenerationFailed
}

// GetActiveInviteCode returns the owner's newest active, unredeemed code, or nil
func (s *Service) GetActiveInviteCode(ctx context.Context, ownerUserID uint) (*domain.InviteCode, error) {
	codes, err := s.store.InviteCodesByOwner(ctx, ownerUserID)
	if err != nil {
		return nil, fmt.Errorf("service.GetActiveInviteCode: %w", err)
	}
	for i := range codes {
		if codes[i].Redeemable() {
			return &codes[i], nil
		}
	}
	return nil, nil
}

// RedeemInviteCode consumes code on behalf of redeemingUserID, who must be the
// caller, and pairs them with the code's owner. Marking the code and creating
// the couple commit together or not at all.
func (s *Service) RedeemInviteCode(ctx context.Context, code string, redeemingUserID uint) (*domain.Couple, error) {
	caller, err := s.RequireCurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if caller.ID != redeemingUserID {
		return nil, domain.ErrUnauthorized
	}
	code = domain.NormalizeInviteCode(code)
	if !domain.ValidInviteCodeFormat(code) {
		return nil, fmt.Errorf("service.RedeemInviteCode: %w", domain.ErrInvalidCode) // Never issued, no lookup needed
	}
	var couple *domain.Couple
	err = s.store.InTx(ctx, func(tx store.Store) error {
		entry, err := tx.InviteCodeByCode(ctx, code)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrInvalidCode
		}
		if err != nil {
			return err
		}
		if !entry.Redeemable() {
			return domain.ErrInvalidCode
		}
		if entry.OwnerUserID == redeemingUserID {
			return domain.ErrSelfPairing
		}
		if err := tx.MarkInviteCodeRedeemed(ctx, entry.ID, redeemingUserID); err != nil {
			return err
		}
		couple, err = pair(ctx, tx, entry.OwnerUserID, redeemingUserID)
		return err
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id": redeemingUserID,
			"error":   err.Error(),
		}).Warn("Invite code redemption failed")
		return nil, fmt.Errorf("service.RedeemInviteCode: %w", err)
	}
	logCouple(couple, "redeem_invite_code")
	return couple, nil
}
