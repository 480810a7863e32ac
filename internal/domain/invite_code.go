package domain

import "strings"

// Invite code shape. The alphabet leaves out 0, O, 1 and I so a code read
// aloud or copied by hand cannot be mistyped.
const (
	InviteCodeAlphabet    = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	InviteCodeLength      = 6
	MaxInviteCodeAttempts = 5
)

// InviteCode Model
type InviteCode struct {
	ID               uint   `gorm:"primaryKey" json:"id"`                          // Primary key
	Code             string `gorm:"size:6;uniqueIndex;not null" json:"code"`       // Human-transcribable code
	OwnerUserID      uint   `gorm:"index;not null" json:"owner_user_id"`           // User who issued the code
	IsActive         bool   `gorm:"not null" json:"is_active"`                     // Cleared on redemption
	RedeemedByUserID *uint  `json:"redeemed_by_user_id,omitempty"`                 // Set once, on redemption
	CreatedAt        int64  `gorm:"autoCreateTime:milli;index" json:"created_at"` // Timestamp of creation in milliseconds
}

// Redeemable reports whether the code can still bootstrap a couple
func (c InviteCode) Redeemable() bool {
	return c.IsActive && c.RedeemedByUserID == nil
}

// NormalizeInviteCode trims whitespace and upper-cases user input
func NormalizeInviteCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidInviteCodeFormat reports whether code has the issued length and alphabet
func ValidInviteCodeFormat(code string) bool {
	if len(code) != InviteCodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if strings.IndexByte(InviteCodeAlphabet, code[i]) < 0 {
			return false
		}
	}
	return true
}
