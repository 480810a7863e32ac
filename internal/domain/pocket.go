package domain

import "github.com/shopspring/decimal"

// Pocket Model
type Pocket struct {
	ID          uint             `gorm:"primaryKey" json:"id"`                                           // Primary key
	Label       string           `gorm:"size:255;not null" json:"label"`                                 // Display label
	Description string           `gorm:"size:1000" json:"description,omitempty"`                         // Optional description
	Target      *decimal.Decimal `gorm:"type:decimal(15,2)" json:"target,omitempty"`                     // Optional savings target
	Value       decimal.Decimal  `gorm:"type:decimal(15,2);not null;default:0" json:"value"`             // Current value
	CreatedBy   uint             `gorm:"index;not null" json:"created_by"`                               // Creating member
	Members     []PocketMember   `gorm:"foreignKey:PocketID;constraint:OnDelete:CASCADE;" json:"members"` // Membership set
	CreatedAt   int64            `gorm:"autoCreateTime:milli" json:"created_at"`                         // Timestamp of creation in milliseconds
	UpdatedAt   int64            `gorm:"autoUpdateTime:milli" json:"updated_at"`                         // Timestamp of last update in milliseconds
}

// PocketMember links a user into a pocket's membership set
type PocketMember struct {
	PocketID uint `gorm:"primaryKey" json:"-"`             // Pocket
	UserID   uint `gorm:"primaryKey;index" json:"user_id"` // Member
}

// MaxPocketMembers is one user plus their partner
const MaxPocketMembers = 2

// MemberIDs returns the member user ids in stored order
func (p Pocket) MemberIDs() []uint {
	ids := make([]uint, 0, len(p.Members))
	for _, m := range p.Members {
		ids = append(ids, m.UserID)
	}
	return ids
}

// HasMember reports whether userID belongs to the pocket
func (p Pocket) HasMember(userID uint) bool {
	for _, m := range p.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// SharesAny reports whether any of userIDs is a member
func (p Pocket) SharesAny(userIDs []uint) bool {
	for _, id := range userIDs {
		if p.HasMember(id) {
			return true
		}
	}
	return false
}

// PocketUpdate carries the fields a member may change; nil means untouched
type PocketUpdate struct {
	Label       *string          `json:"label"`       // New label
	Description *string          `json:"description"` // New description
	Target      *decimal.Decimal `json:"target"`      // New target
	Value       *decimal.Decimal `json:"value"`       // New value
}

// Empty reports whether the update changes nothing
func (u PocketUpdate) Empty() bool {
	return u.Label == nil && u.Description == nil && u.Target == nil && u.Value == nil
}
