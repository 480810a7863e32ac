package domain

// Couple Model
//
// UserAID is the inviter and UserBID the redeemer. The order only matters for
// indexing; the pairing itself is symmetric.
type Couple struct {
	ID        uint  `gorm:"primaryKey" json:"id"`                   // Primary key
	UserAID   uint  `gorm:"uniqueIndex;not null" json:"user_a_id"`  // Inviting user
	UserBID   uint  `gorm:"uniqueIndex;not null" json:"user_b_id"`  // Redeeming user
	CreatedAt int64 `gorm:"autoCreateTime:milli" json:"created_at"` // Timestamp of creation in milliseconds
}

// HasMember reports whether userID is either side of the couple
func (c Couple) HasMember(userID uint) bool {
	return c.UserAID == userID || c.UserBID == userID
}

// Partner returns the member that is not userID
func (c Couple) Partner(userID uint) (uint, bool) {
	switch userID {
	case c.UserAID:
		return c.UserBID, true
	case c.UserBID:
		return c.UserAID, true
	}
	return 0, false
}

// Matches reports whether the couple joins a and b, in either order
func (c Couple) Matches(a, b uint) bool {
	return (c.UserAID == a && c.UserBID == b) || (c.UserAID == b && c.UserBID == a)
}
