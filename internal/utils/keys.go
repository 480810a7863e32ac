package utils

import "strconv"

// CoupleKey caches the couple lookup for a user
func CoupleKey(userID uint) string {
	return "couple:user:" + strconv.FormatUint(uint64(userID), 10)
}

// ActiveInviteKey caches the active invite code of a user
func ActiveInviteKey(userID uint) string {
	return "invite:active:user:" + strconv.FormatUint(uint64(userID), 10)
}
