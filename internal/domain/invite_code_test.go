package domain

import (
	"strings"
	"testing"
)

func TestInviteCodeAlphabet(t *testing.T) {
	if got := len(InviteCodeAlphabet); got != 32 {
		t.Fatalf("len(InviteCodeAlphabet) = %d, want 32", got)
	}
	seen := map[rune]bool{}
	for _, r := range InviteCodeAlphabet {
		if seen[r] {
			t.Errorf("duplicate symbol %q", r)
		}
		seen[r] = true
	}
	if strings.ContainsAny(InviteCodeAlphabet, "0O1I") {
		t.Errorf("alphabet %q contains an ambiguous symbol", InviteCodeAlphabet)
	}
}

func TestNormalizeInviteCode(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"ABC234", "ABC234"},
		{" abc234 ", "ABC234"},
		{"\tXyZ987\n", "XYZ987"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeInviteCode(tt.in); got != tt.want {
			t.Errorf("NormalizeInviteCode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidInviteCodeFormat(t *testing.T) {
	tests := []struct {
		name  string
		code  string
		valid bool
	}{
		{"valid", "ABC234", true},
		{"too short", "ABC23", false},
		{"too long", "ABC2345", false},
		{"lowercase", "abc234", false},
		{"ambiguous zero", "ABC230", false},
		{"ambiguous I", "IBC234", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidInviteCodeFormat(tt.code); got != tt.valid {
				t.Errorf("ValidInviteCodeFormat(%q) = %v, want %v", tt.code, got, tt.valid)
			}
		})
	}
}

func TestInviteCodeRedeemable(t *testing.T) {
	redeemer := uint(2)
	if !(InviteCode{IsActive: true}).Redeemable() {
		t.Error("fresh code should be redeemable")
	}
	if (InviteCode{IsActive: false}).Redeemable() {
		t.Error("inactive code should not be redeemable")
	}
	if (InviteCode{IsActive: true, RedeemedByUserID: &redeemer}).Redeemable() {
		t.Error("redeemed code should not be redeemable")
	}
}
