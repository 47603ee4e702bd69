package types

import "testing"

func TestValidPhoneNumber(t *testing.T) {
	cases := []struct {
		phone string
		want  bool
	}{
		{"08012345678", true},
		{"07098765432", true},
		{"09112345678", true},
		{"08312345678", false}, // invalid prefix
		{"0801234567", false},  // too short
		{"080123456789", false},
		{"+2348012345678", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := ValidPhoneNumber(tc.phone); got != tc.want {
			t.Errorf("ValidPhoneNumber(%q) = %v, want %v", tc.phone, got, tc.want)
		}
	}
}
