package domain

import (
	"testing"
	"time"
)

func TestLoginTokenExpired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	cases := []struct {
		name      string
		expiresAt *time.Time
		want      bool
	}{
		{"no deadline", nil, false},
		{"deadline in the future", &future, false},
		{"deadline passed", &past, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			token := &LoginToken{ExpiresAt: tc.expiresAt}
			if got := token.Expired(now); got != tc.want {
				t.Errorf("Expired() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestLoginTokenDisplayName(t *testing.T) {
	cases := []struct {
		name  string
		token LoginToken
		want  string
	}{
		{"explicit name wins", LoginToken{Name: "Ms. Lan", Email: "lan@example.com"}, "Ms. Lan"},
		{"falls back to local part", LoginToken{Email: "lan@example.com"}, "lan"},
		{"email without at sign", LoginToken{Email: "lan"}, "lan"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.token.DisplayName(); got != tc.want {
				t.Errorf("DisplayName() = %q, want %q", got, tc.want)
			}
		})
	}
}
