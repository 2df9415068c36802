package medication

import (
	"testing"
	"time"
)

func date(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDeriveStatusBoundaries(t *testing.T) {
	today := date("2024-01-01")

	cases := []struct {
		expiry string
		want   Status
	}{
		{"2023-12-31", StatusExpired},
		{"2024-01-01", StatusExpiringSoon}, // expiring today is not yet expired
		{"2024-01-31", StatusExpiringSoon}, // exactly 30 days out
		{"2024-02-01", StatusFresh},        // 31 days out
	}

	for _, tc := range cases {
		got := DeriveStatus(date(tc.expiry), today)
		if got != tc.want {
			t.Errorf("DeriveStatus(%s, 2024-01-01) = %q, want %q", tc.expiry, got, tc.want)
		}
	}
}

func TestDeriveStatusIgnoresTimeOfDay(t *testing.T) {
	expiry := date("2024-01-15")

	morning := time.Date(2024, 1, 10, 0, 1, 0, 0, time.UTC)
	night := time.Date(2024, 1, 10, 23, 59, 59, 0, time.UTC)

	if DeriveStatus(expiry, morning) != DeriveStatus(expiry, night) {
		t.Error("status should not depend on the caller's time of day")
	}

	lateExpiry := time.Date(2024, 1, 15, 23, 0, 0, 0, time.UTC)
	if DeriveStatus(lateExpiry, morning) != DeriveStatus(expiry, morning) {
		t.Error("status should not depend on the expiry's time of day")
	}
}

func TestDeriveStatusIdempotent(t *testing.T) {
	expiry := date("2024-01-20")
	today := date("2024-01-01")

	first := DeriveStatus(expiry, today)
	second := DeriveStatus(expiry, today)
	if first != second {
		t.Errorf("repeated derivation differs: %q then %q", first, second)
	}

	if !expiry.Equal(date("2024-01-20")) || !today.Equal(date("2024-01-01")) {
		t.Error("DeriveStatus mutated its arguments")
	}
}

func TestDeriveStatusFarPast(t *testing.T) {
	if got := DeriveStatus(date("2020-06-01"), date("2024-01-01")); got != StatusExpired {
		t.Errorf("expected long-expired item to be expired, got %q", got)
	}
}
