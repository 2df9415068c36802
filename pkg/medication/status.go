package medication

import "time"

type Status string

const (
	StatusFresh        Status = "fresh"
	StatusExpiringSoon Status = "expiring-soon"
	StatusExpired      Status = "expired"
)

// expiringSoonWindowDays is the number of days before expiry at which an
// item stops being fresh. Both the 0-day and the 30-day boundary belong to
// the expiring-soon bucket.
const expiringSoonWindowDays = 30

func IsValidStatus(status string) bool {
	switch Status(status) {
	case StatusFresh, StatusExpiringSoon, StatusExpired:
		return true
	}
	return false
}

// DeriveStatus classifies an expiry date relative to today. Both dates are
// normalized to midnight first, so the result does not depend on the
// caller's time of day.
func DeriveStatus(expiryDate, today time.Time) Status {
	expiry := atMidnight(expiryDate)
	now := atMidnight(today)

	daysRemaining := int(expiry.Sub(now) / (24 * time.Hour))

	switch {
	case daysRemaining < 0:
		return StatusExpired
	case daysRemaining <= expiringSoonWindowDays:
		return StatusExpiringSoon
	default:
		return StatusFresh
	}
}

func atMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
