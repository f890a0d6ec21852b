// Package expiry decides which donation entries need supervisor action
// before they spoil.
package expiry

import (
	"strings"
	"time"

	"github.com/rescueops/foodledger/internal/domain"
)

// Window is how far ahead of expiry an entry counts as near-expiry.
const Window = 48 * time.Hour

// Only the time-sensitive categories are alerted on.
var alertCategories = map[string]bool{
	"frozen":  true,
	"produce": true,
}

// NearExpiry reports whether entry needs action at time now. The comparison
// is in whole calendar days (UTC): an entry qualifies when its expiry date is
// strictly after today and no later than the date 48 hours out. An entry
// expiring today is already spoiled territory and does not qualify, and
// entries with no parseable expiry date never qualify.
func NearExpiry(entry *domain.Entry, now time.Time) bool {
	if entry == nil || !alertCategories[strings.ToLower(entry.FoodType)] {
		return false
	}

	expires, ok := ParseDate(entry.ExpiryDate)
	if !ok {
		return false
	}

	today := dateOf(now)
	threshold := dateOf(now.Add(Window))
	return expires.After(today) && !expires.After(threshold)
}

// ParseDate parses a calendar date, tolerating a trailing time component.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if len(s) > 10 {
		s = s[:10]
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func dateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
