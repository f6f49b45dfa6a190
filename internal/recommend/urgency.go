package recommend

import (
	"sort"
	"strings"
	"time"
)

// Urgency bands, in days until expiration.
const (
	urgentDays = 2
	soonDays   = 7
	laterDays  = 14
)

var expirationLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseExpiration parses an ISO date or datetime. It reports false for
// empty or malformed input.
func ParseExpiration(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range expirationLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DaysUntil returns the whole calendar days from ref to exp. Each is cut
// to the date it shows in its own zone, so "2025-01-10T00:30+02:00" is the
// 10th and a local ref uses the local day. Negative means expired.
func DaysUntil(exp, ref time.Time) int {
	ey, em, ed := exp.Date()
	ry, rm, rd := ref.Date()
	e := time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC)
	r := time.Date(ry, rm, rd, 0, 0, 0, 0, time.UTC)
	return int(e.Sub(r).Hours() / 24)
}

// Urgency maps an expiration date to a score in [0,1]. Expired items score
// 1.0, items more than two weeks out score 0. A nil date scores 0.
func Urgency(expiration *time.Time, ref time.Time) float64 {
	if expiration == nil {
		return 0
	}
	return urgencyForDays(DaysUntil(*expiration, ref))
}

// UrgencyFromString is Urgency over a raw date string. Unparseable input
// scores 0.
func UrgencyFromString(raw string, ref time.Time) float64 {
	t, ok := ParseExpiration(raw)
	if !ok {
		return 0
	}
	return Urgency(&t, ref)
}

func urgencyForDays(d int) float64 {
	switch {
	case d < 0:
		return 1.0
	case d <= urgentDays:
		return 0.9 - 0.05*float64(d)
	case d <= soonDays:
		return 0.6 - 0.05*float64(d-urgentDays)
	case d <= laterDays:
		return 0.3 - 0.02*float64(d-soonDays)
	default:
		return 0
	}
}

// PantryUrgency is the mean urgency over every pantry item. Items without
// a date count as 0. An empty pantry scores 0.
func PantryUrgency(pantry Pantry, ref time.Time) float64 {
	if len(pantry) == 0 {
		return 0
	}
	ids := make([]int64, 0, len(pantry))
	for id := range pantry {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var total float64
	for _, id := range ids {
		total += UrgencyFromString(pantry[id].ExpirationDate, ref)
	}
	return total / float64(len(pantry))
}
