package recommend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var refDate = time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)

func daysFrom(ref time.Time, d int) time.Time {
	return ref.AddDate(0, 0, d)
}

func TestUrgencyBands(t *testing.T) {
	cases := []struct {
		days int
		want float64
	}{
		{-30, 1.0},
		{-1, 1.0},
		{0, 0.9},
		{1, 0.85},
		{2, 0.8},
		{3, 0.55},
		{7, 0.35},
		{8, 0.28},
		{14, 0.16},
		{15, 0.0},
		{365, 0.0},
	}
	for _, tc := range cases {
		exp := daysFrom(refDate, tc.days)
		assert.InDelta(t, tc.want, Urgency(&exp, refDate), 1e-9, "d=%d", tc.days)
	}
}

func TestUrgencyMonotonic(t *testing.T) {
	prev := Urgency(&refDate, refDate)
	for d := 1; d <= 30; d++ {
		exp := daysFrom(refDate, d)
		cur := Urgency(&exp, refDate)
		assert.LessOrEqual(t, cur, prev, "urgency increased at d=%d", d)
		prev = cur
	}
}

func TestUrgencyUnknownDates(t *testing.T) {
	assert.Equal(t, 0.0, Urgency(nil, refDate))
	assert.Equal(t, 0.0, UrgencyFromString("", refDate))
	assert.Equal(t, 0.0, UrgencyFromString("not-a-date", refDate))
	assert.Equal(t, 0.0, UrgencyFromString("2025-13-45", refDate))
}

func TestUrgencyTomorrow(t *testing.T) {
	u := UrgencyFromString("2025-03-11", refDate)
	assert.GreaterOrEqual(t, u, 0.80)
	assert.Less(t, u, 0.90)
}

func TestParseExpiration(t *testing.T) {
	for _, raw := range []string{
		"2025-03-12",
		"2025-03-12T08:00:00Z",
		"2025-03-12T08:00:00.123456Z",
		"2025-03-12T08:00:00+02:00",
		"2025-03-12T08:00:00",
		"2025-03-12T08:00:00.5",
		" 2025-03-12 ",
	} {
		got, ok := ParseExpiration(raw)
		require.True(t, ok, raw)
		assert.Equal(t, 2, DaysUntil(got, refDate), raw)
	}

	_, ok := ParseExpiration("12/03/2025")
	assert.False(t, ok)
}

func TestDaysUntilUsesCalendarDates(t *testing.T) {
	late := time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC)
	early := time.Date(2025, 3, 11, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, 1, DaysUntil(early, late))
	assert.Equal(t, -1, DaysUntil(late, early))
	assert.Equal(t, 0, DaysUntil(late, refDate))

	t.Run("should use the date written in an offset timestamp", func(t *testing.T) {
		ref := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
		assert.InDelta(t, 0.9, UrgencyFromString("2025-01-10T00:30:00+02:00", ref), 1e-9)
		assert.Equal(t, UrgencyFromString("2025-01-10", ref), UrgencyFromString("2025-01-10T00:30:00+02:00", ref))
	})

	t.Run("should use the local calendar day of the reference", func(t *testing.T) {
		est := time.FixedZone("EST", -5*60*60)
		ref := time.Date(2025, 1, 9, 20, 0, 0, 0, est)
		exp, ok := ParseExpiration("2025-01-10")
		require.True(t, ok)
		assert.Equal(t, 1, DaysUntil(exp, ref))
	})
}

func TestPantryUrgency(t *testing.T) {
	t.Run("should be zero for an empty pantry", func(t *testing.T) {
		assert.Equal(t, 0.0, PantryUrgency(Pantry{}, refDate))
	})

	t.Run("should average over every item including undated ones", func(t *testing.T) {
		p := NewPantry([]InventoryItem{
			{IngredientID: 1, ExpirationDate: "2025-03-09"}, // expired: 1.0
			{IngredientID: 2, ExpirationDate: "2025-03-10"}, // today: 0.9
			{IngredientID: 3},                               // undated: 0
			{IngredientID: 4, ExpirationDate: "garbage"},    // 0
		})
		assert.InDelta(t, 1.9/4, PantryUrgency(p, refDate), 1e-9)
	})
}
