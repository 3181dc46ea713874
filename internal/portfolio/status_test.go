package portfolio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/propcover/insurance-master/internal/model"
)

var now = time.Date(2025, time.March, 15, 10, 30, 0, 0, time.UTC)

func day(offset int) time.Time { return now.AddDate(0, 0, offset) }

func iso(t time.Time) string { return t.Format(ISODate) }

func TestClassifyBoundaries(t *testing.T) {
	cl := Classifier{}

	cases := []struct {
		name   string
		exp    time.Time
		status model.Status
	}{
		{"expired yesterday", day(-1), model.StatusExpired},
		{"expires today", day(0), model.StatusExpiringSoon},
		{"expires in 1 day", day(1), model.StatusExpiringSoon},
		{"last expiring-soon day", day(30), model.StatusExpiringSoon},
		{"first active day", day(31), model.StatusActive},
		{"far future", day(365), model.StatusActive},
		{"long expired", day(-400), model.StatusExpired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.status, cl.Classify(tc.exp, now))
		})
	}
}

func TestClassifyIgnoresTimeOfDay(t *testing.T) {
	cl := Classifier{}

	// Expiring late tonight is still "today" — classification depends
	// only on the calendar date, not the clock.
	lateToday := time.Date(2025, time.March, 15, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, model.StatusExpiringSoon, cl.Classify(lateToday, now))

	earlyYesterday := time.Date(2025, time.March, 14, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, model.StatusExpired, cl.Classify(earlyYesterday, now))
}

func TestClassifyCustomWindow(t *testing.T) {
	cl := Classifier{ExpiringSoonDays: 45}
	assert.Equal(t, model.StatusExpiringSoon, cl.Classify(day(45), now))
	assert.Equal(t, model.StatusActive, cl.Classify(day(46), now))
}

func TestClassifyDateFailsClosed(t *testing.T) {
	cl := Classifier{}
	assert.Equal(t, model.StatusMissing, cl.ClassifyDate("not-a-date", now))
	assert.Equal(t, model.StatusMissing, cl.ClassifyDate("", now))
	assert.Equal(t, model.StatusExpiringSoon, cl.ClassifyDate(iso(day(10)), now))
}

func TestClassifyPolicies(t *testing.T) {
	cl := Classifier{}
	ps := []model.Policy{
		{ID: "p1", ExpirationDate: iso(day(-5))},
		{ID: "p2", ExpirationDate: iso(day(10))},
		{ID: "p3", ExpirationDate: iso(day(90))},
		{ID: "p4", ExpirationDate: "bogus"},
	}
	cl.ClassifyPolicies(ps, now)

	assert.Equal(t, model.StatusExpired, ps[0].Status)
	assert.Equal(t, model.StatusExpiringSoon, ps[1].Status)
	assert.Equal(t, model.StatusActive, ps[2].Status)
	assert.Equal(t, model.StatusMissing, ps[3].Status)
}

func TestIsExpiringWithin(t *testing.T) {
	in59 := model.Policy{ExpirationDate: iso(day(59))}
	in61 := model.Policy{ExpirationDate: iso(day(61))}
	past := model.Policy{ExpirationDate: iso(day(-3))}

	assert.True(t, IsExpiringWithin(60, []model.Policy{in59}, now))
	assert.False(t, IsExpiringWithin(60, []model.Policy{in61}, now))
	assert.False(t, IsExpiringWithin(60, []model.Policy{past}, now))
	assert.False(t, IsExpiringWithin(60, nil, now))

	// Boundary: exactly 60 days out is inside the window, today is not
	// (the flag only covers strictly-future expirations).
	assert.True(t, IsExpiringWithin(60, []model.Policy{{ExpirationDate: iso(day(60))}}, now))
	assert.False(t, IsExpiringWithin(60, []model.Policy{{ExpirationDate: iso(day(0))}}, now))

	// One qualifying policy among many is enough.
	assert.True(t, IsExpiringWithin(60, []model.Policy{past, in61, in59}, now))
}

func TestCoverageGaps(t *testing.T) {
	ps := []model.Policy{
		{CoverageType: model.CoverageProperty},
		{CoverageType: model.CoverageGeneralLiability},
	}
	gaps := CoverageGaps(ps, model.CoverageTypes)

	assert.NotContains(t, gaps, model.CoverageProperty)
	assert.NotContains(t, gaps, model.CoverageGeneralLiability)
	assert.Contains(t, gaps, model.CoverageFlood)
	assert.Contains(t, gaps, model.CoverageEarthquake)
	assert.Len(t, gaps, len(model.CoverageTypes)-2)

	assert.Empty(t, CoverageGaps(ps, []model.CoverageType{model.CoverageProperty}))
	assert.Equal(t, model.CoverageTypes, CoverageGaps(nil, model.CoverageTypes))
}
