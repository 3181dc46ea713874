package portfolio

import (
	"time"

	"github.com/propcover/insurance-master/internal/model"
)

// DefaultExpiryHighlightDays is the look-ahead window for the board's
// expiration highlight.  Deliberately wider than the classifier's
// renewal window: the board flags buildings that need attention before
// any individual policy turns expiring-soon.
const DefaultExpiryHighlightDays = 60

// IsExpiringWithin reports whether at least one policy expires
// strictly in the future but within the next windowDays calendar days
// (now < expiration <= now + windowDays).  Already-expired policies do
// not trigger the flag, and dates that fail to parse are skipped.
func IsExpiringWithin(windowDays int, policies []model.Policy, now time.Time) bool {
	for _, p := range policies {
		exp, err := time.Parse(ISODate, p.ExpirationDate)
		if err != nil {
			continue
		}
		days := DaysUntil(exp, now)
		if days > 0 && days <= windowDays {
			return true
		}
	}
	return false
}

// CoverageGaps returns the required coverage types for which no policy
// exists in ps.  A gap is the one situation that yields the structural
// StatusMissing: a building/coverage-type pair with zero policies.
func CoverageGaps(ps []model.Policy, required []model.CoverageType) []model.CoverageType {
	have := make(map[model.CoverageType]bool, len(ps))
	for _, p := range ps {
		have[p.CoverageType] = true
	}
	var gaps []model.CoverageType
	for _, ct := range required {
		if !have[ct] {
			gaps = append(gaps, ct)
		}
	}
	return gaps
}
