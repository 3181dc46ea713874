// Package portfolio holds the pure portfolio logic: deriving a
// policy's lifecycle status from its expiration date, partitioning
// buildings into per-agent buckets for the assignment board, and the
// expiration-proximity highlight used by the board.  Everything in
// this package is side-effect free and operates on collections the
// caller already loaded; persistence lives in internal/repository.
package portfolio

import (
	"time"

	"github.com/propcover/insurance-master/internal/model"
)

// DefaultExpiringSoonDays is the renewal window for status derivation.
// It is intentionally independent from the board's 60-day highlight
// window (DefaultExpiryHighlightDays); the two answer different
// questions and are configured separately.
const DefaultExpiringSoonDays = 30

// ISODate is the calendar-date layout policy dates are stored in.
const ISODate = "2006-01-02"

// Classifier derives policy statuses relative to a reference instant.
// The zero value uses the default 30-day renewal window.
type Classifier struct {
	// ExpiringSoonDays is the inclusive number of days before
	// expiration during which a policy counts as expiring-soon.
	ExpiringSoonDays int
}

func (cl Classifier) window() int {
	if cl.ExpiringSoonDays > 0 {
		return cl.ExpiringSoonDays
	}
	return DefaultExpiringSoonDays
}

// DaysUntil returns the number of whole calendar days from now until
// exp.  Both instants are normalized to midnight in their own
// location first, so the answer depends only on the calendar date:
// a policy expiring later today yields 0, yesterday yields -1.
func DaysUntil(exp, now time.Time) int {
	exp = midnight(exp)
	now = midnight(now)
	return int(exp.Sub(now) / (24 * time.Hour))
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Classify maps an expiration date to exactly one of expired,
// expiring-soon or active.  Day boundaries are inclusive: a policy
// expiring today or in exactly ExpiringSoonDays days is expiring-soon;
// one more day out is active.  StatusMissing is never produced here —
// it is a structural category assigned by coverage-gap detection.
func (cl Classifier) Classify(exp, now time.Time) model.Status {
	days := DaysUntil(exp, now)
	switch {
	case days < 0:
		return model.StatusExpired
	case days <= cl.window():
		return model.StatusExpiringSoon
	default:
		return model.StatusActive
	}
}

// ClassifyDate is Classify over a raw ISO date string.  A date that
// does not parse classifies as missing: this is display logic, so it
// fails closed instead of propagating an error through every listing.
func (cl Classifier) ClassifyDate(expirationDate string, now time.Time) model.Status {
	exp, err := time.Parse(ISODate, expirationDate)
	if err != nil {
		return model.StatusMissing
	}
	return cl.Classify(exp, now)
}

// ClassifyPolicy returns a copy of p with Status populated relative to now.
func (cl Classifier) ClassifyPolicy(p model.Policy, now time.Time) model.Policy {
	p.Status = cl.ClassifyDate(p.ExpirationDate, now)
	return p
}

// ClassifyPolicies populates Status on every element of ps in place.
func (cl Classifier) ClassifyPolicies(ps []model.Policy, now time.Time) {
	for i := range ps {
		ps[i].Status = cl.ClassifyDate(ps[i].ExpirationDate, now)
	}
}
