package config

import (
	"os"
	"time"
)

// AlertConfig controls the background renewal scanner and its email
// notifications.  When Enabled is false the scheduler never starts;
// when SendGridKey is empty, alerts are still created in the database
// but no email goes out.  Priority cutoffs grade how close to
// expiration a policy is: at or under HighPriorityDays the alert is
// high, at or under MediumPriorityDays medium, otherwise low.
type AlertConfig struct {
	Enabled            bool
	Interval           time.Duration // how often the renewal scan runs
	RenewalWindowDays  int           // scan horizon for expiring policies
	HighPriorityDays   int
	MediumPriorityDays int
	RetentionDays      int    // read alerts older than this are pruned
	SendGridKey        string // empty disables email delivery
	FromEmail          string // sender address for notifications
}

// LoadAlertConfig reads alert scheduler settings from the environment.
// Defaults mirror the daily-check behaviour the dashboard expects: a
// 30-day scan horizon, 7/15 day priority cutoffs and 30-day retention
// for acknowledged alerts.
func LoadAlertConfig() AlertConfig {
	return AlertConfig{
		Enabled:            envBool("ALERTS_ENABLED", true),
		Interval:           envDur("ALERTS_INTERVAL", 24*time.Hour),
		RenewalWindowDays:  envInt("ALERTS_RENEWAL_WINDOW_DAYS", 30),
		HighPriorityDays:   envInt("ALERTS_HIGH_PRIORITY_DAYS", 7),
		MediumPriorityDays: envInt("ALERTS_MEDIUM_PRIORITY_DAYS", 15),
		RetentionDays:      envInt("ALERTS_RETENTION_DAYS", 30),
		SendGridKey:        os.Getenv("SENDGRID_API_KEY"),
		FromEmail:          envStr("ALERTS_FROM_EMAIL", "alerts@insurance-master.local"),
	}
}
