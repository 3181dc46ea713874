package alerts

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/propcover/insurance-master/internal/config"
	"github.com/propcover/insurance-master/internal/model"
	"github.com/propcover/insurance-master/internal/portfolio"
	"github.com/propcover/insurance-master/internal/queue"
	"github.com/propcover/insurance-master/internal/repository"
	queue_publisher "github.com/propcover/insurance-master/internal/service"
)

// Service is the renewal scanner.  Each pass walks policies inside the
// renewal window, files one alert per policy, emails the medium and
// high priority ones and prunes acknowledged alerts past retention.
type Service struct {
	Cfg       config.AlertConfig
	Policies  *repository.PolicyRepo
	Buildings *repository.BuildingRepo
	Agents    *repository.AgentRepo
	Alerts    *repository.AlertRepo
	Mailer    *Mailer
}

// NewService wires a scanner from its dependencies.
func NewService(cfg config.AlertConfig, policies *repository.PolicyRepo, buildings *repository.BuildingRepo,
	agents *repository.AgentRepo, alerts *repository.AlertRepo, mailer *Mailer) *Service {
	return &Service{Cfg: cfg, Policies: policies, Buildings: buildings, Agents: agents, Alerts: alerts, Mailer: mailer}
}

// priorityFor grades how close to expiration a policy is.
func priorityFor(daysLeft int, cfg config.AlertConfig) string {
	switch {
	case daysLeft <= cfg.HighPriorityDays:
		return model.PriorityHigh
	case daysLeft <= cfg.MediumPriorityDays:
		return model.PriorityMedium
	default:
		return model.PriorityLow
	}
}

// CheckRenewals scans for policies expiring inside the renewal window
// and files an alert for each one that does not already have an unread
// renewal alert.  It returns the alerts it created.  A fresh alert also
// goes out as a policy.expiring event for the audit consumer.
func (s *Service) CheckRenewals(ctx context.Context) ([]model.Alert, error) {
	policies, err := s.Policies.ExpiringWithin(ctx, s.Cfg.RenewalWindowDays)
	if err != nil {
		return nil, fmt.Errorf("scan expiring policies: %w", err)
	}

	now := time.Now().UTC()
	created := []model.Alert{}
	for i := range policies {
		p := &policies[i]
		exp, err := time.Parse(portfolio.ISODate, p.ExpirationDate)
		if err != nil {
			// Unparseable dates surface as "missing" on the dashboard
			// already; an alert with a bogus day count helps nobody.
			continue
		}
		daysLeft := portfolio.DaysUntil(exp, now)

		buildingName := "Unknown Building"
		if b, err := s.Buildings.GetByID(ctx, p.BuildingID); err == nil {
			buildingName = b.Name
		}

		a := model.Alert{
			PolicyID:  p.ID,
			AlertType: model.AlertTypeRenewal,
			Message:   fmt.Sprintf("Policy %s for %s expires in %d days", p.PolicyNumber, buildingName, daysLeft),
			Priority:  priorityFor(daysLeft, s.Cfg),
		}
		inserted, err := s.Alerts.CreateIfAbsent(ctx, &a)
		if err != nil {
			return created, err
		}
		if !inserted {
			continue
		}
		created = append(created, a)

		ev := queue.PolicyExpiringEvent{
			PolicyID:       p.ID,
			PolicyNumber:   p.PolicyNumber,
			BuildingID:     p.BuildingID,
			BuildingName:   buildingName,
			Carrier:        p.Carrier,
			ExpirationDate: p.ExpirationDate,
			DaysLeft:       daysLeft,
			Priority:       a.Priority,
			ScannedAt:      now.Format(time.RFC3339),
		}
		_ = queue_publisher.PublishPolicyExpiring(ctx, ev) // broker down must not stop the scan
	}

	if len(created) > 0 {
		log.Printf("alerts: created %d renewal alerts", len(created))
	}
	return created, nil
}

// SendPending emails every unsent medium and high priority alert to
// the agent on the policy.  Alerts whose policy or agent vanished are
// skipped and stay unsent.  It returns how many emails went out.
func (s *Service) SendPending(ctx context.Context) (int, error) {
	if !s.Mailer.Enabled() {
		return 0, nil
	}

	pending, err := s.Alerts.ListUnsent(ctx)
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range pending {
		a := &pending[i]
		p, err := s.Policies.GetByID(ctx, a.PolicyID)
		if err != nil {
			continue
		}
		agent, err := s.Agents.GetByID(ctx, p.AgentID)
		if err != nil || agent.Email == "" {
			continue
		}
		b, err := s.Buildings.GetByID(ctx, p.BuildingID)
		if err != nil {
			b = &model.Building{Name: "Unknown", Address: "Unknown"}
		}

		if err := s.Mailer.SendRenewal(agent, p, b, a); err != nil {
			log.Printf("alerts: send failed for policy %s: %v", p.PolicyNumber, err)
			continue
		}
		if err := s.Alerts.MarkSent(ctx, a.ID); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}

// Cleanup prunes acknowledged alerts older than the retention window.
func (s *Service) Cleanup(ctx context.Context) (int64, error) {
	return s.Alerts.PruneRead(ctx, s.Cfg.RetentionDays)
}

// Run executes one pass immediately and then on every interval tick
// until the context is cancelled.  Errors are logged, not fatal: a
// failed pass retries on the next tick.
func (s *Service) Run(ctx context.Context) {
	if !s.Cfg.Enabled {
		return
	}
	s.pass(ctx)

	t := time.NewTicker(s.Cfg.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.pass(ctx)
		}
	}
}

func (s *Service) pass(ctx context.Context) {
	if _, err := s.CheckRenewals(ctx); err != nil {
		log.Printf("alerts: renewal check failed: %v", err)
	}
	if n, err := s.SendPending(ctx); err != nil {
		log.Printf("alerts: sending failed after %d emails: %v", n, err)
	}
	if n, err := s.Cleanup(ctx); err != nil {
		log.Printf("alerts: cleanup failed: %v", err)
	} else if n > 0 {
		log.Printf("alerts: pruned %d read alerts", n)
	}
}
