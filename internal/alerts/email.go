// Package alerts runs the renewal scanner: it watches for policies
// approaching expiration, records alerts for the dashboard and sends
// email notifications to the agent of record.
package alerts

import (
	"fmt"
	"log"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/propcover/insurance-master/internal/config"
	"github.com/propcover/insurance-master/internal/model"
)

// Mailer sends renewal notifications through SendGrid.  With no API
// key configured the mailer is disabled: alerts still land in the
// database, only the email leg is skipped.
type Mailer struct {
	client *sendgrid.Client
	from   *mail.Email
}

// NewMailer builds a Mailer from the alert configuration.
func NewMailer(cfg config.AlertConfig) *Mailer {
	m := &Mailer{from: mail.NewEmail("Insurance Master", cfg.FromEmail)}
	if cfg.SendGridKey != "" {
		m.client = sendgrid.NewSendClient(cfg.SendGridKey)
	}
	return m
}

// Enabled reports whether email delivery is configured.
func (m *Mailer) Enabled() bool { return m.client != nil }

// SendRenewal emails one renewal alert to the policy's agent.
func (m *Mailer) SendRenewal(agent *model.Agent, p *model.Policy, b *model.Building, a *model.Alert) error {
	if !m.Enabled() {
		return fmt.Errorf("email delivery not configured")
	}

	subject := fmt.Sprintf("URGENT: Policy Renewal Required - %s", p.PolicyNumber)
	to := mail.NewEmail(agent.Name, agent.Email)

	plain := fmt.Sprintf(`Dear %s,

This is an automated reminder that the following policy requires immediate attention:

Policy Number: %s
Property: %s
Address: %s
Carrier: %s
Coverage Type: %s
Expiration Date: %s

Priority: %s
Message: %s

Please take appropriate action to ensure continuous coverage.

Best regards,
Insurance Master System
`, agent.Name, p.PolicyNumber, b.Name, b.Address, p.Carrier, p.CoverageType,
		p.ExpirationDate, strings.ToUpper(a.Priority), a.Message)

	color := "orange"
	if a.Priority == model.PriorityHigh {
		color = "red"
	}
	html := fmt.Sprintf(`<html><body>
<h2>Policy Renewal Alert</h2>
<p>Dear %s,</p>
<p>This is an automated reminder that the following policy requires immediate attention:</p>
<table border="1" cellpadding="8" cellspacing="0">
<tr><td><strong>Policy Number</strong></td><td>%s</td></tr>
<tr><td><strong>Property</strong></td><td>%s</td></tr>
<tr><td><strong>Address</strong></td><td>%s</td></tr>
<tr><td><strong>Carrier</strong></td><td>%s</td></tr>
<tr><td><strong>Coverage Type</strong></td><td>%s</td></tr>
<tr><td><strong>Expiration Date</strong></td><td>%s</td></tr>
<tr><td><strong>Priority</strong></td><td style="color: %s">%s</td></tr>
</table>
<p><strong>Message:</strong> %s</p>
<p>Please take appropriate action to ensure continuous coverage.</p>
<hr><p><em>Insurance Master System</em></p>
</body></html>`, agent.Name, p.PolicyNumber, b.Name, b.Address, p.Carrier, p.CoverageType,
		p.ExpirationDate, color, strings.ToUpper(a.Priority), a.Message)

	msg := mail.NewSingleEmail(m.from, subject, to, plain, html)
	resp, err := m.client.Send(msg)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid send: status %d: %s", resp.StatusCode, resp.Body)
	}
	log.Printf("alerts: sent renewal notice for policy %s to %s", p.PolicyNumber, agent.Email)
	return nil
}
