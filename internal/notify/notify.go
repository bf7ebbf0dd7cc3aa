// Package notify delivers best-effort email notifications to list
// subscribers when an upload adds new leads.
package notify

import (
	"bytes"
	"fmt"
	"log/slog"

	"gopkg.in/gomail.v2"

	"github.com/lmoral/captaleads/internal/config"
	"github.com/lmoral/captaleads/internal/subscription"
)

// Notifier sends subscriber emails over SMTP.
type Notifier struct {
	cfg config.SMTP
	log *slog.Logger
}

// New creates a notifier. With incomplete SMTP settings it stays inert
// and logs a warning instead of failing.
func New(cfg config.SMTP, log *slog.Logger) *Notifier {
	if log == nil {
		log = slog.Default()
	}
	return &Notifier{cfg: cfg, log: log}
}

// ListUpdated notifies each subscriber that a list gained new leads.
// Attempts are independent: one failed recipient never aborts the batch.
// Returns how many sends succeeded and how many failed.
func (n *Notifier) ListUpdated(subs []subscription.Subscriber, listName string, newCount int, listID int64) (sent, failed int) {
	if len(subs) == 0 {
		return 0, 0
	}
	if !n.cfg.IsConfigured() {
		n.log.Warn("smtp not configured, skipping notifications",
			"list_id", listID, "recipients", len(subs))
		return 0, 0
	}

	d := gomail.NewDialer(n.cfg.Host, n.cfg.Port, n.cfg.User, n.cfg.Pass)
	subject := fmt.Sprintf("%d new leads in %s", newCount, listName)

	for _, sub := range subs {
		m := gomail.NewMessage()
		m.SetHeader("From", n.cfg.From)
		m.SetHeader("To", sub.Email)
		m.SetHeader("Subject", subject)
		m.SetBody("text/plain", buildBody(sub, listName, newCount))

		if err := d.DialAndSend(m); err != nil {
			n.log.Warn("notification failed",
				"to", sub.Email, "list_id", listID, "error", err)
			failed++
			continue
		}
		sent++
	}

	n.log.Info("notifications delivered",
		"list_id", listID, "list", listName, "sent", sent, "failed", failed)
	return sent, failed
}

// buildBody renders the plain-text notification email.
func buildBody(sub subscription.Subscriber, listName string, newCount int) string {
	var buf bytes.Buffer

	name := sub.Name
	if name == "" {
		name = sub.Email
	}

	fmt.Fprintf(&buf, "Hi %s,\n\n", name)
	if newCount == 1 {
		fmt.Fprintf(&buf, "1 new owner-sold lead was just added to %s.\n\n", listName)
	} else {
		fmt.Fprintf(&buf, "%d new owner-sold leads were just added to %s.\n\n", newCount, listName)
	}
	fmt.Fprintf(&buf, "Log in to review and contact the owners before anyone else does.\n\n")
	fmt.Fprintf(&buf, "— captaleads\n")

	return buf.String()
}
