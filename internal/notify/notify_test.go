package notify

import (
	"strings"
	"testing"

	"github.com/lmoral/captaleads/internal/config"
	"github.com/lmoral/captaleads/internal/subscription"
)

func TestListUpdatedSkipsWhenUnconfigured(t *testing.T) {
	n := New(config.SMTP{}, nil)

	subs := []subscription.Subscriber{{UserID: 1, Email: "ana@example.com"}}
	sent, failed := n.ListUpdated(subs, "Valencia", 3, 1)
	if sent != 0 || failed != 0 {
		t.Errorf("sent/failed = %d/%d, want 0/0 with no SMTP config", sent, failed)
	}
}

func TestListUpdatedNoRecipients(t *testing.T) {
	n := New(config.SMTP{Host: "smtp.example.com", Port: 587, From: "x@example.com"}, nil)

	sent, failed := n.ListUpdated(nil, "Valencia", 3, 1)
	if sent != 0 || failed != 0 {
		t.Errorf("sent/failed = %d/%d, want 0/0 with no recipients", sent, failed)
	}
}

func TestBuildBody(t *testing.T) {
	body := buildBody(subscription.Subscriber{Name: "Ana", Email: "ana@example.com"}, "Valencia", 3)
	if !strings.Contains(body, "Hi Ana,") {
		t.Errorf("body missing greeting: %q", body)
	}
	if !strings.Contains(body, "3 new owner-sold leads were just added to Valencia.") {
		t.Errorf("body missing lead count: %q", body)
	}
}

func TestBuildBodySingular(t *testing.T) {
	body := buildBody(subscription.Subscriber{Email: "ana@example.com"}, "Valencia", 1)
	if !strings.Contains(body, "Hi ana@example.com,") {
		t.Errorf("body should fall back to email for missing name: %q", body)
	}
	if !strings.Contains(body, "1 new owner-sold lead was just added to Valencia.") {
		t.Errorf("body should use singular phrasing: %q", body)
	}
}
