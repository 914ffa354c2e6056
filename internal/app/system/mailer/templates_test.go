package mailer

import (
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestBuildConfirmationEmail(t *testing.T) {
	e := BuildConfirmationEmail(AccountEmailData{
		SiteName:  "ScopeHub",
		Link:      "https://example.com/confirm?token=abc",
		ExpiresIn: "1 hour",
	})

	if !strings.Contains(e.Subject, "ScopeHub") {
		t.Errorf("subject should name the site: %q", e.Subject)
	}
	if !strings.Contains(e.TextBody, "https://example.com/confirm?token=abc") {
		t.Error("text body should carry the link")
	}
	if !strings.Contains(e.HTMLBody, "https://example.com/confirm?token=abc") {
		t.Error("html body should carry the link")
	}
	if !strings.Contains(e.TextBody, "1 hour") {
		t.Error("text body should state the expiry")
	}
}

func TestBuildResetEmail(t *testing.T) {
	e := BuildResetEmail(AccountEmailData{
		SiteName:  "ScopeHub",
		Link:      "https://example.com/reset?token=xyz",
		ExpiresIn: "1 hour",
	})

	if !strings.Contains(e.Subject, "Reset") {
		t.Errorf("subject: %q", e.Subject)
	}
	if !strings.Contains(e.HTMLBody, "https://example.com/reset?token=xyz") {
		t.Error("html body should carry the link")
	}
}

func TestBuild_Multipart(t *testing.T) {
	m := New(Config{Host: "smtp.example.com", Port: 587, From: "noreply@example.com"}, zap.NewNop())
	msg := string(m.build(Email{
		To:       "user@example.com",
		Subject:  "Hello",
		TextBody: "plain",
		HTMLBody: "<p>rich</p>",
	}))

	if !strings.Contains(msg, "multipart/alternative") {
		t.Error("both bodies should produce a multipart message")
	}
	if !strings.Contains(msg, "plain") || !strings.Contains(msg, "<p>rich</p>") {
		t.Error("both bodies should be present")
	}
}
