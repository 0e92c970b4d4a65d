// Package mailer sends transactional HTML email. Grounded on
// original_source/src/utils/email_client.rs's EmailClient::send. No SMTP
// client library appears anywhere in the retrieved pack, so this package
// is a justified stdlib exception: net/smtp plus a hand-built MIME
// envelope stand in for the original's lettre crate.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Client sends mail relayed through a single SMTP account.
type Client struct {
	from     string
	username string
	password string
	relay    string // host:port
}

// New returns a Client that authenticates as username/password against
// relay and sends mail with the given From address.
func New(from, username, password, relay string) *Client {
	return &Client{from: from, username: username, password: password, relay: relay}
}

// Send delivers an HTML message to to.
func (c *Client) Send(to, subject, htmlBody string) error {
	host := c.relay
	if idx := strings.LastIndex(host, ":"); idx != -1 {
		host = host[:idx]
	}
	auth := smtp.PlainAuth("", c.username, c.password, host)
	msg := buildMIME(c.from, to, subject, htmlBody)
	if err := smtp.SendMail(c.relay, auth, c.from, []string{to}, msg); err != nil {
		return fmt.Errorf("mailer: send to %s: %w", to, err)
	}
	return nil
}

func buildMIME(from, to, subject, htmlBody string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}
