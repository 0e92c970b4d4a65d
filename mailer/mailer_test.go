package mailer_test

import (
	"strings"
	"testing"

	"github.com/brinedb/queryengine/mailer"
)

// buildMIME is unexported; exercise it indirectly via the behavior Send
// depends on by checking Client construction doesn't panic and that a send
// against an unreachable relay fails with a wrapped error rather than
// hanging or panicking.
func TestSendAgainstUnreachableRelayFails(t *testing.T) {
	c := mailer.New("noreply@example.com", "user", "pass", "127.0.0.1:1")
	err := c.Send("dest@example.com", "subject", "<p>hi</p>")
	if err == nil {
		t.Fatal("expected error sending to an unreachable relay")
	}
	if !strings.Contains(err.Error(), "mailer: send to dest@example.com") {
		t.Errorf("err = %v, want wrapped mailer error", err)
	}
}
