package tokenhandler_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/brinedb/queryengine/dbproto"
	"github.com/brinedb/queryengine/tokenhandler"
)

type fakeRow struct {
	JTI       string `json:"jti"`
	UID       int64  `json:"uid"`
	ExpiresAt int64  `json:"expires_at"`
}

type fakeSender struct {
	rows []fakeRow
}

func (f *fakeSender) Send(ctx context.Context, req dbproto.DatabaseRequest) ([]byte, error) {
	switch req.Action.Kind {
	case dbproto.ActionInsert:
		var row fakeRow
		for _, kv := range req.Values {
			switch kv.Column {
			case "jti":
				json.Unmarshal(kv.Value, &row.JTI)
			case "uid":
				json.Unmarshal(kv.Value, &row.UID)
			case "expires_at":
				json.Unmarshal(kv.Value, &row.ExpiresAt)
			}
		}
		f.rows = append(f.rows, row)
		return json.Marshal(dbproto.StatusResponse[fakeRow]("inserted"))
	case dbproto.ActionRetrieve:
		return json.Marshal(dbproto.DataResponse(f.rows))
	default:
		return json.Marshal(dbproto.ErrorResponse[fakeRow]("unsupported in fake"))
	}
}

func TestGenerateThenVerify(t *testing.T) {
	sender := &fakeSender{}
	h := tokenhandler.New("test-secret", sender)

	token, err := h.Generate(context.Background(), 42, time.Hour)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(sender.rows) != 1 || sender.rows[0].UID != 42 {
		t.Fatalf("sender.rows = %+v, want one row for uid 42", sender.rows)
	}

	claims, err := h.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != "42" {
		t.Errorf("claims.UserID = %q, want 42", claims.UserID)
	}
}

func TestVerifyFailsWhenTokenRevoked(t *testing.T) {
	sender := &fakeSender{}
	h := tokenhandler.New("test-secret", sender)

	token, err := h.Generate(context.Background(), 7, time.Hour)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	sender.rows = nil // simulate revocation: the row is gone

	_, err = h.Verify(context.Background(), token)
	if !errors.Is(err, tokenhandler.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}
