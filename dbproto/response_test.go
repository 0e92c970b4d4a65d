package dbproto_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/brinedb/queryengine/dbproto"
)

type testRow struct {
	UID int64 `json:"uid"`
}

func TestResponseRoundTrip(t *testing.T) {
	t.Run("error", func(t *testing.T) {
		orig := dbproto.ErrorResponse[testRow]("boom")
		roundTrip(t, orig)
	})
	t.Run("status", func(t *testing.T) {
		orig := dbproto.StatusResponse[testRow]("ok")
		roundTrip(t, orig)
	})
	t.Run("data", func(t *testing.T) {
		orig := dbproto.DataResponse([]testRow{{UID: 1}, {UID: 2}})
		roundTrip(t, orig)
	})
}

func roundTrip(t *testing.T, orig dbproto.DatabaseResponse[testRow]) {
	t.Helper()
	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded dbproto.DatabaseResponse[testRow]
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(orig, decoded) {
		t.Errorf("round trip mismatch: %+v != %+v", orig, decoded)
	}
}

func TestResponsePredicates(t *testing.T) {
	errResp := dbproto.ErrorResponse[testRow]("nope")
	if !errResp.IsError() {
		t.Error("IsError() = false, want true")
	}
	if msg, ok := errResp.ErrorMessage(); !ok || msg != "nope" {
		t.Errorf("ErrorMessage() = (%q, %v), want (nope, true)", msg, ok)
	}

	dataResp := dbproto.DataResponse([]testRow{{UID: 7}})
	if dataResp.IsError() {
		t.Error("IsError() = true, want false")
	}
	rows, ok := dataResp.IntoData()
	if !ok || len(rows) != 1 || rows[0].UID != 7 {
		t.Errorf("IntoData() = (%v, %v)", rows, ok)
	}
}

func TestWhereClauseUnmarshalRejectsMultipleVariants(t *testing.T) {
	var w dbproto.WhereClause
	err := json.Unmarshal([]byte(`{"And":{"a":1},"Or":{"b":2}}`), &w)
	if err == nil {
		t.Fatal("expected error for multiple where clause variants")
	}
}

func TestOrderedMapPreservesInsertionOrder(t *testing.T) {
	var m dbproto.OrderedMap
	if err := json.Unmarshal([]byte(`{"z":1,"a":2,"m":3}`), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := []string{"z", "a", "m"}
	for i, kv := range m {
		if kv.Column != want[i] {
			t.Errorf("m[%d].Column = %q, want %q", i, kv.Column, want[i])
		}
	}
	reencoded, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(reencoded) != `{"z":1,"a":2,"m":3}` {
		t.Errorf("re-encoded = %s, want order preserved", reencoded)
	}
}

func TestDatabaseActionWireShapes(t *testing.T) {
	cases := []struct {
		wire string
		kind dbproto.ActionKind
	}{
		{`"Insert"`, dbproto.ActionInsert},
		{`"BulkInsert"`, dbproto.ActionBulkInsert},
		{`"Update"`, dbproto.ActionUpdate},
		{`"Retrieve"`, dbproto.ActionRetrieve},
		{`{"Delete":"DeleteTable"}`, dbproto.ActionDropTable},
		{`{"Delete":"DeleteValue"}`, dbproto.ActionDeleteRows},
	}
	for _, c := range cases {
		var a dbproto.DatabaseAction
		if err := json.Unmarshal([]byte(c.wire), &a); err != nil {
			t.Fatalf("unmarshal %s: %v", c.wire, err)
		}
		if a.Kind != c.kind {
			t.Errorf("wire %s decoded to kind %v, want %v", c.wire, a.Kind, c.kind)
		}
		reencoded, err := json.Marshal(a)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var roundTripped dbproto.DatabaseAction
		if err := json.Unmarshal(reencoded, &roundTripped); err != nil {
			t.Fatalf("round-trip unmarshal: %v", err)
		}
		if roundTripped.Kind != c.kind {
			t.Errorf("round trip kind = %v, want %v", roundTripped.Kind, c.kind)
		}
	}
}
