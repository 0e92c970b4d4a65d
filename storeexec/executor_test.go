package storeexec_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/brinedb/queryengine/dbproto"
	"github.com/brinedb/queryengine/query"
	"github.com/brinedb/queryengine/storeexec"
)

func mustRequest(t *testing.T, jsonBody string) dbproto.DatabaseRequest {
	t.Helper()
	var req dbproto.DatabaseRequest
	if err := json.Unmarshal([]byte(jsonBody), &req); err != nil {
		t.Fatalf("unmarshal request: %v", err)
	}
	return req
}

func TestRunRetrieveReturnsDataResponse(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{"uid", "email"}).
		AddRow("42", "a@b.co").
		AddRow("43", "c@d.co")
	mock.ExpectQuery(`SELECT \* FROM users WHERE owner = \$1`).
		WithArgs(true).
		WillReturnRows(rows)

	req := mustRequest(t, `{"table":"users","action":"Retrieve","filters":{"where":{"Single":{"owner":true}}}}`)

	s := &storeexec.Store{DB: db}
	resp, err := s.Run(context.Background(), db, req, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	data, ok := resp.IntoData()
	if !ok {
		t.Fatalf("expected Data variant, got %#v", resp)
	}
	if len(data) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(data))
	}
	uid, ok := data[0].Get("uid")
	if !ok || string(uid) != `"42"` {
		t.Errorf("row[0].uid = %s, want \"42\"", uid)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRunInsertReturnsStatusResponse(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`INSERT INTO users \(uid, email, owner\) VALUES \(\$1, \$2, \$3\)`).
		WithArgs(int64(42), "a@b.co", false).
		WillReturnResult(sqlmock.NewResult(1, 1))

	req := mustRequest(t, `{"table":"users","action":"Insert","values":{"uid":"42","email":"a@b.co","owner":false}}`)
	cols := query.TableColumns{"uid": query.ColumnBigint, "email": query.ColumnText, "owner": query.ColumnBoolean}

	s := &storeexec.Store{DB: db}
	resp, err := s.Run(context.Background(), db, req, cols)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	status, ok := resp.Status()
	if !ok {
		t.Fatalf("expected Status variant, got %#v", resp)
	}
	if status != "ok: 1 row(s) affected" {
		t.Errorf("status = %q", status)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRunSurfacesBuildErrorAsErrorResponse(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	req := mustRequest(t, `{"table":"bad table","action":"Retrieve"}`)

	s := &storeexec.Store{DB: db}
	resp, err := s.Run(context.Background(), db, req, nil)
	if err != nil {
		t.Fatalf("Run should not itself error for a build failure: %v", err)
	}
	if !resp.IsError() {
		t.Fatalf("expected Error variant, got %#v", resp)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected query against db: %v", err)
	}
}
