package httpapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/brinedb/queryengine/dbproto"
	"github.com/brinedb/queryengine/httpapi"
	"github.com/brinedb/queryengine/query"
)

type fakeSender struct {
	lastReq dbproto.DatabaseRequest
	resp    dbproto.DatabaseResponse[dbproto.OrderedMap]
}

func (f *fakeSender) Send(ctx context.Context, req dbproto.DatabaseRequest) ([]byte, error) {
	f.lastReq = req
	return json.Marshal(f.resp)
}

func TestHandleHealth(t *testing.T) {
	s := &httpapi.Server{}
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	s.Routes().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
}

func TestHandleQueryRelaysSenderResponseAndSetsTableFromPath(t *testing.T) {
	sender := &fakeSender{resp: dbproto.DataResponse([]dbproto.OrderedMap{
		{{Column: "uid", Value: json.RawMessage(`42`)}},
	})}
	s := &httpapi.Server{Sender: sender}

	body := strings.NewReader(`{"table":"ignored","action":"Retrieve"}`)
	req := httptest.NewRequest(http.MethodPost, "/query/users", body)
	rr := httptest.NewRecorder()

	s.Routes().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if sender.lastReq.Table != "users" {
		t.Errorf("table = %q, want %q (from path, not body)", sender.lastReq.Table, "users")
	}

	var resp dbproto.DatabaseResponse[dbproto.OrderedMap]
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	data, ok := resp.IntoData()
	if !ok || len(data) != 1 {
		t.Fatalf("expected one row of data, got %#v", resp)
	}
}

func TestHandleQueryRejectsMalformedBody(t *testing.T) {
	s := &httpapi.Server{Sender: &fakeSender{}}
	req := httptest.NewRequest(http.MethodPost, "/query/users", strings.NewReader("not json"))
	rr := httptest.NewRecorder()
	s.Routes().ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestBuildAPIErrorMapsEngineErrors(t *testing.T) {
	cases := []struct {
		err      error
		wantCode string
		wantHTTP int
	}{
		{query.ErrInvalidIdentifier, httpapi.CodeInvalidIdentifier, http.StatusBadRequest},
		{query.ErrUnknownColumn, httpapi.CodeUnknownColumn, http.StatusBadRequest},
		{query.ErrMissingValues, httpapi.CodeMissingValues, http.StatusBadRequest},
		{dbproto.ErrParse, httpapi.CodeParseError, http.StatusBadRequest},
	}
	for _, c := range cases {
		status, apiErr := httpapi.BuildAPIError(c.err)
		if status != c.wantHTTP || apiErr.Code != c.wantCode {
			t.Errorf("BuildAPIError(%v) = (%d, %s), want (%d, %s)", c.err, status, apiErr.Code, c.wantHTTP, c.wantCode)
		}
	}
}
