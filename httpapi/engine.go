package httpapi

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/brinedb/queryengine/dbproto"
	"github.com/brinedb/queryengine/query"
	"github.com/brinedb/queryengine/storeexec"
)

// Sender is the capability tokenhandler and the generic query handler both
// need: encode a request, get back the raw response envelope bytes. A
// *storeclient.Client satisfies this by round-tripping over a websocket to
// a remote store; localSender satisfies it by running the query directly
// against Postgres via storeexec, so a single deployment can skip the
// remote hop entirely.
type Sender interface {
	Send(ctx context.Context, req dbproto.DatabaseRequest) ([]byte, error)
}

// localSender adapts a storeexec.Store to the Sender interface, looking up
// each table's declared column types from a static schema the server was
// started with.
type localSender struct {
	store  *storeexec.Store
	schema map[string]query.TableColumns
}

// NewLocalSender builds a Sender backed by a direct Postgres connection,
// for deployments that skip the remote duplex hop entirely.
func NewLocalSender(store *storeexec.Store, schema map[string]query.TableColumns) Sender {
	return &localSender{store: store, schema: schema}
}

func (s *localSender) Send(ctx context.Context, req dbproto.DatabaseRequest) ([]byte, error) {
	resp, err := s.store.Run(ctx, s.store.DB, req, s.schema[req.Table])
	if err != nil {
		return nil, fmt.Errorf("httpapi: executing request against table %q: %w", req.Table, err)
	}
	return json.Marshal(resp)
}
