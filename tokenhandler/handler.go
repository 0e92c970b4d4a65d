// Package tokenhandler mints and verifies session JWTs, round-tripping the
// revocation handle (jti) through the row store over the duplex client.
// Grounded on original_source/src/utils/token_handler.rs's
// UserTokenHandler::generate_token/verify_token.
package tokenhandler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/brinedb/queryengine/dbproto"
	"github.com/brinedb/queryengine/jwttoken"
)

// Sender is the minimal capability tokenhandler needs from the duplex
// client: send a request, block for one reply.
type Sender interface {
	Send(ctx context.Context, req dbproto.DatabaseRequest) ([]byte, error)
}

// ErrUnauthorized is returned by Verify when no live auth_tokens row
// matches the token's jti (it was never minted, or it was revoked).
var ErrUnauthorized = fmt.Errorf("tokenhandler: token is not recognized or has been revoked")

// UserTokenHandler mints and verifies end-user session tokens.
type UserTokenHandler struct {
	codec  *jwttoken.Codec
	client Sender
}

// New returns a UserTokenHandler signing with secretKey and dispatching
// auth_tokens reads/writes through client.
func New(secretKey string, client Sender) *UserTokenHandler {
	return &UserTokenHandler{codec: jwttoken.NewCodec(secretKey), client: client}
}

func mustJSON(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("tokenhandler: marshal %v: %v", v, err))
	}
	return b
}

// Generate mints a jti, inserts an auth_tokens row recording it, and signs
// a JWT carrying that jti with the given ttl. The insert is sent before the
// JWT is returned: a token is never handed out without a corresponding
// revocable row.
func (h *UserTokenHandler) Generate(ctx context.Context, uid int64, ttl time.Duration) (string, error) {
	jti := uuid.NewString()
	exp := time.Now().Add(ttl)

	req := dbproto.DatabaseRequest{
		Table:  "auth_tokens",
		Action: dbproto.DatabaseAction{Kind: dbproto.ActionInsert},
		Values: dbproto.OrderedMap{
			{Column: "jti", Value: mustJSON(jti)},
			{Column: "uid", Value: mustJSON(uid)},
			{Column: "expires_at", Value: mustJSON(exp.Unix())},
		},
	}

	data, err := h.client.Send(ctx, req)
	if err != nil {
		return "", fmt.Errorf("tokenhandler: insert auth_tokens: %w", err)
	}
	var resp dbproto.DatabaseResponse[json.RawMessage]
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("tokenhandler: decode insert response: %w", err)
	}
	if msg, isErr := resp.ErrorMessage(); isErr {
		return "", fmt.Errorf("tokenhandler: store rejected insert: %s", msg)
	}

	claims := jwttoken.UserClaims{
		UserID: fmt.Sprint(uid),
		JTI:    jti,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token, err := h.codec.Create(claims)
	if err != nil {
		return "", fmt.Errorf("tokenhandler: sign: %w", err)
	}
	return token, nil
}

type authTokenRow struct {
	JTI       string `json:"jti"`
	UID       int64  `json:"uid"`
	ExpiresAt int64  `json:"expires_at"`
}

// Verify decodes tokenStr, then retrieves the auth_tokens rows for the
// claimed uid and checks that one of them still carries a matching jti.
func (h *UserTokenHandler) Verify(ctx context.Context, tokenStr string) (jwttoken.UserClaims, error) {
	var claims jwttoken.UserClaims
	if err := h.codec.Parse(tokenStr, &claims); err != nil {
		return jwttoken.UserClaims{}, fmt.Errorf("tokenhandler: parse: %w", err)
	}

	req := dbproto.DatabaseRequest{
		Table:  "auth_tokens",
		Action: dbproto.DatabaseAction{Kind: dbproto.ActionRetrieve},
		Filters: &dbproto.Filters{
			WhereClause: &dbproto.WhereClause{
				Kind:  dbproto.WhereSingle,
				Pairs: dbproto.OrderedMap{{Column: "uid", Value: mustJSON(mustAtoi(claims.UserID))}},
			},
		},
	}

	data, err := h.client.Send(ctx, req)
	if err != nil {
		return jwttoken.UserClaims{}, fmt.Errorf("tokenhandler: retrieve auth_tokens: %w", err)
	}
	var resp dbproto.DatabaseResponse[authTokenRow]
	if err := json.Unmarshal(data, &resp); err != nil {
		return jwttoken.UserClaims{}, fmt.Errorf("tokenhandler: decode retrieve response: %w", err)
	}
	if msg, isErr := resp.ErrorMessage(); isErr {
		return jwttoken.UserClaims{}, fmt.Errorf("tokenhandler: store rejected retrieve: %s", msg)
	}

	rows, _ := resp.IntoData()
	for _, row := range rows {
		if row.JTI == claims.JTI {
			return claims, nil
		}
	}
	return jwttoken.UserClaims{}, ErrUnauthorized
}

func mustAtoi(s string) int64 {
	var n int64
	_, err := fmt.Sscanf(s, "%d", &n)
	if err != nil {
		return 0
	}
	return n
}
