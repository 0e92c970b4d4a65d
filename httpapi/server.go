package httpapi

import (
	"context"
	"encoding/base32"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/brinedb/queryengine/dbproto"
	"github.com/brinedb/queryengine/hasher"
	"github.com/brinedb/queryengine/idgen"
	"github.com/brinedb/queryengine/mailer"
	"github.com/brinedb/queryengine/query"
	"github.com/brinedb/queryengine/registry"
	"github.com/brinedb/queryengine/tokenhandler"
	"github.com/brinedb/queryengine/totp"
	"github.com/brinedb/queryengine/validation"
)

// Server wires the query engine and its auth collaborators into HTTP
// handlers, mirroring the teacher's api package's withDB-style seam
// between transport and domain logic.
type Server struct {
	Registry *registry.Registry
	Sender   Sender
	Schema   map[string]query.TableColumns

	Tokens    *tokenhandler.UserTokenHandler
	Totp      *totp.Store
	TotpSeed  string // per-process secret mixed into every generated TOTP code
	Mailer    *mailer.Client
	IDs       *idgen.Generator
	MaxBody   int64
}

// Routes builds the ServeMux, one handler per endpoint.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /query/{table}", s.handleQuery)
	mux.HandleFunc("POST /auth/signup", s.handleSignup)
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("POST /auth/verify-2fa", s.handleVerify2FA)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleQuery decodes a dbproto.DatabaseRequest body, overrides its table
// from the path segment, drives it through the engine via s.Sender, and
// relays the response envelope verbatim. This is the R-layer seam: every
// other handler in this file is a thin domain-specific wrapper around the
// same round trip.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	table := r.PathValue("table")

	var req dbproto.DatabaseRequest
	body := http.MaxBytesReader(w, r.Body, s.maxBody())
	defer body.Close()
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: %v", dbproto.ErrParse, err))
		return
	}
	req.Table = table

	data, err := s.Sender.Send(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) maxBody() int64 {
	if s.MaxBody > 0 {
		return s.MaxBody
	}
	return 1 << 20
}

func mustJSON(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("httpapi: marshal %v: %v", v, err))
	}
	return b
}

type signupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// handleSignup validates the registration fields (component S), hashes the
// password, inserts an auth_users row, mints a uid via idgen, emails a
// verification code, and stores it under totp.KindEmailVerify.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody())).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: %v", dbproto.ErrParse, err))
		return
	}
	if err := validation.Register(req.Username, req.Password, req.Email); err != nil {
		writeError(w, fmt.Errorf("httpapi: %w", err))
		return
	}

	hash, err := hasher.Hash(req.Password)
	if err != nil {
		writeError(w, fmt.Errorf("httpapi: hashing password: %w", err))
		return
	}

	uid := s.IDs.Generate()
	insertReq := dbproto.DatabaseRequest{
		Table:  "auth_users",
		Action: dbproto.DatabaseAction{Kind: dbproto.ActionInsert},
		Values: dbproto.OrderedMap{
			{Column: "uid", Value: mustJSON(uid)},
			{Column: "email", Value: mustJSON(req.Email)},
			{Column: "email_verified", Value: mustJSON(false)},
			{Column: "username", Value: mustJSON(req.Username)},
			{Column: "password_hash", Value: mustJSON(hash)},
		},
	}
	data, err := s.Sender.Send(r.Context(), insertReq)
	if err != nil {
		writeError(w, err)
		return
	}
	var resp dbproto.DatabaseResponse[json.RawMessage]
	if err := json.Unmarshal(data, &resp); err != nil {
		writeError(w, fmt.Errorf("%w: %v", dbproto.ErrParse, err))
		return
	}
	if msg, isErr := resp.ErrorMessage(); isErr {
		writeError(w, fmt.Errorf("httpapi: store rejected signup: %s", msg))
		return
	}

	if err := s.sendVerificationCode(r.Context(), uid, req.Email, totp.KindEmailVerify); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"uid": uid, "status": "verification code sent"})
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type authUserRow struct {
	UID           int64  `json:"uid"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Username      string `json:"username"`
	PasswordHash  string `json:"password_hash"`
}

// handleLogin looks the user up by username or email (sniffed via
// validation.LooksLikeEmail, matching original_source's untagged
// LoginIdentifier), checks the password, then issues a login 2FA code
// instead of a session token directly — the token is only minted from
// handleVerify2FA once the code is confirmed.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody())).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: %v", dbproto.ErrParse, err))
		return
	}

	column := "username"
	if validation.LooksLikeEmail(req.Identifier) {
		column = "email"
	}

	lookupReq := dbproto.DatabaseRequest{
		Table:  "auth_users",
		Action: dbproto.DatabaseAction{Kind: dbproto.ActionRetrieve},
		Filters: &dbproto.Filters{
			WhereClause: &dbproto.WhereClause{
				Kind:  dbproto.WhereSingle,
				Pairs: dbproto.OrderedMap{{Column: column, Value: mustJSON(req.Identifier)}},
			},
		},
	}
	data, err := s.Sender.Send(r.Context(), lookupReq)
	if err != nil {
		writeError(w, err)
		return
	}
	var resp dbproto.DatabaseResponse[authUserRow]
	if err := json.Unmarshal(data, &resp); err != nil {
		writeError(w, fmt.Errorf("%w: %v", dbproto.ErrParse, err))
		return
	}
	rows, _ := resp.IntoData()
	if len(rows) == 0 {
		writeError(w, tokenhandler.ErrUnauthorized)
		return
	}
	user := rows[0]

	ok, err := hasher.Verify(req.Password, user.PasswordHash)
	if err != nil {
		writeError(w, fmt.Errorf("httpapi: verifying password: %w", err))
		return
	}
	if !ok {
		writeError(w, tokenhandler.ErrUnauthorized)
		return
	}

	if err := s.sendVerificationCode(r.Context(), user.UID, user.Email, totp.KindLogin); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"uid": user.UID, "status": "2fa code sent"})
}

type verify2FARequest struct {
	UID  int64  `json:"uid"`
	Code string `json:"code"`
	Kind string `json:"kind"`
}

// handleVerify2FA confirms the code mailed by handleSignup/handleLogin and,
// for Kind "login", mints a session token via tokenhandler.
func (s *Server) handleVerify2FA(w http.ResponseWriter, r *http.Request) {
	var req verify2FARequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody())).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: %v", dbproto.ErrParse, err))
		return
	}

	kind := totp.Kind(req.Kind)
	if kind != totp.KindLogin && kind != totp.KindEmailVerify {
		writeError(w, fmt.Errorf("httpapi: unknown verification kind %q", req.Kind))
		return
	}

	stored, err := s.Totp.Get(r.Context(), req.UID, kind)
	if err != nil {
		writeError(w, fmt.Errorf("httpapi: reading stored code: %w", err))
		return
	}
	if stored == "" || stored != req.Code {
		writeError(w, tokenhandler.ErrUnauthorized)
		return
	}
	if err := s.Totp.Clear(r.Context(), req.UID, kind); err != nil {
		writeError(w, fmt.Errorf("httpapi: clearing code: %w", err))
		return
	}

	if kind == totp.KindEmailVerify {
		updateReq := dbproto.DatabaseRequest{
			Table:  "auth_users",
			Action: dbproto.DatabaseAction{Kind: dbproto.ActionUpdate},
			Values: dbproto.OrderedMap{{Column: "email_verified", Value: mustJSON(true)}},
			Filters: &dbproto.Filters{
				WhereClause: &dbproto.WhereClause{
					Kind:  dbproto.WhereSingle,
					Pairs: dbproto.OrderedMap{{Column: "uid", Value: mustJSON(req.UID)}},
				},
			},
		}
		if _, err := s.Sender.Send(r.Context(), updateReq); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "email verified"})
		return
	}

	token, err := s.Tokens.Generate(r.Context(), req.UID, 24*time.Hour)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// sendVerificationCode derives a TOTP code from a per-user secret, stores
// it under kind, and emails it.
func (s *Server) sendVerificationCode(ctx context.Context, uid int64, email string, kind totp.Kind) error {
	secret := totpSecret(s.TotpSeed, uid, kind)
	code, err := totp.Generate(secret)
	if err != nil {
		return fmt.Errorf("httpapi: generating code: %w", err)
	}
	if err := s.Totp.Put(ctx, uid, kind, code); err != nil {
		return fmt.Errorf("httpapi: %w", err)
	}
	if s.Mailer == nil {
		return nil
	}
	body := fmt.Sprintf("<p>Your verification code is <strong>%s</strong>. It expires in 10 minutes.</p>", code)
	if err := s.Mailer.Send(email, "Your verification code", body); err != nil {
		return fmt.Errorf("httpapi: emailing code: %w", err)
	}
	return nil
}

// totpSecret derives a per-(user, purpose) base32 secret from the
// process-wide seed, since pquerna/otp/totp expects a base32-encoded
// secret rather than an arbitrary byte string.
func totpSecret(seed string, uid int64, kind totp.Kind) string {
	raw := fmt.Sprintf("%s:%d:%s", seed, uid, kind)
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString([]byte(raw))
}
