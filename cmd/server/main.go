// Command server wires the query engine and its auth collaborators into
// one HTTP process. Grounded on the teacher's main.go startup shape
// (godotenv in init, a single ServeMux, nested middleware, graceful
// shutdown on SIGINT/SIGTERM) and api/main.go's logStartupInfo banner.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/brinedb/queryengine/config"
	"github.com/brinedb/queryengine/httpapi"
	"github.com/brinedb/queryengine/idgen"
	"github.com/brinedb/queryengine/mailer"
	"github.com/brinedb/queryengine/models"
	"github.com/brinedb/queryengine/query"
	"github.com/brinedb/queryengine/registry"
	"github.com/brinedb/queryengine/secrets"
	"github.com/brinedb/queryengine/storeexec"
	"github.com/brinedb/queryengine/tokenhandler"
	"github.com/brinedb/queryengine/totp"
)

func logStartupInfo(secretsPath string) {
	fmt.Println("=== queryengine ===")
	fmt.Printf("Port:            %s\n", config.Cfg.Port)
	fmt.Printf("Secrets:         %s\n", secretsPath)
	fmt.Printf("Request timeout: %ds\n", config.Cfg.RequestTimeout)
	fmt.Printf("Pagination:      %d default, %d max\n", config.Cfg.DefaultLimit, config.Cfg.MaxQueryLimit)
	if len(config.Cfg.CORSOrigins) == 0 {
		fmt.Println("[INFO] CORS disabled (no origins configured)")
	} else {
		fmt.Printf("[OK]   CORS origins: %v\n", config.Cfg.CORSOrigins)
	}
	if config.Cfg.RateLimitEnabled {
		fmt.Printf("[OK]   Rate limiting: %d req/min per IP\n", config.Cfg.RateLimit)
	} else {
		fmt.Println("[INFO] Rate limiting disabled")
	}
	fmt.Println()
}

// schema is the static table-column registry this process knows about.
// A real deployment would load this from the store's own schema
// introspection; this module's engine treats it as caller-supplied input
// (spec.md's table_columns), so a fixed map is sufficient here.
func schema() map[string]query.TableColumns {
	return map[string]query.TableColumns{
		"users": {
			"uid": query.ColumnBigint, "email": query.ColumnText,
			"owner": query.ColumnBoolean, "email_verified": query.ColumnBoolean,
			"username": query.ColumnText,
		},
		"auth_users": {
			"uid": query.ColumnBigint, "email": query.ColumnText,
			"email_verified": query.ColumnBoolean, "username": query.ColumnText,
			"password_hash": query.ColumnText,
		},
		"auth_tokens": {
			"jti": query.ColumnText, "uid": query.ColumnBigint,
			"expires_at": query.ColumnBigint,
		},
	}
}

func main() {
	secretsPath := config.Cfg.SecretsPath
	secretStore, err := secrets.Load(secretsPath)
	if err != nil {
		log.Fatalf("loading secrets: %v", err)
	}

	logStartupInfo(secretsPath)

	reg := registry.New()
	reg.Register(models.AuthUsersTable, models.FromRow)
	reg.Register(models.UsersTable, models.UserFromRow)
	reg.Register(models.AuthTokensTable, models.AuthTokensFromRow)
	reg.Freeze()

	db, err := sql.Open("postgres", config.Cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("connecting to postgres: %v", err)
	}
	store := &storeexec.Store{DB: db}

	rdb := redis.NewClient(&redis.Options{Addr: config.Cfg.RedisAddr})
	totpStore := totp.NewStore(rdb)

	sender := httpapi.NewLocalSender(store, schema())
	tokens := tokenhandler.New(secretStore.SecretKey, sender)

	var mailClient *mailer.Client
	if secretStore.SMTPRelay != "" {
		mailClient = mailer.New(secretStore.NoReplyEmail, secretStore.SMTPUsername, secretStore.SMTPPassword, secretStore.SMTPRelay)
	}

	srv := &httpapi.Server{
		Registry: reg,
		Sender:   sender,
		Schema:   schema(),
		Tokens:   tokens,
		Totp:     totpStore,
		TotpSeed: secretStore.SecretKey,
		Mailer:   mailClient,
		IDs:      idgen.New(),
		MaxBody:  config.Cfg.MaxRequestBody,
	}

	mux := srv.Routes()

	rateLimit := config.Cfg.RateLimit
	if !config.Cfg.RateLimitEnabled {
		rateLimit = 0
	}
	handler := httpapi.Chain(mux,
		httpapi.LoggingMiddleware,
		httpapi.TimeoutMiddleware(time.Duration(config.Cfg.RequestTimeout)*time.Second),
		httpapi.RateLimitMiddleware(rateLimit),
	)

	server := &http.Server{
		Addr:    config.Cfg.Port,
		Handler: handler,
	}

	go func() {
		fmt.Printf("Listening on %s\n", config.Cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}
	fmt.Println("Server stopped")
}
