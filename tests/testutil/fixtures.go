package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	adaptershttp "github.com/iho/fintrack/internal/adapter/http"
	"github.com/iho/fintrack/internal/adapter/http/handler"
	"github.com/iho/fintrack/internal/adapter/report"
	postgresrepo "github.com/iho/fintrack/internal/adapter/repository/postgres"
	redisrepo "github.com/iho/fintrack/internal/adapter/repository/redis"
	"github.com/iho/fintrack/internal/adapter/storage"
	"github.com/iho/fintrack/internal/infrastructure/auth"
	"github.com/iho/fintrack/internal/infrastructure/eventpublisher"
	"github.com/iho/fintrack/internal/infrastructure/postgres"
	"github.com/iho/fintrack/internal/usecase"
)

// TestDB provides isolated test database connections.
type TestDB struct {
	Pool *pgxpool.Pool
	t    *testing.T
}

// NewTestDB connects to DATABASE_URL and applies migrations. The test is
// skipped when no database is configured.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}

	if err := postgres.RunMigrations(dbURL); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, dbURL, 5, 1)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	return &TestDB{Pool: pool, t: t}
}

// Cleanup closes the database connection.
func (db *TestDB) Cleanup() {
	db.Pool.Close()
}

// TruncateAll removes all data from tables.
func (db *TestDB) TruncateAll(ctx context.Context) {
	db.t.Helper()

	_, err := db.Pool.Exec(ctx, `TRUNCATE TABLE entries, categories, accounts, users CASCADE`)
	if err != nil {
		db.t.Fatalf("failed to truncate tables: %v", err)
	}
}

// Server is the full HTTP API backed by the test database, an in-memory
// Redis and a temporary receipt directory.
type Server struct {
	Handler http.Handler
	Redis   *miniredis.Miniredis
}

// NewServer wires the API the same way the server binary does.
func NewServer(t *testing.T, db *TestDB) *Server {
	t.Helper()

	mr := miniredis.RunT(t)
	redisClient := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	receipts, err := storage.NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("failed to open receipt storage: %v", err)
	}

	logger := zerolog.Nop()
	pool := db.Pool
	jwtManager := auth.NewJWTManager("integration-secret", time.Hour)
	idGen := postgresrepo.NewULIDGenerator()
	userRepo := postgresrepo.NewUserRepository(pool)
	accountRepo := postgresrepo.NewAccountRepository(pool)
	categoryRepo := postgresrepo.NewCategoryRepository(pool)
	entryRepo := postgresrepo.NewEntryRepository(pool)
	dashboards := usecase.NewDashboardCache(redisrepo.NewCache(redisClient), time.Minute)

	userUC := usecase.NewUserUseCase(usecase.UserDeps{
		UserRepo:    userRepo,
		EntryRepo:   entryRepo,
		Receipts:    receipts,
		ResetTokens: redisrepo.NewResetTokenStore(redisClient),
		Notifier:    eventpublisher.NewLogPublisher(&logger),
		Tokens:      jwtManager,
		IDGen:       idGen,
		ResetURL:    "http://localhost/reset-password",
	})

	entryUC := usecase.NewEntryUseCase(
		postgresrepo.NewTxManager(pool),
		postgresrepo.NewRetrier().WithLogger(logger),
		entryRepo, accountRepo, categoryRepo, receipts, dashboards, idGen, nil,
	)

	router := adaptershttp.NewRouter(adaptershttp.RouterConfig{
		AuthHandler:      handler.NewAuthHandler(userUC),
		AccountHandler:   handler.NewAccountHandler(usecase.NewAccountUseCase(accountRepo, entryRepo, receipts, dashboards, idGen)),
		CategoryHandler:  handler.NewCategoryHandler(usecase.NewCategoryUseCase(categoryRepo, entryRepo, receipts, dashboards, idGen)),
		EntryHandler:     handler.NewEntryHandler(entryUC, 1<<20),
		DashboardHandler: handler.NewDashboardHandler(usecase.NewDashboardUseCase(accountRepo, entryRepo, dashboards)),
		ReportHandler:    handler.NewReportHandler(usecase.NewReportUseCase(entryRepo, userRepo, report.Renderers(), nil)),
		HealthHandler: handler.NewHealthHandler(
			pool,
			handler.PingerFunc(func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }),
		),
		TokenVerifier:    jwtManager,
		IdempotencyStore: redisrepo.NewIdempotencyStore(redisClient),
		Logger:           &logger,
	})

	return &Server{Handler: router, Redis: mr}
}

// Do sends a JSON request and returns the recorded response.
func (s *Server) Do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	return rec
}

// Decode unmarshals a recorded JSON response into v.
func Decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()

	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}
