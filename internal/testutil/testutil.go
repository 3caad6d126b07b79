// Package testutil provides helpers for integration tests that need a real
// Postgres or Redis instance. Tests skip automatically when the backing
// service is not reachable, unless TEST_REQUIRE_INFRA forces a failure.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	// Import pgx driver for database/sql compatibility in tests.
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"github.com/neduet/campus-api/internal/migrate"
)

// TestingTB is the subset of testing.TB these helpers need. It covers both
// *testing.T and *testing.B.
type TestingTB interface {
	Helper()
	Cleanup(func())
	Skip(args ...interface{})
	Skipf(format string, args ...interface{})
	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})
	Logf(format string, args ...interface{})
}

// TestDBConfig holds configuration for the test database.
type TestDBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// DefaultTestDBConfig returns default test database configuration.
// Defaults to port 55432 (local test DB from the docker-compose test profile).
// CI environments should set TEST_DB_PORT=5432 explicitly.
func DefaultTestDBConfig() TestDBConfig {
	return TestDBConfig{
		Host:     getEnvOrDefault("TEST_DB_HOST", "localhost"),
		Port:     getEnvOrDefault("TEST_DB_PORT", "55432"),
		User:     getEnvOrDefault("TEST_DB_USER", "campus"),
		Password: getEnvOrDefault("TEST_DB_PASSWORD", "campus"),
		DBName:   getEnvOrDefault("TEST_DB_NAME", "campus"),
	}
}

func buildTestDSN(cfg TestDBConfig) string {
	hostPort := net.JoinHostPort(cfg.Host, cfg.Port)
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable",
		cfg.User, cfg.Password, hostPort, cfg.DBName)
}

// SetupTestDB opens a connection to the test database, runs the production
// migrations, and clears any leftover rows. The connection is closed and the
// data cleared again when the test finishes.
func SetupTestDB(t TestingTB) *sql.DB {
	t.Helper()
	SkipIfNoTestDB(t)

	db, err := sql.Open("pgx", buildTestDSN(DefaultTestDBConfig()))
	if err != nil {
		t.Fatal("Failed to open database:", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if pingErr := db.PingContext(ctx); pingErr != nil {
		t.Fatal("Failed to connect to test database. Make sure PostgreSQL is running (docker-compose up -d):", pingErr)
	}

	// Run production migrations so the schema matches the application.
	if migrateErr := migrate.Run(ctx, db); migrateErr != nil {
		t.Fatal("Failed to run migrations:", migrateErr)
	}

	CleanupTestDB(t, db)
	t.Cleanup(func() {
		CleanupTestDB(t, db)
		if cerr := db.Close(); cerr != nil {
			t.Logf("warning: failed to close test db: %v", cerr)
		}
	})

	return db
}

// CleanupTestDB removes all rows from the application tables.
func CleanupTestDB(t TestingTB, db *sql.DB) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Delete in reverse dependency order so foreign keys never block.
	tables := []string{
		"attendance",
		"marks",
		"enrollments",
		"enrollment_windows",
		"bills",
		"menu_items",
		"feedback",
		"courses",
		"departments",
		"users",
	}
	for _, table := range tables {
		if _, err := db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			t.Fatalf("Failed to clean up table %s: %v", table, err)
		}
	}
}

// SkipIfNoTestDB skips the test when the test database is not reachable.
func SkipIfNoTestDB(t TestingTB) {
	t.Helper()

	db, err := sql.Open("pgx", buildTestDSN(DefaultTestDBConfig()))
	if err != nil {
		skipOrFail(t, requireDB(), "Test database not available:", err)
		return
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			t.Logf("test db close failed: %v", cerr)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if pingErr := db.PingContext(ctx); pingErr != nil {
		skipOrFail(t, requireDB(), "Test database not available:", pingErr)
	}
}

// SetupTestRedis creates a Redis client for testing with automatic address
// detection. Tests are skipped when Redis is not available. The selected DB
// is flushed before the test and the client closed afterwards.
func SetupTestRedis(t TestingTB) *redis.Client {
	t.Helper()

	addr, ok := detectTestRedisAddr(t)
	if !ok {
		skipOrFail(t, requireRedis(), "Redis not available for testing")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   testRedisDB(t),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		if cerr := client.Close(); cerr != nil {
			t.Logf("warning: failed to close redis client after ping error: %v", cerr)
		}
		skipOrFail(t, requireRedis(), "Redis not available for testing at "+addr+":", err)
		return nil
	}

	client.FlushDB(ctx)
	t.Cleanup(func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer flushCancel()
		client.FlushDB(flushCtx)
		if cerr := client.Close(); cerr != nil {
			t.Logf("warning: failed to close test redis client: %v", cerr)
		}
	})

	return client
}

// detectTestRedisAddr probes the usual places a test Redis might live.
func detectTestRedisAddr(t TestingTB) (string, bool) {
	t.Helper()

	if ciAddr := os.Getenv("REDIS_ADDR"); ciAddr != "" {
		return ciAddr, redisReachable(t, ciAddr)
	}

	candidates := []string{
		"localhost:56379", // local docker-compose test profile
		"localhost:6379",
		"redis:6379", // Docker Compose service name in CI
	}
	for _, addr := range candidates {
		if redisReachable(t, addr) {
			return addr, true
		}
	}
	return "", false
}

func redisReachable(t TestingTB, addr string) bool {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: addr})
	defer func() {
		if err := client.Close(); err != nil {
			t.Logf("warning: failed to close redis probe client: %v", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return client.Ping(ctx).Err() == nil
}

// testRedisDB returns the Redis logical DB index used for tests. Defaults to
// DB 9 so a FlushDB never touches development data in DB 0.
func testRedisDB(t TestingTB) int {
	if v := os.Getenv("TEST_REDIS_DB"); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i >= 0 {
			return i
		}
		t.Logf("Invalid TEST_REDIS_DB=%q, using default", v)
	}
	return 9
}

func skipOrFail(t TestingTB, required bool, args ...interface{}) {
	t.Helper()
	if required {
		t.Fatal(args...)
	}
	t.Skip(args...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// envBool parses common truthy values from env vars.
func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

func requireDB() bool    { return envBool("TEST_REQUIRE_DB") || envBool("TEST_REQUIRE_INFRA") }
func requireRedis() bool { return envBool("TEST_REQUIRE_REDIS") || envBool("TEST_REQUIRE_INFRA") }
