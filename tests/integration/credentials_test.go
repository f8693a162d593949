package integration

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/warehousekit/fulfillment-client/internal/testutil"
	"github.com/warehousekit/fulfillment-client/pkg/credentials"
	"github.com/warehousekit/fulfillment-client/pkg/gateway"
)

// setupRedis creates a Redis container for integration testing.
func setupRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: host + ":" + port.Port(),
	})

	cleanup := func() {
		redisClient.Close()
		container.Terminate(ctx)
	}

	return redisClient, cleanup
}

func newGateway(t *testing.T, baseURL string, creds credentials.Provider) *gateway.Gateway {
	t.Helper()

	cfg := gateway.DefaultConfig(baseURL, creds)
	cfg.RequestsPerSecond = 1000
	cfg.Burst = 1000

	gw, err := gateway.New(cfg)
	if err != nil {
		t.Fatalf("Failed to create gateway: %v", err)
	}
	return gw
}

// TestRedisStoreLifecycle tests the Redis-backed store round trip.
func TestRedisStoreLifecycle(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	ctx := context.Background()
	store := credentials.NewRedisStore(redisClient, 0, zerolog.Nop())

	if _, err := store.Token(ctx); err != credentials.ErrNoToken {
		t.Errorf("Token on empty store = %v, want ErrNoToken", err)
	}

	if err := store.Store(ctx, "tok-abc"); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	token, err := store.Token(ctx)
	if err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	if token != "tok-abc" {
		t.Errorf("Token = %q, want tok-abc", token)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, err := store.Token(ctx); err != credentials.ErrNoToken {
		t.Errorf("Token after clear = %v, want ErrNoToken", err)
	}
}

// TestRedisStoreTokenTTL tests that a stored token expires with its TTL.
func TestRedisStoreTokenTTL(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	ctx := context.Background()
	store := credentials.NewRedisStore(redisClient, 1*time.Second, zerolog.Nop())

	if err := store.Store(ctx, "short-lived"); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	if _, err := store.Token(ctx); err != nil {
		t.Fatalf("Token before expiry failed: %v", err)
	}

	time.Sleep(1500 * time.Millisecond)

	if _, err := store.Token(ctx); err != credentials.ErrNoToken {
		t.Errorf("Token after TTL = %v, want ErrNoToken", err)
	}
}

// TestSharedTokenAcrossGateways tests that several gateway instances share
// one Redis-stored session token.
func TestSharedTokenAcrossGateways(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	mock := testutil.NewMockBackend()
	defer mock.Close()
	mock.SetJSONResponse("/api/orders", http.StatusOK,
		`{"data": [], "pageNo": 1, "totalPages": 1, "totalRecords": 0}`)

	ctx := context.Background()
	store := credentials.NewRedisStore(redisClient, 0, zerolog.Nop())
	if err := store.Store(ctx, "shared-token"); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	// Two independent gateways, one shared credential store.
	gw1 := newGateway(t, mock.URL(), store)
	gw2 := newGateway(t, mock.URL(), store)

	if err := gw1.Get(ctx, "/api/orders", nil, nil); err != nil {
		t.Fatalf("Gateway 1 request failed: %v", err)
	}
	if got := mock.GetLastAuthHeader(); got != "Bearer shared-token" {
		t.Errorf("Gateway 1 Authorization = %q, want Bearer shared-token", got)
	}

	if err := gw2.Get(ctx, "/api/orders", nil, nil); err != nil {
		t.Fatalf("Gateway 2 request failed: %v", err)
	}
	if got := mock.GetLastAuthHeader(); got != "Bearer shared-token" {
		t.Errorf("Gateway 2 Authorization = %q, want Bearer shared-token", got)
	}
}

// TestUnauthorizedClearsSharedToken tests that a 401 on one gateway clears
// the token for every process sharing the store.
func TestUnauthorizedClearsSharedToken(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	mock := testutil.NewMockBackend()
	defer mock.Close()
	mock.SetJSONResponse("/api/orders", http.StatusUnauthorized,
		`{"message": "session expired"}`)

	ctx := context.Background()
	store := credentials.NewRedisStore(redisClient, 0, zerolog.Nop())
	if err := store.Store(ctx, "stale-token"); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	gw := newGateway(t, mock.URL(), store)

	err := gw.Get(ctx, "/api/orders", nil, nil)
	if !gateway.IsUnauthenticated(err) {
		t.Fatalf("Expected unauthenticated error, got %v", err)
	}

	// The cleared token is visible through an independent handle on the
	// same Redis instance.
	other := credentials.NewRedisStore(redisClient, 0, zerolog.Nop())
	if _, err := other.Token(ctx); err != credentials.ErrNoToken {
		t.Errorf("Token after 401 = %v, want ErrNoToken", err)
	}
}
