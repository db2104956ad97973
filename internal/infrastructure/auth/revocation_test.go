package auth

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestInMemoryRevocationList(t *testing.T) {
	ctx := context.Background()
	l := NewInMemoryRevocationList()

	revoked, err := l.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, l.Revoke(ctx, "jti-1", time.Minute))
	revoked, err = l.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	require.NoError(t, l.Revoke(ctx, "jti-2", time.Millisecond))
	time.Sleep(5 * time.Millisecond)
	revoked, err = l.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked, "entries expire with the token")

	require.NoError(t, l.Revoke(ctx, "jti-3", 0))
	revoked, _ = l.IsRevoked(ctx, "jti-3")
	assert.False(t, revoked, "an already expired token needs no entry")
}

func TestRedisRevocationList(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })

	l := NewRedisRevocationList(client)
	require.NoError(t, l.Revoke(ctx, "jti-r", time.Minute))

	revoked, err := l.IsRevoked(ctx, "jti-r")
	require.NoError(t, err)
	assert.True(t, revoked)

	ttl, err := client.TTL(ctx, "token:revoked:jti-r").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 50*time.Second)

	revoked, err = l.IsRevoked(ctx, "jti-unknown")
	require.NoError(t, err)
	assert.False(t, revoked)
}
