//go:build integration

package redis_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	repo "github.com/dtroode/gophcheck-server/internal/repository/redis"
)

var addr string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		panic(err)
	}
	addr = fmt.Sprintf("%s:%s", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func newClient(t *testing.T) *goredis.Client {
	t.Helper()
	client, err := repo.Connect(context.Background(), "redis://"+addr+"/0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestConnect_HostPort(t *testing.T) {
	client, err := repo.Connect(context.Background(), addr)
	require.NoError(t, err)
	_ = client.Close()
}

func TestCounterStore_LockLifecycle(t *testing.T) {
	ctx := context.Background()
	counters := repo.NewCounterStore(newClient(t))

	key := "ip:" + uuid.NewString()
	window := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	now := window.Add(time.Second)
	const limit = 3
	lock := 2 * time.Minute

	for i := 1; i <= limit; i++ {
		c, err := counters.Bump(ctx, key, window, now, limit, lock)
		require.NoError(t, err)
		assert.Equal(t, i, c.Count)
		assert.False(t, c.Locked)
	}

	c, err := counters.Bump(ctx, key, window, now, limit, lock)
	require.NoError(t, err)
	assert.True(t, c.Locked)
	require.NotNil(t, c.LockUntil)
	assert.True(t, now.Add(lock).Equal(*c.LockUntil))

	nextWindow := window.Add(time.Minute)
	c, err = counters.Bump(ctx, key, nextWindow, nextWindow.Add(time.Second), limit, lock)
	require.NoError(t, err)
	assert.True(t, c.Locked)

	afterLock := now.Add(lock).Add(time.Second)
	c, err = counters.Bump(ctx, key, afterLock.Truncate(time.Minute), afterLock, limit, lock)
	require.NoError(t, err)
	assert.False(t, c.Locked)
	assert.Equal(t, 1, c.Count)
}

func TestCounterStore_ConcurrentBumps(t *testing.T) {
	ctx := context.Background()
	counters := repo.NewCounterStore(newClient(t))

	key := "session:" + uuid.NewString()
	window := time.Date(2025, 3, 1, 13, 0, 0, 0, time.UTC)
	now := window.Add(time.Second)

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := counters.Bump(ctx, key, window, now, 1000, time.Minute)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	c, err := counters.Bump(ctx, key, window, now, 1000, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, workers+1, c.Count)
}
