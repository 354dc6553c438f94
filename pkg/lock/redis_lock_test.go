package lock

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNopLocker(t *testing.T) {
	release, err := NopLocker{}.Acquire(context.Background(), Key("42"))
	require.NoError(t, err)
	release()

	again, err := NopLocker{}.Acquire(context.Background(), Key("42"))
	require.NoError(t, err)
	again()
}

func TestKey(t *testing.T) {
	assert.Equal(t, "voicebot:turn:42", Key("42"))
}

func openRedis(t *testing.T) redis.UniversalClient {
	t.Helper()
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("Skipping redis lock test: REDIS_URL not set")
	}
	opt, err := redis.ParseURL(url)
	require.NoError(t, err)
	rdb := redis.NewClient(opt)
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, rdb.Ping(context.Background()).Err())
	return rdb
}

func TestRedisLockerContention(t *testing.T) {
	rdb := openRedis(t)
	ctx := context.Background()
	key := Key("it-" + uuid.NewString()[:8])
	locker := NewRedisLocker(rdb, time.Minute, 300*time.Millisecond)

	release, err := locker.Acquire(ctx, key)
	require.NoError(t, err)

	_, err = locker.Acquire(ctx, key)
	assert.True(t, errors.Is(err, ErrNotAcquired))

	release()
	again, err := locker.Acquire(ctx, key)
	require.NoError(t, err)
	again()

	n, err := rdb.Exists(ctx, key).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestRedisLockerReleaseKeepsOtherHolder(t *testing.T) {
	rdb := openRedis(t)
	ctx := context.Background()
	key := Key("it-" + uuid.NewString()[:8])

	stale, err := NewRedisLocker(rdb, 200*time.Millisecond, 0).Acquire(ctx, key)
	require.NoError(t, err)
	time.Sleep(400 * time.Millisecond)

	current, err := NewRedisLocker(rdb, time.Minute, 0).Acquire(ctx, key)
	require.NoError(t, err)
	defer current()

	// the expired holder must not delete the new holder's key
	stale()
	n, err := rdb.Exists(ctx, key).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestRedisLockerCancelledWait(t *testing.T) {
	rdb := openRedis(t)
	key := Key("it-" + uuid.NewString()[:8])
	locker := NewRedisLocker(rdb, time.Minute, time.Minute)

	release, err := locker.Acquire(context.Background(), key)
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()
	_, err = locker.Acquire(ctx, key)

	assert.True(t, errors.Is(err, ErrNotAcquired))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
