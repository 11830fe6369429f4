package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connect opens the client backing the best-shot cache and the outcome
// pub/sub stream. The service runs fine without Redis (search just goes
// uncached), so the dial check is bounded to fail fast rather than hang
// startup on a bad URL.
func Connect(redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}
