package quest

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KayJJUNE/steam-bot/internal/domain"
)

// RedisSessionStore keeps guided-flow state in Redis so wizard progress
// survives restarts and is shared when the bot runs more than one replica.
type RedisSessionStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisSessionStore(client redis.UniversalClient, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func (s *RedisSessionStore) MarkVisited(ctx context.Context, discordID int64, step domain.Step) error {
	key := sessionKey(discordID, step)
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, "visited", 1)
	pipe.PExpire(ctx, key, s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisSessionStore) Visited(ctx context.Context, discordID int64, step domain.Step) (bool, error) {
	v, err := s.client.HGet(ctx, sessionKey(discordID, step), "visited").Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	return v == "1", nil
}

func (s *RedisSessionStore) RecordFailedCheck(ctx context.Context, discordID int64, step domain.Step) error {
	key := sessionKey(discordID, step)
	pipe := s.client.TxPipeline()
	pipe.HIncrBy(ctx, key, "failed", 1)
	pipe.PExpire(ctx, key, s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisSessionStore) FailedChecks(ctx context.Context, discordID int64, step domain.Step) (int, error) {
	n, err := s.client.HGet(ctx, sessionKey(discordID, step), "failed").Int()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, err
	}
	return n, nil
}

func (s *RedisSessionStore) Clear(ctx context.Context, discordID int64, step domain.Step) error {
	return s.client.Del(ctx, sessionKey(discordID, step)).Err()
}
