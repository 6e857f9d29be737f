package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"parent-assistant-be/pkg/rag/history"

	"github.com/redis/go-redis/v9"
)

const turnKeyPrefix = "assistant:turns:"

// TurnRepository stores each thread as a Redis list of JSON turns so that
// several API instances share conversation memory.
type TurnRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewTurnRepository(rdb *redis.Client, ttl time.Duration) *TurnRepository {
	return &TurnRepository{rdb: rdb, ttl: ttl}
}

func turnKey(threadID string) string {
	return turnKeyPrefix + threadID
}

func (r *TurnRepository) Append(ctx context.Context, threadID string, turn history.Turn) error {
	data, err := json.Marshal(turn)
	if err != nil {
		return err
	}

	key := turnKey(threadID)
	pipe := r.rdb.TxPipeline()
	pipe.RPush(ctx, key, data)
	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis append %s: %w", key, err)
	}
	return nil
}

func (r *TurnRepository) List(ctx context.Context, threadID string) ([]history.Turn, error) {
	key := turnKey(threadID)
	raw, err := r.rdb.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list %s: %w", key, err)
	}

	turns := make([]history.Turn, 0, len(raw))
	for _, item := range raw {
		var t history.Turn
		if err := json.Unmarshal([]byte(item), &t); err != nil {
			return nil, fmt.Errorf("decode turn in %s: %w", key, err)
		}
		turns = append(turns, t)
	}

	if r.ttl > 0 && len(raw) > 0 {
		r.rdb.Expire(ctx, key, r.ttl)
	}
	return turns, nil
}

func (r *TurnRepository) Delete(ctx context.Context, threadID string) error {
	return r.rdb.Del(ctx, turnKey(threadID)).Err()
}
