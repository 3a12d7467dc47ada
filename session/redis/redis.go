package redis_session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Mahesh1735/research-agent-core/models"
)

const threadKeyPrefix = "thread:"

// Options holds the connection settings.
type Options struct {
	Host     string
	Port     string
	Password string
	DB       int
	Timeout  time.Duration
}

// Conn dials redis and verifies the connection with PING.
func Conn(ctx context.Context, opts Options) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%s", opts.Host, opts.Port),
		DialTimeout: opts.Timeout,
		Password:    opts.Password,
		DB:          opts.DB,
	})

	pong, err := client.Ping(ctx).Result()
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	if pong != "PONG" {
		_ = client.Close()
		return nil, fmt.Errorf("expected PONG, got %s", pong)
	}
	return client, nil
}

// Store keeps each conversation state as a JSON value under thread:<id>.
// Every checkpoint refreshes the TTL; zero keeps keys forever.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func (store *Store) Load(ctx context.Context, threadID string) (*models.ConversationState, error) {
	val, err := store.client.Get(ctx, threadKeyPrefix+threadID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, models.ErrThreadNotFound
		}
		return nil, err
	}
	var state models.ConversationState
	if err := json.Unmarshal(val, &state); err != nil {
		return nil, fmt.Errorf("decode thread %s: %w", threadID, err)
	}
	state.Normalize()
	return &state, nil
}

func (store *Store) Checkpoint(ctx context.Context, state *models.ConversationState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return store.client.Set(ctx, threadKeyPrefix+state.ThreadID, data, store.ttl).Err()
}

func (store *Store) Close() error { return store.client.Close() }
