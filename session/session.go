package session

import (
	"context"
	"fmt"
	"time"

	"github.com/Mahesh1735/research-agent-core/models"
	"github.com/Mahesh1735/research-agent-core/session/inmemory"
	postgres_session "github.com/Mahesh1735/research-agent-core/session/postgres"
	redis_session "github.com/Mahesh1735/research-agent-core/session/redis"
)

// Store loads and checkpoints conversation state per thread.
// Load returns models.ErrThreadNotFound for unknown or expired threads.
type Store interface {
	Load(ctx context.Context, threadID string) (*models.ConversationState, error)
	Checkpoint(ctx context.Context, state *models.ConversationState) error
	Close() error
}

type StoreType string

const (
	InMemoryStore StoreType = "inmemory"
	RedisStore    StoreType = "redis"
	PostgresStore StoreType = "postgres"
)

// Options selects and configures the backing store.
type Options struct {
	TTL         time.Duration
	Redis       redis_session.Options
	PostgresDSN string
}

func NewStore(ctx context.Context, storeType StoreType, opts Options) (Store, error) {
	switch storeType {
	case InMemoryStore, "":
		return inmemory.NewInMemorySessionStore(opts.TTL), nil
	case RedisStore:
		client, err := redis_session.Conn(ctx, opts.Redis)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		return redis_session.NewRedisSessionStore(client, opts.TTL), nil
	case PostgresStore:
		st, err := postgres_session.NewWithDSN(ctx, opts.PostgresDSN, opts.TTL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return st, nil
	default:
		return nil, fmt.Errorf("unsupported store type: %s", storeType)
	}
}
