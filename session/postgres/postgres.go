package postgres_session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/Mahesh1735/research-agent-core/models"
)

// Store persists conversation states in the conversation_states table.
type Store struct {
	DB  *sql.DB
	TTL time.Duration
}

// NewWithDSN opens and pings a postgres connection.
func NewWithDSN(ctx context.Context, dsn string, ttl time.Duration) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{DB: db, TTL: ttl}, nil
}

const loadStateSQL = `
SELECT state FROM conversation_states
WHERE thread_id = $1 AND (expires_at IS NULL OR expires_at > NOW())`

func (s *Store) Load(ctx context.Context, threadID string) (*models.ConversationState, error) {
	var raw []byte
	err := s.DB.QueryRowContext(ctx, loadStateSQL, threadID).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrThreadNotFound
		}
		return nil, err
	}
	var state models.ConversationState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("decode thread %s: %w", threadID, err)
	}
	state.Normalize()
	return &state, nil
}

const checkpointStateSQL = `
INSERT INTO conversation_states (thread_id, state, created_at, updated_at, expires_at)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (thread_id) DO UPDATE SET
  state = EXCLUDED.state,
  updated_at = EXCLUDED.updated_at,
  expires_at = EXCLUDED.expires_at;
`

func (s *Store) Checkpoint(ctx context.Context, state *models.ConversationState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	updated := state.UpdatedAt
	if updated.IsZero() {
		updated = time.Now().UTC()
	}
	created := state.CreatedAt
	if created.IsZero() {
		created = updated
	}
	var expires sql.NullTime
	if s.TTL > 0 {
		expires = sql.NullTime{Time: updated.Add(s.TTL), Valid: true}
	}
	_, err = s.DB.ExecContext(ctx, checkpointStateSQL, state.ThreadID, data, created, updated, expires)
	return err
}

// PruneExpired deletes states whose TTL has passed.
func (s *Store) PruneExpired(ctx context.Context) (int64, error) {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM conversation_states WHERE expires_at IS NOT NULL AND expires_at <= NOW()`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) Close() error { return s.DB.Close() }
