package postgres_session

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mahesh1735/research-agent-core/models"
)

func newMock(t *testing.T, ttl time.Duration) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &Store{DB: db, TTL: ttl}, mock
}

func TestLoad(t *testing.T) {
	st, mock := newMock(t, 0)
	raw := `{"thread_id":"t1","requirements":{"requirements":["kanban"],"query":"pm","keywords":null},"candidates":null,"messages":[{"role":"user","content":"hi"}]}`
	mock.ExpectQuery(regexp.QuoteMeta(loadStateSQL)).
		WithArgs("t1").
		WillReturnRows(sqlmock.NewRows([]string{"state"}).AddRow([]byte(raw)))

	got, err := st.Load(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "t1", got.ThreadID)
	assert.Equal(t, []string{"kanban"}, got.Requirements.Requirements)
	assert.NotNil(t, got.Requirements.Keywords)
	assert.NotNil(t, got.Candidates)
	assert.Equal(t, "hi", got.LastMessage())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadNotFound(t *testing.T) {
	st, mock := newMock(t, 0)
	mock.ExpectQuery(regexp.QuoteMeta(loadStateSQL)).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"state"}))

	_, err := st.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrThreadNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadDatabaseError(t *testing.T) {
	st, mock := newMock(t, 0)
	mock.ExpectQuery(regexp.QuoteMeta(loadStateSQL)).WithArgs("t1").WillReturnError(errors.New("conn reset"))

	_, err := st.Load(context.Background(), "t1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrThreadNotFound)
}

func TestCheckpointUpserts(t *testing.T) {
	st, mock := newMock(t, time.Hour)
	state := models.NewConversationState("t1")
	mock.ExpectExec(regexp.QuoteMeta(checkpointStateSQL)).
		WithArgs("t1", sqlmock.AnyArg(), state.CreatedAt, state.UpdatedAt, state.UpdatedAt.Add(time.Hour)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, st.Checkpoint(context.Background(), state))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckpointWithoutTTL(t *testing.T) {
	st, mock := newMock(t, 0)
	state := models.NewConversationState("t1")
	mock.ExpectExec(regexp.QuoteMeta(checkpointStateSQL)).
		WithArgs("t1", sqlmock.AnyArg(), state.CreatedAt, state.UpdatedAt, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, st.Checkpoint(context.Background(), state))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPruneExpired(t *testing.T) {
	st, mock := newMock(t, time.Hour)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM conversation_states`)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := st.PruneExpired(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadCorruptState(t *testing.T) {
	st, mock := newMock(t, 0)
	mock.ExpectQuery(regexp.QuoteMeta(loadStateSQL)).
		WithArgs("t1").
		WillReturnRows(sqlmock.NewRows([]string{"state"}).AddRow([]byte("{")))

	_, err := st.Load(context.Background(), "t1")
	require.Error(t, err)
	assert.False(t, errors.Is(err, sql.ErrNoRows))
}
