//go:build integration

package redis_session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Mahesh1735/research-agent-core/models"
)

func TestRedisStoreRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp"),
		},
		Started: true,
	})
	require.NoError(t, err)
	defer func() { _ = c.Terminate(ctx) }()

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client, err := Conn(ctx, Options{Host: host, Port: port.Port(), Timeout: 5 * time.Second})
	require.NoError(t, err)
	store := NewRedisSessionStore(client, time.Minute)
	defer store.Close()

	_, err = store.Load(ctx, "t1")
	assert.ErrorIs(t, err, models.ErrThreadNotFound)

	st := models.NewConversationState("t1")
	st.Requirements = models.Requirements{Requirements: []string{"kanban"}, Query: "pm tool", Keywords: []string{"pm"}}
	st.Candidates = models.CandidateList{{Title: "Trello", URL: "https://trello.com/", Score: 0.8}}
	st.Messages = append(st.Messages, models.Message{Role: models.RoleAssistant, ToolCalls: []models.ToolCall{{ID: "c1", Name: "expert", Arguments: map[string]any{"query": "q"}}}})
	require.NoError(t, store.Checkpoint(ctx, st))

	got, err := store.Load(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, st.Requirements, got.Requirements)
	assert.Equal(t, st.Candidates, got.Candidates)
	assert.Equal(t, "q", got.Messages[0].ToolCalls[0].Arguments["query"])

	ttl, err := client.TTL(ctx, threadKeyPrefix+"t1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
