package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mahesh1735/research-agent-core/models"
)

func TestClassify(t *testing.T) {
	expert := models.ToolCall{ID: "e", Name: ExpertTool}
	find := models.ToolCall{ID: "f", Name: FindProductsTool}
	other := models.ToolCall{ID: "o", Name: "weather"}

	tests := []struct {
		name  string
		calls []models.ToolCall
		want  Capability
	}{
		{"no calls", nil, NoCall{}},
		{"expert", []models.ToolCall{expert}, ExpertCall{Calls: []models.ToolCall{expert}}},
		{"find", []models.ToolCall{find}, FindProductsCall{Calls: []models.ToolCall{find}}},
		{"both prefers expert", []models.ToolCall{find, expert}, ExpertCall{Calls: []models.ToolCall{expert}, Deferred: []models.ToolCall{find}}},
		{"find with unknown", []models.ToolCall{find, other}, FindProductsCall{Calls: []models.ToolCall{find}, Deferred: []models.ToolCall{other}}},
		{"unknown only", []models.ToolCall{other}, UnsupportedCall{Calls: []models.ToolCall{other}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(models.Message{Role: models.RoleAssistant, ToolCalls: tt.calls})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToolsAdvertiseBothCapabilities(t *testing.T) {
	tools := Tools()
	require.Len(t, tools, 2)
	assert.Equal(t, ExpertTool, tools[0].Name)
	assert.Equal(t, FindProductsTool, tools[1].Name)
}

type stubSearch struct {
	k       int
	results []models.Result
	err     error
}

func (s *stubSearch) Discover(ctx context.Context, q string, k int) ([]models.Result, error) {
	s.k = k
	return s.results, s.err
}

func TestExpertLookup(t *testing.T) {
	s := &stubSearch{results: []models.Result{{Snippet: " one "}, {Snippet: ""}, {Snippet: "two"}}}
	got, err := Expert{Search: s}.Lookup(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, got)
	assert.Equal(t, DefaultExpertResults, s.k)

	s.err = errors.New("down")
	_, err = Expert{Search: s, MaxResults: 5}.Lookup(context.Background(), "q")
	assert.Error(t, err)
	assert.Equal(t, 5, s.k)
}
