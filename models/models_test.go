package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchQuery(t *testing.T) {
	cases := []struct {
		name string
		req  Requirements
		want string
	}{
		{"query and keywords", Requirements{Query: "project management tool", Keywords: []string{"kanban", "free"}}, "project management tool kanban free"},
		{"blank keywords skipped", Requirements{Query: " crm ", Keywords: []string{" ", "smb"}}, "crm smb"},
		{"keywords only", Requirements{Keywords: []string{"laptop"}}, "laptop"},
		{"empty", Requirements{}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.req.SearchQuery())
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := NewConversationState("t1")
	orig.Requirements = Requirements{Requirements: []string{"cheap"}, Query: "q", Keywords: []string{"k"}}
	orig.Candidates = CandidateList{{Title: "A", URL: "https://a.com"}}
	orig.Messages = []Message{{Role: RoleAssistant, ToolCalls: []ToolCall{{ID: "1", Name: "expert"}}}}

	c := orig.Clone()
	c.Requirements.Requirements[0] = "expensive"
	c.Requirements.Keywords[0] = "x"
	c.Candidates[0].Title = "B"
	c.Messages[0].ToolCalls[0].Name = "other"
	c.Messages = append(c.Messages, Message{Role: RoleUser, Content: "hi"})

	assert.Equal(t, "cheap", orig.Requirements.Requirements[0])
	assert.Equal(t, "k", orig.Requirements.Keywords[0])
	assert.Equal(t, "A", orig.Candidates[0].Title)
	assert.Equal(t, "expert", orig.Messages[0].ToolCalls[0].Name)
	assert.Len(t, orig.Messages, 1)
}

func TestNormalizeFillsNil(t *testing.T) {
	var s ConversationState
	s.Normalize()
	assert.NotNil(t, s.Requirements.Requirements)
	assert.NotNil(t, s.Requirements.Keywords)
	assert.NotNil(t, s.Candidates)
	assert.NotNil(t, s.Messages)

	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"candidates":[]`)
}

func TestStrippedDropsRawContent(t *testing.T) {
	l := CandidateList{{Title: "A", RawContent: "page"}}
	out := l.Stripped()
	assert.Empty(t, out[0].RawContent)
	assert.Equal(t, "page", l[0].RawContent)

	b, err := json.Marshal(out[0])
	require.NoError(t, err)
	assert.NotContains(t, string(b), "raw_content")
	assert.Contains(t, string(b), "product_URL")
}

func TestLastMessage(t *testing.T) {
	s := NewConversationState("t")
	assert.Equal(t, "", s.LastMessage())
	s.Messages = append(s.Messages, Message{Role: RoleUser, Content: "q"}, Message{Role: RoleAssistant, Content: "a"})
	assert.Equal(t, "a", s.LastMessage())
}
