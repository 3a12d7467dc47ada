package models

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrThreadNotFound is returned when a conversation thread does not exist
	ErrThreadNotFound = errors.New("thread not found")
	// ErrEmptyMessage is returned when a turn is started without user text
	ErrEmptyMessage = errors.New("message is empty")
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall is a capability request carried by an assistant message.
type ToolCall struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// Message is one entry of a conversation transcript.
type Message struct {
	Role       Role       `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	Name       string     `json:"name,omitempty"`
}

// Requirements is the structured summary of what the user is looking for.
// It is replaced as a whole every time requirements are extracted.
type Requirements struct {
	Requirements []string `json:"requirements"`
	Query        string   `json:"query"`
	Keywords     []string `json:"keywords"`
}

// SearchQuery joins the summarizing query and the keywords into one web query.
func (r Requirements) SearchQuery() string {
	parts := make([]string, 0, len(r.Keywords)+1)
	if q := strings.TrimSpace(r.Query); q != "" {
		parts = append(parts, q)
	}
	for _, k := range r.Keywords {
		if k = strings.TrimSpace(k); k != "" {
			parts = append(parts, k)
		}
	}
	return strings.Join(parts, " ")
}

// Candidate is a discovered product.
type Candidate struct {
	Title      string  `json:"title"`
	URL        string  `json:"product_URL"`
	Overview   string  `json:"overview"`
	RawContent string  `json:"raw_content,omitempty"`
	Score      float64 `json:"score"`
}

// CandidateList is ordered by descending score once ranked. No two entries share a domain.
type CandidateList []Candidate

// Stripped returns a copy without raw page content, suitable for clients.
func (l CandidateList) Stripped() CandidateList {
	out := make(CandidateList, len(l))
	for i, c := range l {
		c.RawContent = ""
		out[i] = c
	}
	return out
}

// ConversationState is everything persisted for a single thread.
type ConversationState struct {
	ThreadID     string        `json:"thread_id"`
	Requirements Requirements  `json:"requirements"`
	Candidates   CandidateList `json:"candidates"`
	Messages     []Message     `json:"messages"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// NewConversationState seeds an empty state for a new thread.
func NewConversationState(threadID string) *ConversationState {
	now := time.Now().UTC()
	return &ConversationState{
		ThreadID:     threadID,
		Requirements: Requirements{Requirements: []string{}, Keywords: []string{}},
		Candidates:   CandidateList{},
		Messages:     []Message{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Normalize fills nil collections so callers never have to check for them.
func (s *ConversationState) Normalize() {
	if s.Requirements.Requirements == nil {
		s.Requirements.Requirements = []string{}
	}
	if s.Requirements.Keywords == nil {
		s.Requirements.Keywords = []string{}
	}
	if s.Candidates == nil {
		s.Candidates = CandidateList{}
	}
	if s.Messages == nil {
		s.Messages = []Message{}
	}
}

// Clone returns a deep copy, used to stage mutations during a decision cycle.
func (s *ConversationState) Clone() *ConversationState {
	out := *s
	out.Requirements = Requirements{
		Requirements: append([]string{}, s.Requirements.Requirements...),
		Query:        s.Requirements.Query,
		Keywords:     append([]string{}, s.Requirements.Keywords...),
	}
	out.Candidates = append(CandidateList{}, s.Candidates...)
	out.Messages = make([]Message, len(s.Messages))
	for i, m := range s.Messages {
		if len(m.ToolCalls) > 0 {
			calls := make([]ToolCall, len(m.ToolCalls))
			copy(calls, m.ToolCalls)
			m.ToolCalls = calls
		}
		out.Messages[i] = m
	}
	return &out
}

// LastMessage returns the content of the final transcript entry.
func (s *ConversationState) LastMessage() string {
	if len(s.Messages) == 0 {
		return ""
	}
	return s.Messages[len(s.Messages)-1].Content
}

// Result is a raw web search hit.
type Result struct {
	Title      string `json:"title"`
	URL        string `json:"url"`
	Snippet    string `json:"snippet"`
	RawContent string `json:"raw_content,omitempty"`
}

// ToolSpec advertises a capability the model may request.
type ToolSpec struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}
