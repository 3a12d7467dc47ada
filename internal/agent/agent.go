package agent

import (
	"context"

	"github.com/Mahesh1735/research-agent-core/models"
)

// LLM is the language model as seen by the orchestrator.
type LLM interface {
	Invoke(ctx context.Context, messages []models.Message, tools []models.ToolSpec) (models.Message, error)
	ExtractRequirements(ctx context.Context, messages []models.Message) (models.Requirements, error)
}

// KnowledgeLookup answers general questions with text snippets.
type KnowledgeLookup interface {
	Lookup(ctx context.Context, query string) ([]string, error)
}

// CandidateFinder runs the candidate pipeline for a search query.
type CandidateFinder interface {
	Find(ctx context.Context, query string) (models.CandidateList, error)
}

// StateStore loads and checkpoints conversation state. Load returns
// models.ErrThreadNotFound for unknown threads.
type StateStore interface {
	Load(ctx context.Context, threadID string) (*models.ConversationState, error)
	Checkpoint(ctx context.Context, state *models.ConversationState) error
}
