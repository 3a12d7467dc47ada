package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Mahesh1735/research-agent-core/internal/telemetry"
	"github.com/Mahesh1735/research-agent-core/models"
	"github.com/Mahesh1735/research-agent-core/utils"
)

// State is a step of the turn-taking loop.
type State string

const (
	StateOrchestrate         State = "orchestrate"
	StateExpert              State = "expert"
	StateExtractRequirements State = "extract_requirements"
	StateFindProducts        State = "find_products"
	StateEnd                 State = "end"
)

const (
	DefaultMaxSteps              = 8
	DefaultCandidateContextChars = 500
)

// ErrTooManySteps is returned when the model keeps requesting capabilities
// without ever answering the user.
var ErrTooManySteps = errors.New("orchestrator exceeded max steps")

// TurnResult is what a client sees after one user message.
type TurnResult struct {
	ThreadID     string               `json:"thread_id"`
	Requirements []string             `json:"requirements"`
	Candidates   models.CandidateList `json:"candidates"`
	LastMessage  string               `json:"last_ai_message"`
}

// Orchestrator decides, per model response, which capability runs next.
type Orchestrator struct {
	llm          LLM
	lookup       KnowledgeLookup
	finder       CandidateFinder
	store        StateStore
	logger       *zap.Logger
	metrics      *telemetry.Metrics
	maxSteps     int
	contextChars int
	now          func() time.Time
}

type Option func(*Orchestrator)

func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

func WithMetrics(m *telemetry.Metrics) Option { return func(o *Orchestrator) { o.metrics = m } }

func WithMaxSteps(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxSteps = n
		}
	}
}

// WithCandidateContextChars bounds the raw content excerpt per candidate shown
// to the model. Zero omits raw content.
func WithCandidateContextChars(n int) Option {
	return func(o *Orchestrator) {
		if n >= 0 {
			o.contextChars = n
		}
	}
}

// NewOrchestrator wires the capabilities and the state store.
func NewOrchestrator(llm LLM, lookup KnowledgeLookup, finder CandidateFinder, store StateStore, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		llm:          llm,
		lookup:       lookup,
		finder:       finder,
		store:        store,
		logger:       zap.NewNop(),
		maxSteps:     DefaultMaxSteps,
		contextChars: DefaultCandidateContextChars,
		now:          func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// HandleTurn appends the user's message to the thread, runs the decision loop
// until the model answers and checkpoints the result. A blank threadID starts
// a new thread. Nothing is persisted when the turn fails.
func (o *Orchestrator) HandleTurn(ctx context.Context, threadID, userText string) (TurnResult, error) {
	userText = strings.TrimSpace(userText)
	if userText == "" {
		return TurnResult{}, models.ErrEmptyMessage
	}
	threadID = strings.TrimSpace(threadID)
	if threadID == "" {
		threadID = uuid.NewString()
	}
	log := o.logger.With(zap.String("thread_id", threadID))

	current, err := o.store.Load(ctx, threadID)
	switch {
	case errors.Is(err, models.ErrThreadNotFound):
		current = models.NewConversationState(threadID)
		log.Info("starting new thread")
	case err != nil:
		o.metrics.ObserveTurn("error")
		return TurnResult{}, fmt.Errorf("load state: %w", err)
	}
	current.Normalize()

	staged := current.Clone()
	staged.Messages = append(staged.Messages, models.Message{Role: models.RoleUser, Content: userText})

	answer, err := o.run(ctx, staged, log)
	if err != nil {
		o.metrics.ObserveTurn("error")
		log.Error("turn failed", zap.Error(err))
		return TurnResult{}, err
	}

	staged.UpdatedAt = o.now()
	if err := o.store.Checkpoint(ctx, staged); err != nil {
		o.metrics.ObserveTurn("error")
		return TurnResult{}, fmt.Errorf("checkpoint state: %w", err)
	}
	o.metrics.ObserveTurn("ok")

	return TurnResult{
		ThreadID:     threadID,
		Requirements: append([]string{}, staged.Requirements.Requirements...),
		Candidates:   staged.Candidates.Stripped(),
		LastMessage:  answer,
	}, nil
}

// run drives the state machine over the staged state and returns the answer.
func (o *Orchestrator) run(ctx context.Context, st *models.ConversationState, log *zap.Logger) (string, error) {
	var (
		state   = StateOrchestrate
		pending Capability
		reply   models.Message
		steps   int
	)
	for {
		log.Debug("orchestrator step", zap.String("state", string(state)), zap.Int("step", steps))
		switch state {
		case StateOrchestrate:
			if steps >= o.maxSteps {
				return "", ErrTooManySteps
			}
			steps++
			var err error
			done := o.metrics.TimeCall("llm_invoke")
			reply, err = o.llm.Invoke(ctx, o.orchestratorMessages(st), Tools())
			done(err)
			if err != nil {
				return "", fmt.Errorf("invoke model: %w", err)
			}
			reply.Role = models.RoleAssistant
			st.Messages = append(st.Messages, reply)

			pending = Classify(reply)
			switch c := pending.(type) {
			case ExpertCall:
				state = StateExpert
			case FindProductsCall:
				state = StateExtractRequirements
			case UnsupportedCall:
				log.Warn("model requested unsupported capabilities", zap.Int("calls", len(c.Calls)))
				appendToolResults(st, c.Calls, unsupportedToolResult)
			case NoCall:
				state = StateEnd
			}

		case StateExpert:
			c := pending.(ExpertCall)
			if err := o.expert(ctx, st, c.Calls); err != nil {
				return "", err
			}
			appendToolResults(st, c.Deferred, deferredToolResult)
			state = StateOrchestrate

		case StateExtractRequirements:
			if err := o.extractRequirements(ctx, st); err != nil {
				return "", err
			}
			state = StateFindProducts

		case StateFindProducts:
			c := pending.(FindProductsCall)
			if err := o.findProducts(ctx, st, log); err != nil {
				return "", err
			}
			for range c.Calls {
				o.metrics.ObserveCapability(FindProductsTool)
			}
			appendToolResults(st, c.Calls, findProductsToolResult)
			appendToolResults(st, c.Deferred, deferredToolResult)
			state = StateOrchestrate

		case StateEnd:
			return reply.Content, nil
		}
	}
}

func (o *Orchestrator) expert(ctx context.Context, st *models.ConversationState, calls []models.ToolCall) error {
	for _, tc := range calls {
		o.metrics.ObserveCapability(ExpertTool)
		query := strings.TrimSpace(utils.Str(tc.Arguments["query"]))
		if query == "" {
			appendToolResults(st, []models.ToolCall{tc}, missingQueryToolResult)
			continue
		}
		done := o.metrics.TimeCall("expert")
		snippets, err := o.lookup.Lookup(ctx, query)
		done(err)
		if err != nil {
			return fmt.Errorf("expert lookup: %w", err)
		}
		appendToolResults(st, []models.ToolCall{tc}, strings.Join(snippets, "\n"))
	}
	return nil
}

// extractRequirements replaces the requirements with a fresh extraction over
// the transcript up to, not including, the message that asked for it.
func (o *Orchestrator) extractRequirements(ctx context.Context, st *models.ConversationState) error {
	transcript := st.Messages
	if n := len(transcript); n > 0 && transcript[n-1].Role == models.RoleAssistant {
		transcript = transcript[:n-1]
	}
	messages := make([]models.Message, 0, len(transcript)+1)
	messages = append(messages, models.Message{Role: models.RoleSystem, Content: extractionSystemPrompt})
	messages = append(messages, transcript...)

	done := o.metrics.TimeCall("llm_extract")
	req, err := o.llm.ExtractRequirements(ctx, messages)
	done(err)
	if err != nil {
		return fmt.Errorf("extract requirements: %w", err)
	}
	if req.Requirements == nil {
		req.Requirements = []string{}
	}
	if req.Keywords == nil {
		req.Keywords = []string{}
	}
	st.Requirements = req
	return nil
}

func (o *Orchestrator) findProducts(ctx context.Context, st *models.ConversationState, log *zap.Logger) error {
	query := st.Requirements.SearchQuery()
	if query == "" {
		log.Warn("extracted requirements carry no query, clearing candidates")
		st.Candidates = models.CandidateList{}
		return nil
	}
	list, err := o.finder.Find(ctx, query)
	if err != nil {
		return fmt.Errorf("find products: %w", err)
	}
	if list == nil {
		list = models.CandidateList{}
	}
	st.Candidates = list
	log.Info("candidates refreshed", zap.String("query", query), zap.Int("candidates", len(list)))
	return nil
}

// orchestratorMessages frames the transcript with the system prompt and the
// current requirements and candidates.
func (o *Orchestrator) orchestratorMessages(st *models.ConversationState) []models.Message {
	messages := make([]models.Message, 0, len(st.Messages)+3)
	messages = append(messages, models.Message{Role: models.RoleSystem, Content: orchestratorSystemPrompt})
	messages = append(messages, st.Messages...)

	reqs, _ := json.Marshal(st.Requirements.Requirements)
	messages = append(messages,
		models.Message{Role: models.RoleSystem, Content: requirementsContextPrefix + string(reqs)},
		models.Message{Role: models.RoleSystem, Content: candidatesContextPrefix + o.candidateContext(st.Candidates)},
	)
	return messages
}

func (o *Orchestrator) candidateContext(list models.CandidateList) string {
	view := make(models.CandidateList, len(list))
	for i, c := range list {
		if o.contextChars == 0 {
			c.RawContent = ""
		} else {
			c.RawContent = utils.Truncate(c.RawContent, o.contextChars)
		}
		view[i] = c
	}
	b, err := json.Marshal(map[string]any{"candidates": view})
	if err != nil {
		return "[]"
	}
	return string(b)
}

func appendToolResults(st *models.ConversationState, calls []models.ToolCall, content string) {
	for _, tc := range calls {
		st.Messages = append(st.Messages, models.Message{
			Role:       models.RoleTool,
			Content:    content,
			ToolCallID: tc.ID,
			Name:       tc.Name,
		})
	}
}
