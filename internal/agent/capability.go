package agent

import "github.com/Mahesh1735/research-agent-core/models"

const (
	ExpertTool       = "expert"
	FindProductsTool = "find_products"
)

// Capability is what an assistant message asks the orchestrator to do next.
// It is one of ExpertCall, FindProductsCall, UnsupportedCall or NoCall.
type Capability interface {
	capability()
}

// ExpertCall requests one knowledge lookup per call.
type ExpertCall struct {
	Calls []models.ToolCall
	// Deferred holds the other calls of the same message; they are answered
	// with a deferral notice so the transcript stays well formed.
	Deferred []models.ToolCall
}

// FindProductsCall requests a requirements refresh followed by a product search.
type FindProductsCall struct {
	Calls    []models.ToolCall
	Deferred []models.ToolCall
}

// UnsupportedCall carries only tool calls the orchestrator does not know.
type UnsupportedCall struct {
	Calls []models.ToolCall
}

// NoCall ends the turn with the assistant's text.
type NoCall struct{}

func (ExpertCall) capability()       {}
func (FindProductsCall) capability() {}
func (UnsupportedCall) capability()  {}
func (NoCall) capability()           {}

// Classify maps an assistant message to a single capability. Expert lookups
// win when both capabilities are requested in the same message.
func Classify(msg models.Message) Capability {
	if len(msg.ToolCalls) == 0 {
		return NoCall{}
	}
	var expert, find, other []models.ToolCall
	for _, tc := range msg.ToolCalls {
		switch tc.Name {
		case ExpertTool:
			expert = append(expert, tc)
		case FindProductsTool:
			find = append(find, tc)
		default:
			other = append(other, tc)
		}
	}
	switch {
	case len(expert) > 0:
		return ExpertCall{Calls: expert, Deferred: append(find, other...)}
	case len(find) > 0:
		return FindProductsCall{Calls: find, Deferred: other}
	default:
		return UnsupportedCall{Calls: other}
	}
}

// Tools lists the capabilities advertised to the model.
func Tools() []models.ToolSpec {
	return []models.ToolSpec{
		{
			Name:        ExpertTool,
			Description: expertToolDescription,
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{"type": "string", "description": "The question to look up"},
				},
				"required": []string{"query"},
			},
		},
		{
			Name:        FindProductsTool,
			Description: findProductsToolDescription,
			Parameters:  map[string]any{"type": "object", "properties": map[string]any{}},
		},
	}
}
