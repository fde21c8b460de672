package router

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/draftgen/draftgen/internal/llm"
	"github.com/draftgen/draftgen/internal/registry"
	"github.com/draftgen/draftgen/internal/state"
	"github.com/draftgen/draftgen/pkg/models"
)

// Classifier routes a user turn to an action. Fast paths handle
// generation triggers and bare greetings; everything else goes through
// a structured LLM call with a keyword fallback when the response
// cannot be parsed.
type Classifier struct {
	client   llm.Client
	keywords *KeywordTable
	debugLog func(format string, args ...interface{})
}

// New creates a classifier over the given backend and keyword table.
func New(client llm.Client, keywords *KeywordTable) *Classifier {
	if keywords == nil {
		keywords = DefaultKeywords()
	}
	return &Classifier{
		client:   client,
		keywords: keywords,
		debugLog: func(format string, args ...interface{}) {},
	}
}

// SetDebugLog sets the debug logging function.
func (c *Classifier) SetDebugLog(fn func(format string, args ...interface{})) {
	if fn != nil {
		c.debugLog = fn
	}
}

// Route classifies one user turn against the current project state.
// It never fails: routing problems degrade to the keyword fallback.
func (c *Classifier) Route(ctx context.Context, utterance string, st *state.ProjectState) models.Decision {
	if IsGenerateTrigger(utterance) {
		return models.Decision{
			Action:     models.ActionGenerate,
			Confidence: 1.0,
			Reasoning:  "generation trigger phrase",
		}
	}
	if IsGreeting(utterance) {
		return models.Decision{
			Action:     models.ActionConversation,
			Confidence: 1.0,
			Reasoning:  "bare greeting",
		}
	}

	raw, err := c.client.Complete(ctx, llm.Request{
		System:      routingSystemPrompt,
		Prompt:      c.buildPrompt(utterance, st),
		MaxTokens:   1024,
		Temperature: 0,
	})
	if err != nil {
		c.debugLog("[router] completion failed, using keyword fallback: %v", err)
		return c.fallback(utterance, st.Generated)
	}

	dec, err := parseDecision(raw)
	if err != nil {
		c.debugLog("[router] unparseable decision, using keyword fallback: %v", err)
		return c.fallback(utterance, st.Generated)
	}

	return dec
}

// fallback is the keyword-table routing used when structured routing
// fails. Before a document exists there is nothing to edit, so the
// turn is treated as conversation.
func (c *Classifier) fallback(utterance string, generated bool) models.Decision {
	if !generated {
		return models.Decision{
			Action:     models.ActionConversation,
			Confidence: 0.8,
			Reasoning:  "routing fallback, no document yet",
		}
	}

	if task, kw, ok := c.keywords.Match(utterance); ok {
		return models.Decision{
			Action:     models.ActionEdit,
			Tasks:      []models.TaskID{task},
			Confidence: 0.7,
			Reasoning:  fmt.Sprintf("routing fallback, matched keyword %q", kw),
		}
	}

	return models.Decision{
		Action:     models.ActionConversation,
		Confidence: 0.7,
		Reasoning:  "routing fallback, no keyword match",
	}
}

const routingSystemPrompt = `You are the routing layer of a proposal-writing assistant.
Classify the user's message and extract any stated settings.
Respond with a single JSON object and nothing else.`

func (c *Classifier) buildPrompt(utterance string, st *state.ProjectState) string {
	var sb strings.Builder

	sb.WriteString("Available tasks:\n")
	for _, s := range registry.All() {
		if s.ID == models.TaskTitle || s.ID == models.TaskFinalCompilation {
			continue
		}
		fmt.Fprintf(&sb, "- %s: %s\n", s.ID, s.Description)
	}

	fmt.Fprintf(&sb, "\nDocument generated yet: %v\n", st.Generated)
	if st.InitialIdea != "" {
		fmt.Fprintf(&sb, "Project idea: %s\n", st.InitialIdea)
	}

	if n := len(st.Conversation); n > 0 {
		sb.WriteString("\nRecent conversation:\n")
		start := n - 6
		if start < 0 {
			start = 0
		}
		for _, m := range st.Conversation[start:] {
			fmt.Fprintf(&sb, "%s: %s\n", m.Role, m.Content)
		}
	}

	fmt.Fprintf(&sb, "\nUser message: %s\n", utterance)
	sb.WriteString(`
Respond with JSON:
{
  "action": "conversation" | "edit" | "generate",
  "tasks": ["task ids to rerun, for edit actions"],
  "response": "reply text, for conversation actions",
  "reasoning": "one sentence",
  "confidence": 0.0-1.0,
  "settings": {
    "rates": {"role_name": {"amount": 100, "unit": "hour|day|week|month"}},
    "budget": {"display": "$50,000", "amount": 50000},
    "timeline": {"display": "4-5 weeks", "value": 5, "unit": "weeks"}
  }
}

Only include settings the user explicitly committed to in this message.
For ranges take the maximum. Convert k-suffixed amounts: $10k means 10000.
Omit settings fields that were not stated.`)

	return sb.String()
}

// wireDecision is the JSON shape produced by the routing model.
type wireDecision struct {
	Action     string                 `json:"action"`
	Tasks      []string               `json:"tasks"`
	Response   string                 `json:"response"`
	Reasoning  string                 `json:"reasoning"`
	Confidence float64                `json:"confidence"`
	Settings   struct {
		Rates  map[string]models.Rate `json:"rates"`
		Budget struct {
			Display string  `json:"display"`
			Amount  float64 `json:"amount"`
		} `json:"budget"`
		Timeline struct {
			Display string `json:"display"`
			Value   int    `json:"value"`
			Unit    string `json:"unit"`
		} `json:"timeline"`
	} `json:"settings"`
}

// parseDecision decodes a routing response, tolerating markdown fences
// around the JSON body.
func parseDecision(raw string) (models.Decision, error) {
	body := stripFences(raw)

	var wire wireDecision
	if err := json.Unmarshal([]byte(body), &wire); err != nil {
		return models.Decision{}, fmt.Errorf("decode routing response: %w", err)
	}

	action := models.Action(strings.ToLower(strings.TrimSpace(wire.Action)))
	if !action.Valid() {
		return models.Decision{}, fmt.Errorf("invalid routing action %q", wire.Action)
	}

	dec := models.Decision{
		Action:     action,
		Response:   wire.Response,
		Reasoning:  wire.Reasoning,
		Confidence: wire.Confidence,
	}

	for _, name := range wire.Tasks {
		id, err := registry.Parse(name)
		if err != nil {
			// A fabricated task name means the response as a whole
			// is not trustworthy.
			return models.Decision{}, err
		}
		dec.AddTask(id)
	}

	dec.Settings.Rates = wire.Settings.Rates
	dec.Settings.Budget = wire.Settings.Budget.Display
	dec.Settings.BudgetAmount = wire.Settings.Budget.Amount
	if wire.Settings.Timeline.Display != "" {
		dec.Settings.Timeline = models.Timeline{
			Display: wire.Settings.Timeline.Display,
			Hours:   TimelineHours(wire.Settings.Timeline.Value, wire.Settings.Timeline.Unit),
		}
	}

	return dec, nil
}

// stripFences removes a surrounding markdown code fence, if any.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 {
		// Drop the info string ("json" etc.) on the opening fence.
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
