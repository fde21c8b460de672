package state

import (
	"time"

	"github.com/draftgen/draftgen/pkg/models"
)

// Message is one turn of the session conversation.
type Message struct {
	// Role is "user" or "assistant".
	Role string `json:"role"`
	// Content is the message text.
	Content string `json:"content"`
	// CreatedAt is when the message was recorded.
	CreatedAt time.Time `json:"created_at"`
}

// ProjectState is the working state of a document run. Each pipeline
// level receives a snapshot; task outputs are merged back into the
// live state serially by the executor.
type ProjectState struct {
	// SessionID links the state to its persisted session.
	SessionID string
	// InitialIdea is the user's original project description.
	InitialIdea string
	// Title is the generated proposal title.
	Title string
	// Sections maps output keys to generated content.
	Sections map[string]string
	// Constraints are the effective rates, budget, and timeline.
	Constraints models.Constraints
	// Generated is true once a full document has been produced.
	Generated bool
	// Stage is the lifecycle state of the current run.
	Stage models.Stage
	// StatusMessage explains a failed stage, e.g. which sections
	// were missing at compile time.
	StatusMessage string
	// Conversation is the chat history for routing context.
	Conversation []Message
}

// NewProjectState creates a pending state for the given idea.
func NewProjectState(sessionID, idea string) *ProjectState {
	return &ProjectState{
		SessionID:   sessionID,
		InitialIdea: idea,
		Sections:    make(map[string]string),
		Stage:       models.StagePending,
	}
}

// Clone returns a deep copy. Tasks read from clones so that sibling
// writes within a level stay invisible until the level merge.
func (s *ProjectState) Clone() *ProjectState {
	out := *s
	out.Sections = make(map[string]string, len(s.Sections))
	for k, v := range s.Sections {
		out.Sections[k] = v
	}
	out.Constraints = s.Constraints.Clone()
	out.Conversation = append([]Message(nil), s.Conversation...)
	return &out
}

// Get returns the content of a section, or "" when absent.
func (s *ProjectState) Get(key string) string {
	return s.Sections[key]
}

// Set stores section content under the given key.
func (s *ProjectState) Set(key, value string) {
	if s.Sections == nil {
		s.Sections = make(map[string]string)
	}
	s.Sections[key] = value
}

// Apply merges task outputs into the state. Later writes win.
func (s *ProjectState) Apply(outputs map[string]string) {
	for k, v := range outputs {
		s.Set(k, v)
	}
}

// HasSection returns true if the section exists and is non-empty.
func (s *ProjectState) HasSection(key string) bool {
	return s.Sections[key] != ""
}
