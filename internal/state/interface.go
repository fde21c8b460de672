package state

import "github.com/draftgen/draftgen/pkg/models"

// SessionStore handles session-related persistence operations.
// The SQLite Store is the only production implementation; tests use
// in-memory fakes.
type SessionStore interface {
	CreateSession(idea string) (*Session, error)
	GetSession(id string) (*Session, error)
	ListSessions() ([]Session, error)
	DeleteSession(id string) error

	SaveTitle(sessionID, title string) error
	SetInitialIdea(sessionID, idea string) error
	SetGenerated(sessionID string, generated bool) error
	SetStage(sessionID string, stage string, message string) error
	SaveConstraints(sessionID string, c models.Constraints) error

	AppendMessage(sessionID, role, content string) error
	ListMessages(sessionID string) ([]Message, error)

	SaveOutput(sessionID, taskID, key, content, reason string) error
	ListOutputs(sessionID string) ([]TaskOutput, error)
}

// Migrator handles database schema migrations.
// Separating this allows clients to depend only on migration functionality.
type Migrator interface {
	// Migrate applies all pending schema migrations.
	Migrate() error
}
