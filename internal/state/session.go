package state

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/draftgen/draftgen/pkg/models"
)

// Session is a persisted proposal session.
type Session struct {
	// ID is the unique session identifier.
	ID string `json:"id"`
	// Title is the generated proposal title, if any.
	Title string `json:"title"`
	// InitialIdea is the user's original project description.
	InitialIdea string `json:"initial_idea"`
	// Generated is true once a full document has been produced.
	Generated bool `json:"generated"`
	// Stage is the lifecycle state of the last run.
	Stage models.Stage `json:"stage"`
	// StageMessage explains a failed stage.
	StageMessage string `json:"stage_message,omitempty"`
	// Constraints are the session-remembered rates, budget, and timeline.
	Constraints models.Constraints `json:"constraints"`
	// CreatedAt is when the session was created.
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is when the session was last written.
	UpdatedAt time.Time `json:"updated_at"`
}

// TaskOutput is a persisted section produced by a task run.
type TaskOutput struct {
	// SessionID is the owning session.
	SessionID string `json:"session_id"`
	// TaskID is the task that produced the section.
	TaskID string `json:"task_id"`
	// Key is the section key (e.g. "refined_scope").
	Key string `json:"key"`
	// Content is the section content.
	Content string `json:"content"`
	// Reason records why the section was rewritten, for edits.
	Reason string `json:"reason,omitempty"`
	// UpdatedAt is when the section was last written.
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is the SQLite-backed SessionStore implementation.
type Store struct {
	db *DB
}

// NewStore creates a Store over an open, migrated database.
func NewStore(db *DB) *Store {
	return &Store{db: db}
}

// CreateSession creates a new session for the given idea.
func (s *Store) CreateSession(idea string) (*Session, error) {
	now := time.Now()
	sess := &Session{
		ID:          uuid.New().String()[:8],
		InitialIdea: idea,
		Stage:       models.StagePending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := s.db.Exec(`
		INSERT INTO sessions (id, initial_idea, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`, sess.ID, sess.InitialIdea, formatTime(now), formatTime(now))
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return sess, nil
}

// GetSession returns a session by ID.
func (s *Store) GetSession(id string) (*Session, error) {
	row := s.db.QueryRow(`
		SELECT id, title, initial_idea, generated, stage, stage_message,
		       rates, budget, budget_amount, timeline, timeline_hours,
		       created_at, updated_at
		FROM sessions WHERE id = ?
	`, id)

	sess, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("session %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

// ListSessions returns all sessions, newest first.
func (s *Store) ListSessions() ([]Session, error) {
	rows, err := s.db.Query(`
		SELECT id, title, initial_idea, generated, stage, stage_message,
		       rates, budget, budget_amount, timeline, timeline_hours,
		       created_at, updated_at
		FROM sessions ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, *sess)
	}
	return sessions, rows.Err()
}

// DeleteSession removes a session and its messages and outputs.
func (s *Store) DeleteSession(id string) error {
	if _, err := s.db.Exec(`DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// SaveTitle persists the generated proposal title.
func (s *Store) SaveTitle(sessionID, title string) error {
	return s.touch(sessionID, `UPDATE sessions SET title = ?, updated_at = ? WHERE id = ?`, title)
}

// SetInitialIdea updates the session's initial idea.
func (s *Store) SetInitialIdea(sessionID, idea string) error {
	return s.touch(sessionID, `UPDATE sessions SET initial_idea = ?, updated_at = ? WHERE id = ?`, idea)
}

// SetGenerated records whether the session has a full document.
func (s *Store) SetGenerated(sessionID string, generated bool) error {
	val := 0
	if generated {
		val = 1
	}
	return s.touch(sessionID, `UPDATE sessions SET generated = ?, updated_at = ? WHERE id = ?`, val)
}

// SetStage records the run stage and an optional explanation.
func (s *Store) SetStage(sessionID string, stage string, message string) error {
	_, err := s.db.Exec(`
		UPDATE sessions SET stage = ?, stage_message = ?, updated_at = ? WHERE id = ?
	`, stage, message, formatTime(time.Now()), sessionID)
	if err != nil {
		return fmt.Errorf("set stage: %w", err)
	}
	return nil
}

// SaveConstraints persists session-remembered rates, budget, and timeline.
func (s *Store) SaveConstraints(sessionID string, c models.Constraints) error {
	rates := c.Rates
	if rates == nil {
		rates = map[string]models.Rate{}
	}
	ratesJSON, err := json.Marshal(rates)
	if err != nil {
		return fmt.Errorf("marshal rates: %w", err)
	}

	_, err = s.db.Exec(`
		UPDATE sessions
		SET rates = ?, budget = ?, budget_amount = ?,
		    timeline = ?, timeline_hours = ?, updated_at = ?
		WHERE id = ?
	`, string(ratesJSON), c.Budget, c.BudgetAmount,
		c.Timeline.Display, c.Timeline.Hours, formatTime(time.Now()), sessionID)
	if err != nil {
		return fmt.Errorf("save constraints: %w", err)
	}
	return nil
}

// AppendMessage records one conversation turn.
func (s *Store) AppendMessage(sessionID, role, content string) error {
	_, err := s.db.Exec(`
		INSERT INTO messages (session_id, role, content, created_at)
		VALUES (?, ?, ?, ?)
	`, sessionID, role, content, formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	return nil
}

// ListMessages returns the conversation in chronological order.
func (s *Store) ListMessages(sessionID string) ([]Message, error) {
	rows, err := s.db.Query(`
		SELECT role, content, created_at FROM messages
		WHERE session_id = ? ORDER BY id ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var msgs []Message
	for rows.Next() {
		var m Message
		var created string
		if err := rows.Scan(&m.Role, &m.Content, &created); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.CreatedAt, _ = parseTime(created)
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// SaveOutput upserts a task's section content.
// Reason records the motivation behind an edit rerun.
func (s *Store) SaveOutput(sessionID, taskID, key, content, reason string) error {
	_, err := s.db.Exec(`
		INSERT INTO task_outputs (session_id, task_id, key, content, reason, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (session_id, key) DO UPDATE SET
			task_id = excluded.task_id,
			content = excluded.content,
			reason = excluded.reason,
			updated_at = excluded.updated_at
	`, sessionID, taskID, key, content, reason, formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("save output: %w", err)
	}
	return nil
}

// ListOutputs returns all saved sections for a session.
func (s *Store) ListOutputs(sessionID string) ([]TaskOutput, error) {
	rows, err := s.db.Query(`
		SELECT session_id, task_id, key, content, reason, updated_at
		FROM task_outputs WHERE session_id = ?
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list outputs: %w", err)
	}
	defer rows.Close()

	var outputs []TaskOutput
	for rows.Next() {
		var o TaskOutput
		var updated string
		if err := rows.Scan(&o.SessionID, &o.TaskID, &o.Key, &o.Content, &o.Reason, &updated); err != nil {
			return nil, fmt.Errorf("scan output: %w", err)
		}
		o.UpdatedAt, _ = parseTime(updated)
		outputs = append(outputs, o)
	}
	return outputs, rows.Err()
}

// LoadProjectState reconstructs the in-memory state for a session from
// its persisted row, outputs, and conversation.
func (s *Store) LoadProjectState(sessionID string) (*ProjectState, error) {
	sess, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	st := NewProjectState(sess.ID, sess.InitialIdea)
	st.Title = sess.Title
	st.Generated = sess.Generated
	st.Stage = sess.Stage
	st.StatusMessage = sess.StageMessage
	st.Constraints = sess.Constraints

	outputs, err := s.ListOutputs(sessionID)
	if err != nil {
		return nil, err
	}
	for _, o := range outputs {
		st.Set(o.Key, o.Content)
	}

	msgs, err := s.ListMessages(sessionID)
	if err != nil {
		return nil, err
	}
	st.Conversation = msgs

	return st, nil
}

// touch runs an update statement of the form (value, updated_at, id).
func (s *Store) touch(sessionID, query string, value any) error {
	_, err := s.db.Exec(query, value, formatTime(time.Now()), sessionID)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*Session, error) {
	var sess Session
	var generated int
	var stage, ratesJSON, created, updated string

	err := row.Scan(&sess.ID, &sess.Title, &sess.InitialIdea, &generated,
		&stage, &sess.StageMessage, &ratesJSON, &sess.Constraints.Budget,
		&sess.Constraints.BudgetAmount, &sess.Constraints.Timeline.Display,
		&sess.Constraints.Timeline.Hours, &created, &updated)
	if err != nil {
		return nil, err
	}

	sess.Generated = generated != 0
	sess.Stage = models.Stage(stage)
	if ratesJSON != "" && ratesJSON != "{}" {
		if err := json.Unmarshal([]byte(ratesJSON), &sess.Constraints.Rates); err != nil {
			return nil, fmt.Errorf("parse rates: %w", err)
		}
	}
	sess.CreatedAt, _ = parseTime(created)
	sess.UpdatedAt, _ = parseTime(updated)
	return &sess, nil
}
