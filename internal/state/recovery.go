package state

import (
	"fmt"

	"github.com/draftgen/draftgen/pkg/models"
)

// interruptedMessage is recorded on runs that died mid-flight.
const interruptedMessage = "run interrupted; ask for the change again or say \"generate\""

// RecoverInterrupted marks sessions stuck in the running stage as
// failed. A previous process that crashed or was killed leaves its
// session running forever otherwise; called once at startup.
func (s *Store) RecoverInterrupted() (int, error) {
	sessions, err := s.ListSessions()
	if err != nil {
		return 0, fmt.Errorf("list sessions: %w", err)
	}

	recovered := 0
	for _, sess := range sessions {
		if sess.Stage != models.StageRunning {
			continue
		}
		if err := s.SetStage(sess.ID, string(models.StageFailed), interruptedMessage); err != nil {
			return recovered, fmt.Errorf("recover session %s: %w", sess.ID, err)
		}
		recovered++
	}
	return recovered, nil
}
