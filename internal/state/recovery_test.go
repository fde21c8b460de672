package state

import (
	"testing"

	"github.com/draftgen/draftgen/pkg/models"
)

func TestRecoverInterrupted_MarksRunningFailed(t *testing.T) {
	store := setupStore(t)

	running, err := store.CreateSession("idea one")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if err := store.SetStage(running.ID, string(models.StageRunning), ""); err != nil {
		t.Fatalf("SetStage: %v", err)
	}

	done, err := store.CreateSession("idea two")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if err := store.SetStage(done.ID, string(models.StageCompleted), ""); err != nil {
		t.Fatalf("SetStage: %v", err)
	}

	n, err := store.RecoverInterrupted()
	if err != nil {
		t.Fatalf("RecoverInterrupted: %v", err)
	}
	if n != 1 {
		t.Fatalf("recovered %d sessions, want 1", n)
	}

	sess, err := store.GetSession(running.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if sess.Stage != models.StageFailed {
		t.Errorf("stage = %v, want failed", sess.Stage)
	}
	if sess.StageMessage == "" {
		t.Errorf("no explanation recorded on the interrupted session")
	}

	sess, err = store.GetSession(done.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if sess.Stage != models.StageCompleted {
		t.Errorf("completed session touched by recovery: %v", sess.Stage)
	}
}

func TestRecoverInterrupted_NothingToDo(t *testing.T) {
	store := setupStore(t)
	n, err := store.RecoverInterrupted()
	if err != nil {
		t.Fatalf("RecoverInterrupted: %v", err)
	}
	if n != 0 {
		t.Fatalf("recovered %d sessions on an empty store", n)
	}
}
