package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/draftgen/draftgen/internal/state"
	"github.com/draftgen/draftgen/pkg/models"
)

func fullTaskSet() []Task {
	ids := []models.TaskID{
		models.TaskTitle,
		models.TaskScopeRefinement,
		models.TaskBusinessAnalyst,
		models.TaskTechnicalArchitect,
		models.TaskProjectManager,
		models.TaskResourceAllocation,
		models.TaskFinalCompilation,
	}
	tasks := make([]Task, 0, len(ids))
	for _, id := range ids {
		tasks = append(tasks, &stubTask{
			id:      id,
			outputs: map[string]string{string(id) + "_out": "ok"},
		})
	}
	return tasks
}

func TestExecute_RejectsMissingIdea(t *testing.T) {
	e := NewExecutor(fullTaskSet())
	p := NewFull(e, nil)
	st := state.NewProjectState("sess1", "   ")

	err := p.Execute(context.Background(), st)
	if !errors.Is(err, ErrPrerequisite) {
		t.Fatalf("err = %v, want ErrPrerequisite", err)
	}
	if st.Stage != models.StagePending {
		t.Errorf("Stage = %v, want untouched pending state", st.Stage)
	}
}

func TestExecute_FullCompletes(t *testing.T) {
	e := NewExecutor(fullTaskSet())
	p := NewFull(e, nil)
	st := state.NewProjectState("sess1", "inventory tracker for bakeries")

	if err := p.Execute(context.Background(), st); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if st.Stage != models.StageCompleted {
		t.Errorf("Stage = %v, want completed", st.Stage)
	}
	if st.Get("final_compilation_out") != "ok" {
		t.Errorf("compile level never merged")
	}
}

func TestExecute_HardErrorMarksFailed(t *testing.T) {
	boom := errors.New("api down")
	tasks := []Task{
		&stubTask{id: models.TaskScopeRefinement, err: boom},
	}
	e := NewExecutor(tasks)
	g := registryGraph(t)
	p, err := NewEdit(e, g, []models.TaskID{models.TaskScopeRefinement}, nil)
	if err != nil {
		t.Fatalf("NewEdit: %v", err)
	}
	st := state.NewProjectState("sess1", "an idea")

	err = p.Execute(context.Background(), st)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped boom", err)
	}
	if st.Stage != models.StageFailed {
		t.Errorf("Stage = %v, want failed", st.Stage)
	}
	if st.StatusMessage == "" {
		t.Errorf("StatusMessage empty after hard failure")
	}
}

func TestExecute_SoftFailureReturnsNil(t *testing.T) {
	tasks := []Task{
		&stubTask{id: models.TaskFinalCompilation, failure: "cannot compile: missing project plan"},
	}
	e := NewExecutor(tasks)
	g := registryGraph(t)
	p, err := NewEdit(e, g, []models.TaskID{models.TaskFinalCompilation}, nil)
	if err != nil {
		t.Fatalf("NewEdit: %v", err)
	}
	st := state.NewProjectState("sess1", "an idea")

	if err := p.Execute(context.Background(), st); err != nil {
		t.Fatalf("Execute: %v, want nil on completeness failure", err)
	}
	if st.Stage != models.StageFailed {
		t.Errorf("Stage = %v, want failed", st.Stage)
	}
	if st.StatusMessage != "cannot compile: missing project plan" {
		t.Errorf("StatusMessage = %q", st.StatusMessage)
	}
}

func TestNewEdit_EmptyTaskSet(t *testing.T) {
	e := NewExecutor(nil)
	g := registryGraph(t)
	if _, err := NewEdit(e, g, nil, nil); !errors.Is(err, ErrNoTasks) {
		t.Fatalf("err = %v, want ErrNoTasks", err)
	}
}

func TestExecute_CustomPrerequisite(t *testing.T) {
	e := NewExecutor(fullTaskSet())
	p := NewFull(e, nil)
	gate := errors.New("session locked")
	p.SetPrerequisite(func(*state.ProjectState) error { return gate })
	st := state.NewProjectState("sess1", "an idea")

	if err := p.Execute(context.Background(), st); !errors.Is(err, gate) {
		t.Fatalf("err = %v, want custom prerequisite error", err)
	}
}
