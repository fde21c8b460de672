package registry

import (
	"errors"
	"testing"

	"github.com/draftgen/draftgen/pkg/models"
)

func TestAll_CanonicalOrder(t *testing.T) {
	want := []models.TaskID{
		models.TaskTitle,
		models.TaskScopeRefinement,
		models.TaskBusinessAnalyst,
		models.TaskTechnicalArchitect,
		models.TaskProjectManager,
		models.TaskResourceAllocation,
		models.TaskFinalCompilation,
	}

	got := All()
	if len(got) != len(want) {
		t.Fatalf("expected %d tasks, got %d", len(want), len(got))
	}
	for i, s := range got {
		if s.ID != want[i] {
			t.Errorf("position %d: got %s, want %s", i, s.ID, want[i])
		}
	}
}

func TestDependenciesAreDeclaredEarlier(t *testing.T) {
	for _, s := range All() {
		for _, dep := range s.DependsOn {
			if Order(dep) < 0 {
				t.Errorf("task %s depends on unknown task %s", s.ID, dep)
			}
			if Order(dep) >= Order(s.ID) {
				t.Errorf("task %s depends on %s declared at or after it", s.ID, dep)
			}
		}
	}
}

func TestParse(t *testing.T) {
	id, err := Parse("business_analyst")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != models.TaskBusinessAnalyst {
		t.Errorf("got %s", id)
	}

	_, err = Parse("marketing_analyst")
	if !errors.Is(err, ErrUnknownTask) {
		t.Errorf("expected ErrUnknownTask, got %v", err)
	}
}

func TestContentTasks(t *testing.T) {
	got := ContentTasks()
	if len(got) != 5 {
		t.Fatalf("expected 5 content tasks, got %v", got)
	}
	for _, id := range got {
		if id == models.TaskTitle || id == models.TaskFinalCompilation {
			t.Errorf("content tasks must not include %s", id)
		}
	}
}

func TestSortCanonical(t *testing.T) {
	in := []models.TaskID{
		models.TaskResourceAllocation,
		models.TaskScopeRefinement,
		models.TaskResourceAllocation, // duplicate
		models.TaskID("bogus"),        // dropped
		models.TaskBusinessAnalyst,
	}

	got := SortCanonical(in)
	want := []models.TaskID{
		models.TaskScopeRefinement,
		models.TaskBusinessAnalyst,
		models.TaskResourceAllocation,
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestSectionName(t *testing.T) {
	if got := SectionName("resource_plan"); got != "resource plan" {
		t.Errorf("got %q", got)
	}
	if got := SectionName("something_else"); got != "something_else" {
		t.Errorf("unknown keys pass through, got %q", got)
	}
}
