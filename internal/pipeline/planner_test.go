package pipeline

import (
	"testing"

	"github.com/draftgen/draftgen/internal/graph"
	"github.com/draftgen/draftgen/pkg/models"
)

func registryGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := graph.FromRegistry()
	if err != nil {
		t.Fatalf("build graph: %v", err)
	}
	return g
}

func assertLevel(t *testing.T, got, want []models.TaskID) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("level %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("level %v, want %v", got, want)
		}
	}
}

func TestFullPlan_ThreeStaticLevels(t *testing.T) {
	plan := FullPlan(nil)

	if len(plan) != 3 {
		t.Fatalf("expected 3 levels, got %d", len(plan))
	}
	assertLevel(t, plan[0], []models.TaskID{models.TaskTitle})
	assertLevel(t, plan[1], []models.TaskID{
		models.TaskScopeRefinement,
		models.TaskBusinessAnalyst,
		models.TaskTechnicalArchitect,
		models.TaskProjectManager,
		models.TaskResourceAllocation,
	})
	assertLevel(t, plan[2], []models.TaskID{models.TaskFinalCompilation})
}

func TestFullPlan_FiltersToRequestedSet(t *testing.T) {
	plan := FullPlan([]models.TaskID{
		models.TaskFinalCompilation,
		models.TaskBusinessAnalyst,
		models.TaskTitle,
		models.TaskProjectManager,
	})

	if len(plan) != 3 {
		t.Fatalf("expected 3 levels, got %v", plan)
	}
	assertLevel(t, plan[0], []models.TaskID{models.TaskTitle})
	assertLevel(t, plan[1], []models.TaskID{
		models.TaskBusinessAnalyst,
		models.TaskProjectManager,
	})
	assertLevel(t, plan[2], []models.TaskID{models.TaskFinalCompilation})
}

func TestFullPlan_DropsEmptiedContentLevel(t *testing.T) {
	plan := FullPlan([]models.TaskID{
		models.TaskTitle,
		models.TaskFinalCompilation,
	})

	if len(plan) != 2 {
		t.Fatalf("expected 2 levels, got %v", plan)
	}
	assertLevel(t, plan[0], []models.TaskID{models.TaskTitle})
	assertLevel(t, plan[1], []models.TaskID{models.TaskFinalCompilation})
}

func TestEditPlan_ChainBecomesSequential(t *testing.T) {
	g := registryGraph(t)

	plan := EditPlan(g, []models.TaskID{
		models.TaskTechnicalArchitect,
		models.TaskScopeRefinement,
		models.TaskBusinessAnalyst,
	})

	if len(plan) != 3 {
		t.Fatalf("expected 3 levels, got %v", plan)
	}
	assertLevel(t, plan[0], []models.TaskID{models.TaskScopeRefinement})
	assertLevel(t, plan[1], []models.TaskID{models.TaskBusinessAnalyst})
	assertLevel(t, plan[2], []models.TaskID{models.TaskTechnicalArchitect})
}

func TestEditPlan_OutOfSubsetDepsImposeNoOrder(t *testing.T) {
	g := registryGraph(t)

	// resource_allocation depends on project_manager, but project_manager
	// is not in the subset, so only business_analyst orders it.
	plan := EditPlan(g, []models.TaskID{
		models.TaskResourceAllocation,
		models.TaskBusinessAnalyst,
	})

	if len(plan) != 2 {
		t.Fatalf("expected 2 levels, got %v", plan)
	}
	assertLevel(t, plan[0], []models.TaskID{models.TaskBusinessAnalyst})
	assertLevel(t, plan[1], []models.TaskID{models.TaskResourceAllocation})
}

func TestEditPlan_IndependentTasksShareALevel(t *testing.T) {
	g := registryGraph(t)

	plan := EditPlan(g, []models.TaskID{
		models.TaskScopeRefinement,
		models.TaskTitle,
	})

	if len(plan) != 1 {
		t.Fatalf("expected 1 level, got %v", plan)
	}
	assertLevel(t, plan[0], []models.TaskID{
		models.TaskTitle,
		models.TaskScopeRefinement,
	})
}

func TestEditPlan_SingleTask(t *testing.T) {
	g := registryGraph(t)

	plan := EditPlan(g, []models.TaskID{models.TaskTitle})
	if len(plan) != 1 || len(plan[0]) != 1 || plan[0][0] != models.TaskTitle {
		t.Fatalf("plan = %v", plan)
	}
}

func TestEditPlan_Empty(t *testing.T) {
	g := registryGraph(t)
	if plan := EditPlan(g, nil); plan != nil {
		t.Fatalf("plan = %v, want nil", plan)
	}
}

func TestPlan_Tasks(t *testing.T) {
	plan := Plan{
		{models.TaskTitle},
		{models.TaskScopeRefinement, models.TaskBusinessAnalyst},
	}
	got := plan.Tasks()
	if len(got) != 3 || got[2] != models.TaskBusinessAnalyst {
		t.Fatalf("got %v", got)
	}
}
