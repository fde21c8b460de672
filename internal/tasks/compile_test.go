package tasks

import (
	"context"
	"strings"
	"testing"

	"github.com/draftgen/draftgen/internal/state"
)

func completeState() *state.ProjectState {
	snap := state.NewProjectState("s1", "inventory tracker for bakeries")
	snap.Title = "Bakery Inventory Platform Proposal"
	snap.Set("refined_scope", "scope content")
	snap.Set("similar_products", "survey content")
	snap.Set("business_analysis", "analysis content")
	snap.Set("technical_spec", "spec content")
	snap.Set("project_plan", "plan content")
	snap.Set("resource_plan", "resource content")
	return snap
}

func TestCompile_AssemblesDocument(t *testing.T) {
	task := &compileTask{}
	result, err := task.Run(context.Background(), completeState())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Failure != "" {
		t.Fatalf("Failure = %q", result.Failure)
	}

	doc := result.Outputs["final_proposal"]
	for _, want := range []string{
		"# Bakery Inventory Platform Proposal",
		"## Initial Idea",
		"inventory tracker for bakeries",
		"## Similar Products",
		"## Refined Scope",
		"## Business Analysis",
		"## Technical Specification",
		"## Project Plan",
		"## Resource Plan",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}
}

func TestCompile_MissingResourcePlan(t *testing.T) {
	snap := completeState()
	snap.Set("resource_plan", "   ")

	task := &compileTask{}
	result, err := task.Run(context.Background(), snap)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(result.Failure, "resource plan") {
		t.Errorf("Failure = %q, want the human section name", result.Failure)
	}
	if result.Outputs["final_proposal"] != "" {
		t.Errorf("document assembled despite missing section")
	}
}

func TestCompile_ReportsAllMissingSections(t *testing.T) {
	snap := state.NewProjectState("s1", "an idea")

	task := &compileTask{}
	result, err := task.Run(context.Background(), snap)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, want := range []string{
		"refined scope",
		"business analysis",
		"technical specification",
		"project plan",
		"resource plan",
	} {
		if !strings.Contains(result.Failure, want) {
			t.Errorf("Failure %q missing %q", result.Failure, want)
		}
	}
}

func TestCompile_TitleFallsBackToSection(t *testing.T) {
	snap := completeState()
	snap.Title = ""
	snap.Set("proposal_title", "Section Title Proposal")

	task := &compileTask{}
	result, err := task.Run(context.Background(), snap)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(result.Outputs["final_proposal"], "# Section Title Proposal") {
		t.Errorf("title fallback not used")
	}
}
