// Package registry defines the closed set of proposal tasks: their
// declaration order, output keys, dependencies, and routing keywords.
package registry

import (
	"errors"
	"fmt"

	"github.com/draftgen/draftgen/pkg/models"
)

// ErrUnknownTask indicates a task ID outside the registry was requested.
var ErrUnknownTask = errors.New("unknown task")

// Spec describes one task in the registry.
type Spec struct {
	// ID is the task identifier.
	ID models.TaskID
	// Title is the human-readable task name used in progress output.
	Title string
	// Description tells the router what the task is responsible for.
	Description string
	// OutputKeys lists the section keys the task writes.
	OutputKeys []string
	// DependsOn lists tasks whose output this task reads.
	DependsOn []models.TaskID
	// Keywords drive the routing fallback when structured routing fails.
	Keywords []string
}

// specs is the canonical declaration order. Closure expansion and level
// planning return tasks in this order.
var specs = []Spec{
	{
		ID:          models.TaskTitle,
		Title:       "Title",
		Description: "Generates a short, memorable proposal title from the initial idea.",
		OutputKeys:  []string{"proposal_title"},
	},
	{
		ID:          models.TaskScopeRefinement,
		Title:       "Scope Refinement",
		Description: "Refines the raw idea into a concrete scope and surveys similar products.",
		OutputKeys:  []string{"refined_scope", "similar_products"},
		Keywords: []string{
			"idea", "concept", "scope", "requirements", "features",
			"functionality", "what", "purpose", "goal",
		},
	},
	{
		ID:          models.TaskBusinessAnalyst,
		Title:       "Business Analysis",
		Description: "Analyzes market fit, ROI, and the business case for the project.",
		OutputKeys:  []string{"business_analysis"},
		DependsOn:   []models.TaskID{models.TaskScopeRefinement},
		Keywords: []string{
			"business", "market", "roi", "revenue", "profit", "cost",
			"benefit", "value", "competition", "target audience", "customer",
		},
	},
	{
		ID:          models.TaskTechnicalArchitect,
		Title:       "Technical Architecture",
		Description: "Designs the technical approach: stack, architecture, and integrations.",
		OutputKeys:  []string{"technical_spec"},
		DependsOn: []models.TaskID{
			models.TaskScopeRefinement,
			models.TaskBusinessAnalyst,
		},
		Keywords: []string{
			"technical", "technology", "tech stack", "architecture",
			"framework", "api", "database", "backend", "frontend", "server",
		},
	},
	{
		ID:          models.TaskProjectManager,
		Title:       "Project Planning",
		Description: "Builds the delivery plan: phases, milestones, and schedule.",
		OutputKeys:  []string{"project_plan"},
		DependsOn: []models.TaskID{
			models.TaskScopeRefinement,
			models.TaskBusinessAnalyst,
			models.TaskTechnicalArchitect,
		},
		Keywords: []string{
			"timeline", "schedule", "deadline", "milestone", "phase",
			"delivery", "planning", "project plan",
		},
	},
	{
		ID:          models.TaskResourceAllocation,
		Title:       "Resource Allocation",
		Description: "Staffs the project and costs it out against the stated rates and budget.",
		OutputKeys:  []string{"resource_plan"},
		DependsOn: []models.TaskID{
			models.TaskScopeRefinement,
			models.TaskBusinessAnalyst,
			models.TaskTechnicalArchitect,
			models.TaskProjectManager,
		},
		Keywords: []string{
			"budget", "cost", "price", "rate", "hourly", "salary", "team",
			"resource", "engineer", "developer", "designer", "dollar",
			"usd", "money", "expense",
		},
	},
	{
		ID:          models.TaskFinalCompilation,
		Title:       "Final Compilation",
		Description: "Validates section completeness and assembles the final document.",
		OutputKeys:  []string{"final_proposal"},
		DependsOn: []models.TaskID{
			models.TaskTitle,
			models.TaskScopeRefinement,
			models.TaskBusinessAnalyst,
			models.TaskTechnicalArchitect,
			models.TaskProjectManager,
			models.TaskResourceAllocation,
		},
	},
}

// index maps task IDs to their position in declaration order.
var index = func() map[models.TaskID]int {
	m := make(map[models.TaskID]int, len(specs))
	for i, s := range specs {
		m[s.ID] = i
	}
	return m
}()

// All returns the task specs in canonical declaration order.
// Callers must not mutate the returned slice.
func All() []Spec {
	return specs
}

// Get returns the spec for a task ID.
func Get(id models.TaskID) (Spec, bool) {
	i, ok := index[id]
	if !ok {
		return Spec{}, false
	}
	return specs[i], true
}

// Parse converts a raw string into a registry task ID.
func Parse(s string) (models.TaskID, error) {
	id := models.TaskID(s)
	if _, ok := index[id]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTask, s)
	}
	return id, nil
}

// ContentTasks returns the tasks that generate document sections,
// excluding the title and the compile sink. This is the middle level
// of the full-generation plan.
func ContentTasks() []models.TaskID {
	var out []models.TaskID
	for _, s := range specs {
		if s.ID == models.TaskTitle || s.ID == models.TaskFinalCompilation {
			continue
		}
		out = append(out, s.ID)
	}
	return out
}

// Order returns the declaration position of a task, or -1 if unknown.
func Order(id models.TaskID) int {
	if i, ok := index[id]; ok {
		return i
	}
	return -1
}

// SortCanonical returns the given tasks deduplicated and ordered by
// declaration position. Unknown tasks are dropped.
func SortCanonical(ids []models.TaskID) []models.TaskID {
	seen := make(map[models.TaskID]bool, len(ids))
	for _, id := range ids {
		if _, ok := index[id]; ok {
			seen[id] = true
		}
	}

	var out []models.TaskID
	for _, s := range specs {
		if seen[s.ID] {
			out = append(out, s.ID)
		}
	}
	return out
}

// SectionName maps an output key to its human-readable name, used in
// completeness failure messages.
func SectionName(key string) string {
	switch key {
	case "refined_scope":
		return "refined scope"
	case "business_analysis":
		return "business analysis"
	case "technical_spec":
		return "technical specification"
	case "project_plan":
		return "project plan"
	case "resource_plan":
		return "resource plan"
	case "proposal_title":
		return "proposal title"
	case "similar_products":
		return "similar products"
	case "final_proposal":
		return "final proposal"
	default:
		return key
	}
}
