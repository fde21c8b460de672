// Package models defines the shared data types for draftgen.
package models

// TaskID identifies one of the fixed proposal tasks.
// The task set is closed: new tasks are added here and in the registry,
// never discovered at runtime.
type TaskID string

const (
	// TaskTitle generates the proposal title.
	TaskTitle TaskID = "title"
	// TaskScopeRefinement refines the raw idea into a concrete scope.
	TaskScopeRefinement TaskID = "scope_refinement"
	// TaskBusinessAnalyst produces the business analysis section.
	TaskBusinessAnalyst TaskID = "business_analyst"
	// TaskTechnicalArchitect produces the technical specification.
	TaskTechnicalArchitect TaskID = "technical_architect"
	// TaskProjectManager produces the project plan.
	TaskProjectManager TaskID = "project_manager"
	// TaskResourceAllocation produces the resource plan and cost table.
	TaskResourceAllocation TaskID = "resource_allocation"
	// TaskFinalCompilation validates completeness and assembles the document.
	TaskFinalCompilation TaskID = "final_compilation"
)

// Valid returns true if the task ID is one of the known tasks.
func (t TaskID) Valid() bool {
	switch t {
	case TaskTitle, TaskScopeRefinement, TaskBusinessAnalyst,
		TaskTechnicalArchitect, TaskProjectManager,
		TaskResourceAllocation, TaskFinalCompilation:
		return true
	default:
		return false
	}
}

// String returns the task ID as a string.
func (t TaskID) String() string {
	return string(t)
}

// TaskResult carries the outputs of a single task run.
type TaskResult struct {
	// Outputs maps section keys to generated content.
	Outputs map[string]string
	// Failure, when non-empty, marks a soft completeness failure.
	// The run ends in the failed stage but no error is raised.
	Failure string
}
