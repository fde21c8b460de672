package router

import (
	"strings"

	"github.com/draftgen/draftgen/pkg/models"
)

// rateUnitHours converts a billing period to working hours. Unknown
// units mean the stated amount is already hourly.
var rateUnitHours = map[string]float64{
	"hour":  1,
	"day":   8,
	"week":  40,
	"month": 160,
}

// timelineUnitHours converts a deadline period to total working hours.
var timelineUnitHours = map[string]int{
	"day":   8,
	"week":  40,
	"month": 160,
	"year":  2080,
}

// normalizeUnit lowercases and singularizes a period unit.
func normalizeUnit(unit string) string {
	u := strings.ToLower(strings.TrimSpace(unit))
	return strings.TrimSuffix(u, "s")
}

// HourlyRate converts a stated rate to an hourly amount. A bare number
// or an unrecognized unit is taken as already hourly.
func HourlyRate(r models.Rate) float64 {
	if hours, ok := rateUnitHours[normalizeUnit(r.Unit)]; ok {
		return r.Amount / hours
	}
	return r.Amount
}

// TimelineHours converts a deadline value and unit to total working
// hours. Unknown units yield zero.
func TimelineHours(value int, unit string) int {
	if hours, ok := timelineUnitHours[normalizeUnit(unit)]; ok {
		return value * hours
	}
	return 0
}

// EffectiveConstraints merges the three constraint scopes, lowest
// priority first: configured defaults, session-remembered values, then
// values extracted from the current turn. Budget and timeline exist
// only in the session and turn scopes; setting one never clears the
// other.
func EffectiveConstraints(defaultRates map[string]float64, session, turn models.Constraints) models.Constraints {
	out := models.Constraints{
		Rates: make(map[string]models.Rate, len(defaultRates)),
	}

	for role, rate := range defaultRates {
		out.Rates[role] = models.Rate{Amount: rate}
	}
	for role, rate := range session.Rates {
		out.Rates[role] = rate
	}
	for role, rate := range turn.Rates {
		out.Rates[role] = rate
	}

	out.Budget = session.Budget
	out.BudgetAmount = session.BudgetAmount
	if turn.Budget != "" {
		out.Budget = turn.Budget
		out.BudgetAmount = turn.BudgetAmount
	}

	out.Timeline = session.Timeline
	if turn.Timeline.Display != "" {
		out.Timeline = turn.Timeline
	}

	return out
}

// InjectConstraintTasks widens a decision so that new constraints are
// reflected in the document: rates stale the resource plan, a budget
// stales both the project plan and the resource plan, and a timeline
// stales the project plan. Any injection turns a non-generate decision
// into an edit; a generate run covers the injected tasks already.
func InjectConstraintTasks(dec *models.Decision) {
	injected := false

	if len(dec.Settings.Rates) > 0 {
		dec.AddTask(models.TaskResourceAllocation)
		injected = true
	}
	if dec.Settings.Budget != "" {
		dec.AddTask(models.TaskProjectManager)
		dec.AddTask(models.TaskResourceAllocation)
		injected = true
	}
	if dec.Settings.Timeline.Display != "" {
		dec.AddTask(models.TaskProjectManager)
		injected = true
	}

	if injected && dec.Action != models.ActionGenerate {
		dec.Action = models.ActionEdit
	}
}
