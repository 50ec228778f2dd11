package reconcile

import (
	"sort"
)

// Plan is the set arithmetic of one cycle.
type Plan struct {
	// Found contains every identifier observed this cycle.
	Found []string `json:"found"`

	// New contains identifiers observed but not active before the cycle.
	New []string `json:"new"`

	// Retained contains identifiers both active and observed.
	Retained []string `json:"retained"`

	// Removed contains identifiers active before the cycle but not observed.
	Removed []string `json:"removed"`
}

// PlanSummary provides aggregate counts for a plan.
type PlanSummary struct {
	Found    int `json:"found"`
	New      int `json:"new"`
	Retained int `json:"retained"`
	Removed  int `json:"removed"`
}

// Summary returns the plan's counts.
func (p Plan) Summary() PlanSummary {
	return PlanSummary{
		Found:    len(p.Found),
		New:      len(p.New),
		Retained: len(p.Retained),
		Removed:  len(p.Removed),
	}
}

// Diff computes the plan for an active set and a found set.
// All slices are sorted for deterministic output.
func Diff(active, found map[string]struct{}) Plan {
	plan := Plan{
		Found:    make([]string, 0, len(found)),
		New:      []string{},
		Retained: []string{},
		Removed:  []string{},
	}

	for id := range found {
		plan.Found = append(plan.Found, id)
		if _, ok := active[id]; ok {
			plan.Retained = append(plan.Retained, id)
		} else {
			plan.New = append(plan.New, id)
		}
	}

	for id := range active {
		if _, ok := found[id]; !ok {
			plan.Removed = append(plan.Removed, id)
		}
	}

	sort.Strings(plan.Found)
	sort.Strings(plan.New)
	sort.Strings(plan.Retained)
	sort.Strings(plan.Removed)

	return plan
}

// setOf builds a set from a list of identifiers.
func setOf(ids ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
