package generations

import (
	"os"
	"time"
)

// TrimPlan is the result of computing which generations should be removed:
// those outside the keep-count window or older than the keep-days cutoff,
// with the currently active generation always excluded from removal.
type TrimPlan struct {
	Keep   []Info
	Remove []Info
}

// Plan resolves the set of generations to keep (the most recent keepCount,
// minus any older than keepDays, the current generation always kept
// regardless) and returns the rest as the removal set. generations is
// assumed sorted ascending by Number, as List returns it.
func Plan(gens []Info, keepCount, keepDays int, now time.Time) TrimPlan {
	var plan TrimPlan
	cutoff := now.AddDate(0, 0, -keepDays)

	n := len(gens)
	for i, g := range gens {
		idxFromEnd := n - i // 1-based position counting from the newest
		withinCount := keepCount <= 0 || idxFromEnd <= keepCount
		withinDays := keepDays <= 0 || !g.BuildDate.Before(cutoff)

		if g.Current || (withinCount && withinDays) {
			plan.Keep = append(plan.Keep, g)
		} else {
			plan.Remove = append(plan.Remove, g)
		}
	}
	return plan
}

// Apply removes every generation in plan.Remove's backing directory. It
// does not touch plan.Keep. Removal failures for one generation don't stop
// the rest — they're collected and returned together.
func Apply(plan TrimPlan) []error {
	var errs []error
	for _, g := range plan.Remove {
		if err := os.Remove(g.Dir); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
