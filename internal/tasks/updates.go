package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a sweep.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Completed pairs
	Total   int    // Total pairs
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Percent returns completed work as a fraction in [0, 1].
func (u ProgressUpdate) Percent() float64 {
	if u.Total <= 0 {
		return 1
	}
	return float64(u.Step) / float64(u.Total)
}

// Operation phase enumeration
type Phase int

const (
	Search Phase = iota
	Deduplicate
	Complete
)

func (p Phase) String() string {
	switch p {
	case Search:
		return "search"
	case Deduplicate:
		return "deduplicate"
	case Complete:
		return "complete"
	default:
		return ""
	}
}

func searchUpdate(step, total int, pair *Pair) ProgressUpdate {
	if pair == nil {
		return ProgressUpdate{
			Phase:   Search,
			Step:    step,
			Total:   total,
			Message: fmt.Sprintf("Searching %d artist/period pairs...", total),
		}
	}
	return ProgressUpdate{
		Phase:   Search,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s in %s", step, total, pair.Artist, pair.Period.Location),
		Data:    *pair,
	}
}

func dedupUpdate(collected int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Deduplicate,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Removing duplicates from %d results...", collected),
	}
}

func completeUpdate(step, total, found int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Complete,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Found %d concerts", found),
		Data:    found,
	}
}
