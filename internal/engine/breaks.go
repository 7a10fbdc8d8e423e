package engine

import (
	"github.com/homeops-tools/clockify-bridge/internal/models"
)

// BreakProjectName is the reserved project label whose entries are excluded
// from work totals even when the source did not tag them as breaks. The
// match is a case-sensitive exact comparison.
const BreakProjectName = "Breaks"

// IsBreak reports whether the entry counts as break time. Break entries are
// accepted but contribute zero seconds to every total.
func IsBreak(e *models.TimeEntry) bool {
	if e.Kind == models.KindBreak {
		return true
	}
	return e.Project != nil && e.Project.Name == BreakProjectName
}
