package triage

import "strings"

// Kind is the maintenance workflow a pull request is classified into.
type Kind int

const (
	// KindNone means no maintenance label matched; the run is a no-op.
	KindNone Kind = iota
	// KindStalled selects the stalled-PR rebase workflow.
	KindStalled
	// KindBackport selects the backport cherry-pick workflow.
	KindBackport
)

// String returns the workflow name.
func (k Kind) String() string {
	switch k {
	case KindStalled:
		return "stalled"
	case KindBackport:
		return "backport"
	default:
		return "none"
	}
}

// Classify maps a pull request's label set to a workflow by case-insensitive
// substring match. The stalled label wins when both match, mirroring the
// branch order of the CI pipeline this replaces.
func Classify(labels []string, stalledLabel, backportLabel string) Kind {
	if matchesAny(labels, stalledLabel) {
		return KindStalled
	}
	if matchesAny(labels, backportLabel) {
		return KindBackport
	}
	return KindNone
}

func matchesAny(labels []string, keyword string) bool {
	if keyword == "" {
		return false
	}
	keyword = strings.ToLower(keyword)
	for _, label := range labels {
		if strings.Contains(strings.ToLower(label), keyword) {
			return true
		}
	}
	return false
}
