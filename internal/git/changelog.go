package git

import "strings"

const (
	conflictOursMarker   = "<<<<<<< "
	conflictSplitMarker  = "======="
	conflictTheirsMarker = ">>>>>>> "
)

// resolveConflictHunks rewrites merge-conflict hunks keeping both sides of
// every hunk. Changelog entries from different branches are additive, so the
// union is the correct resolution; preferTheirs controls which side is listed
// first. The second return value reports whether any hunk was found.
func resolveConflictHunks(content string, preferTheirs bool) (string, bool) {
	if !strings.Contains(content, conflictOursMarker) {
		return content, false
	}

	lines := strings.Split(content, "\n")
	newLines := make([]string, 0, len(lines))

	i := 0
	for i < len(lines) {
		if !strings.HasPrefix(lines[i], conflictOursMarker) {
			newLines = append(newLines, lines[i])
			i++
			continue
		}

		var ours, theirs []string
		i++
		for i < len(lines) && !strings.HasPrefix(lines[i], conflictSplitMarker) {
			ours = append(ours, lines[i])
			i++
		}
		i++
		for i < len(lines) && !strings.HasPrefix(lines[i], conflictTheirsMarker) {
			theirs = append(theirs, lines[i])
			i++
		}
		i++

		if preferTheirs {
			newLines = append(newLines, theirs...)
			newLines = append(newLines, ours...)
		} else {
			newLines = append(newLines, ours...)
			newLines = append(newLines, theirs...)
		}
	}

	result := strings.Join(newLines, "\n")
	return result, true
}
