// Package selection turns LFAA selection strings into concrete antenna names.
package selection

import (
	"path"
	"sort"
	"strings"

	"github.com/ska-telescope/ska-ost-sim-low-station-beam/internal/models"
)

// ParsePatterns splits a comma-separated selection string. Surrounding
// whitespace is trimmed from each pattern. An empty string selects
// everything and yields nil.
func ParsePatterns(list string) []string {
	if strings.TrimSpace(list) == "" {
		return nil
	}
	parts := strings.Split(list, ",")
	patterns := make([]string, len(parts))
	for i, p := range parts {
		patterns[i] = strings.TrimSpace(p)
	}
	return patterns
}

// Resolve expands patterns against all. Each pattern is an exact name or a
// shell glob (*, ?, [...], [!...]) and must match at least one name. The
// union is de-duplicated and sorted. A nil pattern list returns a copy of all in its
// original order.
func Resolve(all []string, patterns []string) ([]string, error) {
	if patterns == nil {
		return append([]string(nil), all...), nil
	}

	selected := make(map[string]struct{})
	for _, pattern := range patterns {
		matched, err := match(all, pattern)
		if err != nil {
			return nil, models.NewEmptySelectionError(pattern, err)
		}
		if len(matched) == 0 {
			return nil, models.NewEmptySelectionError(pattern, nil)
		}
		for _, name := range matched {
			selected[name] = struct{}{}
		}
	}

	names := make([]string, 0, len(selected))
	for name := range selected {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func match(all []string, pattern string) ([]string, error) {
	pattern = translate(pattern)
	// Surface malformed patterns even when there is nothing to match.
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, err
	}

	var matched []string
	for _, name := range all {
		ok, err := path.Match(pattern, name)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, name)
		}
	}
	return matched, nil
}
