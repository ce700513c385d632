package diff

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dataglue/framediff/frame"
)

// truncateList renders items as a comma-separated list, shortened in the
// middle when longer than max, keeping ordering and labeling the total.
func truncateList(items []string, max int) string {
	if len(items) <= max {
		return strings.Join(items, ", ")
	}
	head := items[:max/2]
	tail := items[len(items)-max/2:]
	return fmt.Sprintf("[%d items] %s ... %s",
		len(items), strings.Join(head, ", "), strings.Join(tail, ", "))
}

// compactValues renders a set of scalar values on one line. Integer sets
// that form a contiguous range collapse to "lo-hi"; anything else is
// sorted and truncated to max items.
func compactValues(values []string, max int) string {
	uniq := uniqueStrings(values)
	if len(uniq) == 0 {
		return "[]"
	}
	if ints, ok := parseInts(uniq); ok {
		sort.Slice(ints, func(i, j int) bool { return ints[i] < ints[j] })
		switch {
		case len(ints) == 1:
			return strconv.FormatInt(ints[0], 10)
		case len(ints) == 2:
			return fmt.Sprintf("%d, %d", ints[0], ints[1])
		case int64(len(ints)) == ints[len(ints)-1]-ints[0]+1:
			return fmt.Sprintf("%d-%d", ints[0], ints[len(ints)-1])
		default:
			return truncateList(formatInts(ints), max)
		}
	}
	sort.Strings(uniq)
	return truncateList(uniq, max)
}

// compactKeys renders a set of row keys. Single-field keys compact like a
// scalar list; composite keys are deconstructed per field, one line per
// field, labeled with the field name when headers align.
func compactKeys(keys []frame.Key, headers []string, max int) []string {
	if len(keys) == 0 {
		return []string{"[]"}
	}
	width := len(keys[0])
	if width == 1 {
		values := make([]string, len(keys))
		for i, k := range keys {
			values[i] = k[0]
		}
		return []string{compactValues(values, max)}
	}
	lines := make([]string, 0, width)
	for field := 0; field < width; field++ {
		values := make([]string, len(keys))
		for i, k := range keys {
			values[i] = k[field]
		}
		line := compactValues(values, max)
		if len(headers) == width {
			line = fmt.Sprintf("%s: %s", headers[field], line)
		}
		lines = append(lines, line)
	}
	return lines
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func parseInts(values []string) ([]int64, bool) {
	out := make([]int64, len(values))
	for i, v := range values {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, false
		}
		out[i] = n
	}
	return out, true
}

func formatInts(values []int64) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strconv.FormatInt(v, 10)
	}
	return out
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
