package pipeline

import (
	"regexp"
	"strings"
)

var (
	unorderedItem = regexp.MustCompile(`^(\s*)[-*]\s+(.+)$`)
	orderedItem   = regexp.MustCompile(`^(\s*)\d+[.)]\s+(.+)$`)
)

// listKind distinguishes itemize from enumerate runs.
type listKind int

const (
	listNone listKind = iota
	listUnordered
	listOrdered
)

// classifyListLine reports the list kind, indent width, and item body of a
// line, or listNone when it is not a list item.
func classifyListLine(line string) (listKind, int, string) {
	if m := unorderedItem.FindStringSubmatch(line); m != nil {
		return listUnordered, len(m[1]), m[2]
	}
	if m := orderedItem.FindStringSubmatch(line); m != nil {
		return listOrdered, len(m[1]), m[2]
	}
	return listNone, 0, ""
}

// ConvertLists rewrites contiguous runs of list items as itemize or enumerate
// environments, one \item per source line with the body carried verbatim
// (inline markers are converted by later passes). A blank line continues a
// list only when the next non-blank line is an item of the same kind at the
// same or deeper indent. Nested items are emitted flat; the supported dialect
// does not nest environments.
func ConvertLists(content string) string {
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))

	var items []string
	kind := listNone
	indent := 0

	envName := func(k listKind) string {
		if k == listOrdered {
			return "enumerate"
		}
		return "itemize"
	}

	flush := func() {
		if kind == listNone {
			return
		}
		env := envName(kind)
		out = append(out, "\\begin{"+env+"}")
		for _, item := range items {
			out = append(out, "  \\item "+item)
		}
		out = append(out, "\\end{"+env+"}")
		items = nil
		kind = listNone
	}

	// nextItem looks past blank lines for the continuation decision.
	nextItem := func(i int) (listKind, int) {
		for j := i; j < len(lines); j++ {
			if strings.TrimSpace(lines[j]) == "" {
				continue
			}
			k, ind, _ := classifyListLine(lines[j])
			return k, ind
		}
		return listNone, 0
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		k, ind, body := classifyListLine(line)

		switch {
		case k != listNone && kind == listNone:
			kind = k
			indent = ind
			items = append(items, body)

		case k != listNone && k == kind:
			items = append(items, body)

		case k != listNone:
			// Marker kind changed; close the run and start a new one.
			flush()
			kind = k
			indent = ind
			items = append(items, body)

		case kind != listNone && strings.TrimSpace(line) == "":
			nk, nind := nextItem(i + 1)
			if nk == kind && nind >= indent {
				// Blank line inside a continuing list is dropped.
				continue
			}
			flush()
			out = append(out, line)

		default:
			flush()
			out = append(out, line)
		}
	}
	flush()

	return strings.Join(out, "\n")
}
