package pipeline

import (
	"regexp"
	"strings"
)

// Section is one ## -delimited slice of a manuscript, still in markdown.
type Section struct {
	Key           string
	Title         string
	Content       string
	Supplementary bool
}

var (
	sectionSplit   = regexp.MustCompile(`(?m)^## `)
	sectionKeyJunk = regexp.MustCompile(`[\s-]+`)
)

// ExtractSections splits a manuscript (front matter already stripped) on
// ## headers and maps each title to its canonical section key. Content before
// the first header becomes the main section when non-empty. Sections are
// independent of each other; callers convert them separately.
func ExtractSections(content string) []Section {
	parts := sectionSplit.Split(content, -1)
	sections := make([]Section, 0, len(parts))

	if preamble := strings.TrimSpace(parts[0]); preamble != "" {
		sections = append(sections, makeSection("main", "", parts[0]))
	}

	for _, part := range parts[1:] {
		title, body, _ := strings.Cut(part, "\n")
		title = strings.TrimSpace(title)
		sections = append(sections, makeSection(MapSectionTitleToKey(title), title, body))
	}
	return sections
}

func makeSection(key, title, body string) Section {
	content := strings.TrimRight(body, "\n")
	lowered := strings.ToLower(title) + " " + strings.ToLower(content)
	return Section{
		Key:           key,
		Title:         title,
		Content:       content,
		Supplementary: strings.Contains(lowered, "supplementary"),
	}
}

// MapSectionTitleToKey maps a section title to its canonical key via fixed
// case-insensitive substring rules. Unrecognized titles become their own key,
// lowercased with word separators replaced by underscores.
func MapSectionTitleToKey(title string) string {
	t := strings.ToLower(title)
	has := func(subs ...string) bool {
		for _, sub := range subs {
			if strings.Contains(t, sub) {
				return true
			}
		}
		return false
	}

	switch {
	case has("abstract"):
		return "abstract"
	case has("introduction"):
		return "main"
	case has("method"):
		return "methods"
	case has("result") && has("discussion"):
		return "results_and_discussion"
	case has("result"):
		return "results"
	case has("discussion"):
		return "discussion"
	case has("conclusion"):
		return "conclusion"
	case has("data availability", "data access"):
		return "data_availability"
	case has("code availability", "code access"):
		return "code_availability"
	case has("author contribution", "contribution"):
		return "author_contributions"
	case has("acknowledgement", "acknowledge"):
		return "acknowledgements"
	case has("funding", "financial support", "grant"):
		return "funding"
	default:
		return strings.Trim(sectionKeyJunk.ReplaceAllString(t, "_"), "_")
	}
}
