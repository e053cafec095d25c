package pipeline

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// New marker form: {#snote:id} **Title**, anywhere in the document.
	snoteMarker = regexp.MustCompile(`(?m)^\{#snote:([a-zA-Z0-9_-]+)\}\s*\*\*(.+?)\*\*\s*$`)

	// Legacy form: plain subsections after the Supplementary Notes heading.
	// Both run after header conversion, so the heading is already a sectioning
	// command at either level and the note headers are bare \subsection lines.
	// Lines carrying a \label (marker-form output) stay untouched.
	supplementaryNotesSplit = regexp.MustCompile(`\\(?:sub)?section\{Supplementary Notes\}`)
	legacyNoteHeader        = regexp.MustCompile(`(?m)^\\subsection\{([^{}]+)\}$`)

	// Authors may carry the numbering in the source header; it is stripped and
	// reassigned so renumbered notes never double the prefix.
	legacyNotePrefix = regexp.MustCompile(`^Supplementary Note \d+:?\s*`)

	snoteLabelStrip    = regexp.MustCompile(`[^\w\s-]`)
	snoteLabelCollapse = regexp.MustCompile(`[-\s]+`)
)

// snoteCounterReset is injected once before the first marker-form note so
// LaTeX renumbers notes itself instead of this layer counting them.
const snoteCounterReset = "\\setcounter{snotecounter}{0}"

// Header titles never treated as supplementary notes even when they appear in
// the notes section.
var excludedNoteHeaders = map[string]bool{
	"file structure and organisation": true,
	"file structure and organization": true,
}

// ConvertSupplementaryNotes rewrites supplementary note headers as labeled
// subsections. The marker form is handled first; the legacy form renumbers
// the subsections appearing after the Supplementary Notes heading, carrying
// explicit "Supplementary Note N:" numbering in the title.
func ConvertSupplementaryNotes(content string) string {
	content = convertMarkerNotes(content)
	return convertLegacyNotes(content)
}

func convertMarkerNotes(content string) string {
	first := true
	return snoteMarker.ReplaceAllStringFunc(content, func(m string) string {
		g := snoteMarker.FindStringSubmatch(m)
		out := fmt.Sprintf("\\subsection{%s}\\label{snote:%s}", strings.TrimSpace(g[2]), g[1])
		if first {
			first = false
			out = snoteCounterReset + "\n" + out
		}
		return out
	})
}

func convertLegacyNotes(content string) string {
	loc := supplementaryNotesSplit.FindStringIndex(content)
	if loc == nil {
		return content
	}
	before := content[:loc[1]]
	notes := content[loc[1]:]

	counter := 0
	notes = legacyNoteHeader.ReplaceAllStringFunc(notes, func(m string) string {
		title := strings.TrimSpace(legacyNoteHeader.FindStringSubmatch(m)[1])
		if excludedNoteHeaders[strings.ToLower(title)] {
			return "\\subsubsection{" + title + "}"
		}
		title = legacyNotePrefix.ReplaceAllString(title, "")
		counter++
		return fmt.Sprintf("\\subsection{Supplementary Note %d: %s}\\label{%s}",
			counter, title, noteLabel(title))
	})

	return before + notes
}

// noteLabel derives a reference label from a note title: lowercase, punctuation
// stripped, word runs joined by underscores.
func noteLabel(title string) string {
	label := snoteLabelStrip.ReplaceAllString(strings.ToLower(title), "")
	label = snoteLabelCollapse.ReplaceAllString(label, "_")
	return "snote:" + strings.Trim(label, "_")
}
