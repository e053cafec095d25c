package pipeline

import (
	"regexp"
	"strings"
)

var (
	figureReference   = regexp.MustCompile(`@fig:([a-zA-Z0-9_-]+)`)
	suppFigReference  = regexp.MustCompile(`@sfig:([a-zA-Z0-9_-]+)`)
	equationReference = regexp.MustCompile(`@eq:([a-zA-Z0-9_-]+)`)
	tableReference    = regexp.MustCompile(`@tbl:([a-zA-Z0-9_-]+)`)
	suppTblReference  = regexp.MustCompile(`@stable:([a-zA-Z0-9_-]+)`)
	snoteReference    = regexp.MustCompile(`\{@snote:([^}]+)\}`)

	bracketedCitation = regexp.MustCompile(`\[(@[^]]+)\]`)
	bareCitation      = regexp.MustCompile(`@([a-zA-Z0-9_-]+)`)
)

// reservedRefPrefixes are the cross-reference prefixes sharing the citation
// sigil. A bare @word match whose key is one of these and is followed by a
// colon is a reference, not a citation.
var reservedRefPrefixes = map[string]bool{
	"fig":    true,
	"eq":     true,
	"tbl":    true,
	"sfig":   true,
	"stable": true,
	"snote":  true,
}

// ConvertFigureReferences rewrites @fig: and @sfig: references as \ref.
// Must run before citation conversion.
func ConvertFigureReferences(content string) string {
	content = figureReference.ReplaceAllString(content, `\ref{fig:$1}`)
	return suppFigReference.ReplaceAllString(content, `\ref{sfig:$1}`)
}

// ConvertEquationReferences rewrites @eq: references as \ref.
func ConvertEquationReferences(content string) string {
	return equationReference.ReplaceAllString(content, `\ref{eq:$1}`)
}

// ConvertTableReferences rewrites @tbl: and @stable: references as \ref.
func ConvertTableReferences(content string) string {
	content = tableReference.ReplaceAllString(content, `\ref{tbl:$1}`)
	return suppTblReference.ReplaceAllString(content, `\ref{stable:$1}`)
}

// ConvertSupplementaryNoteReferences rewrites {@snote:id} references as \ref.
func ConvertSupplementaryNoteReferences(content string) string {
	return snoteReference.ReplaceAllString(content, `\ref{snote:$1}`)
}

// ConvertCitations rewrites citations as \cite commands: the bracketed
// multi-key form first, then bare @key. Lines holding protected table
// placeholders are skipped so literal @ text inside table cells is never
// read as a citation. Cross-references were converted by earlier passes;
// any survivor with a reserved prefix is still left alone.
func ConvertCitations(content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if strings.Contains(line, markdownTableToken) || strings.Contains(line, latexTableToken) {
			continue
		}
		lines[i] = convertCitationLine(line)
	}
	return strings.Join(lines, "\n")
}

func convertCitationLine(line string) string {
	line = bracketedCitation.ReplaceAllStringFunc(line, func(m string) string {
		inner := bracketedCitation.FindStringSubmatch(m)[1]
		var keys []string
		for _, part := range strings.Split(inner, ";") {
			key := strings.TrimPrefix(strings.TrimSpace(part), "@")
			if key != "" {
				keys = append(keys, key)
			}
		}
		if len(keys) == 0 {
			return m
		}
		return "\\cite{" + strings.Join(keys, ",") + "}"
	})

	// Bare keys. RE2 has no lookahead, so reserved prefixes are filtered by
	// inspecting each match and the character after it.
	var b strings.Builder
	last := 0
	for _, loc := range bareCitation.FindAllStringSubmatchIndex(line, -1) {
		key := line[loc[2]:loc[3]]
		if reservedRefPrefixes[key] && loc[1] < len(line) && line[loc[1]] == ':' {
			continue
		}
		b.WriteString(line[last:loc[0]])
		b.WriteString("\\cite{" + key + "}")
		last = loc[1]
	}
	b.WriteString(line[last:])
	return b.String()
}
