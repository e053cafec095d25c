package check

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Manuscript file layout shared by the checkers and the CLI.
const (
	ConfigFile        = "00_CONFIG.yml"
	MainFile          = "01_MAIN.md"
	SupplementaryFile = "02_SUPPLEMENTARY_INFO.md"
	BibliographyFile  = "03_REFERENCES.bib"
	FiguresDir        = "FIGURES"
)

// Level classifies a finding.
type Level string

const (
	LevelError   Level = "error"
	LevelWarning Level = "warning"
)

// Finding is one validation result.
type Finding struct {
	Level      Level  `json:"level"`
	Message    string `json:"message"`
	File       string `json:"file,omitempty"`
	Line       int    `json:"line,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
	Code       string `json:"code,omitempty"`
}

// CitationStats summarizes citation usage across the manuscript.
type CitationStats struct {
	BibliographyKeys   int      `json:"bibliography_keys"`
	TotalCitations     int      `json:"total_citations"`
	UniqueCitations    int      `json:"unique_citations"`
	UndefinedCitations int      `json:"undefined_citations"`
	MostCited          string   `json:"most_cited,omitempty"`
	MostCitedCount     int      `json:"most_cited_count,omitempty"`
	UnusedBibEntries   []string `json:"unused_bib_entries,omitempty"`
}

// CitationReport holds citation findings plus usage statistics.
type CitationReport struct {
	Findings []Finding     `json:"findings"`
	Stats    CitationStats `json:"stats"`
}

var (
	bracketedCiteGroup = regexp.MustCompile(`\[(@[^]]+)\]`)
	bareCiteKey        = regexp.MustCompile(`@([a-zA-Z0-9_-]+)`)
	protectedTableLine = regexp.MustCompile(`XXPROTECTEDTABLEXX\d+`)
	validCitationKey   = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	bibEntryKey        = regexp.MustCompile(`(?i)@\w+\s*\{\s*([^,\s}]+)`)
	crossRefLikeKey    = regexp.MustCompile(`(?i)^(fig|figure|table|tbl|eq|equation)\d+$`)
)

// citationRefPrefixes are the cross-reference prefixes sharing the citation
// sigil with citations. A key with one of these prefixes followed by a colon
// is a reference and not checked against the bibliography.
var citationRefPrefixes = map[string]bool{
	"fig":    true,
	"eq":     true,
	"tbl":    true,
	"sfig":   true,
	"stable": true,
	"snote":  true,
}

// citationScan accumulates citation occurrences per key in first-appearance
// order so reports are deterministic.
type citationScan struct {
	order []string
	lines map[string][]int
}

// CheckCitations validates the manuscript's citations against its
// bibliography. Missing files are reported as findings, not errors; the error
// return covers unexpected I/O failures only.
func CheckCitations(dir string) (*CitationReport, error) {
	report := &CitationReport{}
	scan := &citationScan{lines: make(map[string][]int)}

	bibKeys, finding, err := loadBibliographyKeys(filepath.Join(dir, BibliographyFile))
	if err != nil {
		return nil, err
	}
	if finding != nil {
		report.Findings = append(report.Findings, *finding)
	}
	report.Stats.BibliographyKeys = len(bibKeys)

	for _, name := range []string{MainFile, SupplementaryFile} {
		path := filepath.Join(dir, name)
		content, err := os.ReadFile(path) // #nosec G304 -- manuscript path is user-provided
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		report.Findings = append(report.Findings, scanFileCitations(name, string(content), bibKeys, scan)...)
	}

	fillCitationStats(&report.Stats, scan, bibKeys)
	return report, nil
}

// loadBibliographyKeys parses BibTeX entry keys (@type{key, ...). A missing
// bibliography is a warning, since citation existence cannot be checked
// without it.
func loadBibliographyKeys(path string) (map[string]bool, *Finding, error) {
	content, err := os.ReadFile(path) // #nosec G304 -- manuscript path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &Finding{
				Level:      LevelWarning,
				Message:    "Bibliography file " + BibliographyFile + " not found",
				Suggestion: "create the bibliography file to validate citation references",
				Code:       "missing_bibliography",
			}, nil
		}
		return nil, nil, fmt.Errorf("reading %s: %w", BibliographyFile, err)
	}

	keys := make(map[string]bool)
	for _, m := range bibEntryKey.FindAllStringSubmatch(string(content), -1) {
		if key := strings.TrimSpace(m[1]); key != "" {
			keys[key] = true
		}
	}
	return keys, nil, nil
}

// scanFileCitations walks a markdown file line by line. Lines carrying
// protected-table placeholders are skipped; they hold converted LaTeX whose
// @ signs are not citations.
func scanFileCitations(name, content string, bibKeys map[string]bool, scan *citationScan) []Finding {
	var findings []Finding
	for i, line := range strings.Split(content, "\n") {
		if protectedTableLine.MatchString(line) {
			continue
		}
		findings = append(findings, scanLineCitations(name, line, i+1, bibKeys, scan)...)
	}
	return findings
}

func scanLineCitations(name, line string, lineNum int, bibKeys map[string]bool, scan *citationScan) []Finding {
	var findings []Finding

	// Bracketed groups first: [@key1;@key2]. The group is blanked afterwards
	// so the bare pass does not count its keys twice.
	line = bracketedCiteGroup.ReplaceAllStringFunc(line, func(m string) string {
		inner := bracketedCiteGroup.FindStringSubmatch(m)[1]
		for _, part := range strings.Split(inner, ";") {
			part = strings.TrimSpace(part)
			if !strings.HasPrefix(part, "@") {
				continue
			}
			findings = append(findings, checkCitationKey(part[1:], name, lineNum, bibKeys, scan)...)
		}
		return strings.Repeat(" ", len(m))
	})

	// Bare citations: @key, unless the key is a cross-reference prefix
	// followed by a colon.
	for _, idx := range bareCiteKey.FindAllStringSubmatchIndex(line, -1) {
		key := line[idx[2]:idx[3]]
		if citationRefPrefixes[key] && idx[3] < len(line) && line[idx[3]] == ':' {
			continue
		}
		findings = append(findings, checkCitationKey(key, name, lineNum, bibKeys, scan)...)
	}

	return findings
}

// checkCitationKey records one citation occurrence and reports format,
// existence, and likely-cross-reference problems.
func checkCitationKey(key, file string, line int, bibKeys map[string]bool, scan *citationScan) []Finding {
	if _, seen := scan.lines[key]; !seen {
		scan.order = append(scan.order, key)
	}
	scan.lines[key] = append(scan.lines[key], line)

	switch {
	case !validCitationKey.MatchString(key):
		return []Finding{{
			Level:      LevelError,
			Message:    fmt.Sprintf("Invalid citation key format: %q", key),
			File:       file,
			Line:       line,
			Suggestion: "citation keys should contain only letters, numbers, underscores, and hyphens",
			Code:       "invalid_citation_key",
		}}
	case len(bibKeys) > 0 && !bibKeys[key]:
		return []Finding{{
			Level:      LevelError,
			Message:    fmt.Sprintf("Undefined citation: %q", key),
			File:       file,
			Line:       line,
			Suggestion: fmt.Sprintf("add citation key %q to %s or check spelling", key, BibliographyFile),
			Code:       "undefined_citation",
		}}
	case crossRefLikeKey.MatchString(key):
		return []Finding{{
			Level:      LevelWarning,
			Message:    fmt.Sprintf("Citation key %q looks like it might be a cross-reference", key),
			File:       file,
			Line:       line,
			Suggestion: "use @fig:label for figures, @tbl:label for tables, @eq:label for equations",
			Code:       "possible_reference_error",
		}}
	}
	return nil
}

func fillCitationStats(stats *CitationStats, scan *citationScan, bibKeys map[string]bool) {
	stats.UniqueCitations = len(scan.order)
	for _, key := range scan.order {
		count := len(scan.lines[key])
		stats.TotalCitations += count
		if len(bibKeys) > 0 && !bibKeys[key] {
			stats.UndefinedCitations++
		}
		if count > stats.MostCitedCount {
			stats.MostCited = key
			stats.MostCitedCount = count
		}
	}

	for key := range bibKeys {
		if _, used := scan.lines[key]; !used {
			stats.UnusedBibEntries = append(stats.UnusedBibEntries, key)
		}
	}
	sort.Strings(stats.UnusedBibEntries)
}
