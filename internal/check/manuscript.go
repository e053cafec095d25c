package check

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/alnah/go-md2tex/internal/fileutil"
	"github.com/alnah/go-md2tex/internal/yamlutil"
)

// requiredFiles must exist in a manuscript directory for a build to succeed.
var requiredFiles = []struct {
	name        string
	description string
}{
	{ConfigFile, "configuration file with manuscript metadata"},
	{MainFile, "main manuscript content in Markdown format"},
	{BibliographyFile, "bibliography file in BibTeX format"},
}

// requiredConfigFields are the metadata keys a complete manuscript config
// carries. Missing fields are errors, empty ones warnings.
var requiredConfigFields = []struct {
	name        string
	description string
}{
	{"title", "manuscript title"},
	{"authors", "list of authors"},
	{"date", "publication date"},
	{"keywords", "keywords for the manuscript"},
	{"output_filename", "output file name"},
}

// standardSections are the headings a typical manuscript contains; finding
// fewer than two triggers a warning, not an error.
var standardSections = []string{"abstract", "introduction", "methods", "results", "discussion"}

var (
	figureRefPath = regexp.MustCompile(`!\[[^\]]*\]\(((?:FIGURES|Figures)/[^)]+)\)`)
	legacyNoteNum = regexp.MustCompile(`(?m)^###\s+Supplementary Note\s+(\d+)\s*[:.]`)
)

// ManuscriptReport holds structural findings for one manuscript directory.
type ManuscriptReport struct {
	Path     string    `json:"path"`
	Findings []Finding `json:"findings"`
	OK       bool      `json:"ok"`
}

// CheckManuscript validates the structure of a manuscript directory: required
// files and directories, config fields, bibliography and main content sanity,
// referenced-figure existence, and supplementary note numbering. The error
// return covers unexpected I/O failures only; validation problems are
// findings.
func CheckManuscript(dir string) (*ManuscriptReport, error) {
	report := &ManuscriptReport{Path: dir}

	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		report.add(LevelError, "Manuscript directory not found: "+dir, "", "missing_directory")
		return report.finish(), nil
	case err != nil:
		return nil, fmt.Errorf("stat %s: %w", dir, err)
	case !info.IsDir():
		report.add(LevelError, "Path is not a directory: "+dir, "", "not_a_directory")
		return report.finish(), nil
	}

	checkRequiredEntries(dir, report)
	if err := checkConfigFields(dir, report); err != nil {
		return nil, err
	}
	if err := checkBibliographySanity(dir, report); err != nil {
		return nil, err
	}
	mainContent, err := checkMainContent(dir, report)
	if err != nil {
		return nil, err
	}
	checkFigureReferences(dir, mainContent, report)
	if err := checkNoteNumbering(dir, report); err != nil {
		return nil, err
	}

	return report.finish(), nil
}

func (r *ManuscriptReport) add(level Level, message, file, code string) {
	r.Findings = append(r.Findings, Finding{Level: level, Message: message, File: file, Code: code})
}

func (r *ManuscriptReport) finish() *ManuscriptReport {
	r.OK = true
	for _, f := range r.Findings {
		if f.Level == LevelError {
			r.OK = false
			break
		}
	}
	return r
}

func checkRequiredEntries(dir string, report *ManuscriptReport) {
	for _, f := range requiredFiles {
		if !fileutil.FileExists(filepath.Join(dir, f.name)) {
			report.add(LevelError,
				fmt.Sprintf("Required file missing: %s (%s)", f.name, f.description),
				f.name, "missing_file")
		}
	}

	if !fileutil.FileExists(filepath.Join(dir, SupplementaryFile)) {
		report.add(LevelWarning,
			"Optional file missing: "+SupplementaryFile+" (supplementary information content)",
			SupplementaryFile, "missing_optional_file")
	}

	figDir := filepath.Join(dir, FiguresDir)
	if info, err := os.Stat(figDir); err != nil {
		report.add(LevelError,
			"Required directory missing: "+FiguresDir+" (directory for manuscript figures)",
			FiguresDir, "missing_directory")
	} else if !info.IsDir() {
		report.add(LevelError,
			"Path exists but is not a directory: "+FiguresDir,
			FiguresDir, "not_a_directory")
	}
}

func checkConfigFields(dir string, report *ManuscriptReport) error {
	data, err := os.ReadFile(filepath.Join(dir, ConfigFile)) // #nosec G304 -- manuscript path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil // already reported as a missing required file
		}
		return fmt.Errorf("reading %s: %w", ConfigFile, err)
	}

	var cfg map[string]any
	if err := yamlutil.Unmarshal(data, &cfg); err != nil {
		report.add(LevelError, "Invalid YAML in config file: "+err.Error(), ConfigFile, "invalid_config")
		return nil
	}

	for _, field := range requiredConfigFields {
		value, present := cfg[field.name]
		switch {
		case !present:
			report.add(LevelError,
				fmt.Sprintf("Missing required config field: %s (%s)", field.name, field.description),
				ConfigFile, "missing_config_field")
		case isEmptyValue(value):
			report.add(LevelWarning,
				fmt.Sprintf("Config field is empty: %s (%s)", field.name, field.description),
				ConfigFile, "empty_config_field")
		}
	}
	return nil
}

func checkBibliographySanity(dir string, report *ManuscriptReport) error {
	content, err := os.ReadFile(filepath.Join(dir, BibliographyFile)) // #nosec G304 -- manuscript path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", BibliographyFile, err)
	}

	switch {
	case strings.TrimSpace(string(content)) == "":
		report.add(LevelWarning, "Bibliography file is empty", BibliographyFile, "empty_bibliography")
	case !strings.Contains(string(content), "@"):
		report.add(LevelWarning,
			"Bibliography file appears to contain no BibTeX entries",
			BibliographyFile, "no_bib_entries")
	}
	return nil
}

func checkMainContent(dir string, report *ManuscriptReport) (string, error) {
	content, err := os.ReadFile(filepath.Join(dir, MainFile)) // #nosec G304 -- manuscript path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading %s: %w", MainFile, err)
	}

	text := string(content)
	if strings.TrimSpace(text) == "" {
		report.add(LevelError, "Main manuscript file is empty", MainFile, "empty_main")
		return text, nil
	}

	lowered := strings.ToLower(text)
	var found []string
	for _, section := range standardSections {
		if strings.Contains(lowered, section) {
			found = append(found, section)
		}
	}
	if len(found) < 2 {
		names := "none"
		if len(found) > 0 {
			names = strings.Join(found, ", ")
		}
		report.add(LevelWarning,
			"Main manuscript appears to have few standard sections. Found: "+names,
			MainFile, "few_sections")
	}
	return text, nil
}

func checkFigureReferences(dir, mainContent string, report *ManuscriptReport) {
	if mainContent == "" {
		return
	}
	if _, err := os.Stat(filepath.Join(dir, FiguresDir)); err != nil {
		return
	}

	var missing []string
	for _, m := range figureRefPath.FindAllStringSubmatch(mainContent, -1) {
		// The converter treats FIGURES/ and Figures/ as the same tree.
		rel := m[1]
		candidate := filepath.Join(dir, FiguresDir, strings.SplitN(rel, "/", 2)[1])
		if !fileutil.FileExists(candidate) {
			missing = append(missing, rel)
		}
	}
	if len(missing) > 0 {
		report.add(LevelWarning,
			"Referenced figures not found: "+strings.Join(missing, ", "),
			MainFile, "missing_figures")
	}
}

// checkNoteNumbering verifies legacy numbered supplementary notes run 1..n
// without gaps. Marker-style notes ({#snote:id}) are auto-numbered by LaTeX
// and need no check.
func checkNoteNumbering(dir string, report *ManuscriptReport) error {
	content, err := os.ReadFile(filepath.Join(dir, SupplementaryFile)) // #nosec G304 -- manuscript path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", SupplementaryFile, err)
	}

	matches := legacyNoteNum.FindAllStringSubmatch(string(content), -1)
	for i, m := range matches {
		n, err := strconv.Atoi(m[1])
		if err != nil || n != i+1 {
			report.add(LevelWarning,
				fmt.Sprintf("Supplementary note numbering out of sequence: found note %s, expected %d", m[1], i+1),
				SupplementaryFile, "note_sequence")
		}
	}
	return nil
}

// isEmptyValue reports whether a decoded YAML value is empty for the purpose
// of the required-field warnings.
func isEmptyValue(v any) bool {
	switch value := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(value) == ""
	case []any:
		return len(value) == 0
	case map[string]any:
		return len(value) == 0
	default:
		return false
	}
}
