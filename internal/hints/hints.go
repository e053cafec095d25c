// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"strings"
)

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-md2tex/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	// Find a user config path (contains .config/go-md2tex) to suggest
	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-md2tex") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForManuscriptNotFound returns hints for missing manuscript input.
func ForManuscriptNotFound() string {
	return format("a manuscript directory needs 01_MAIN.md; pass a directory or a single .md file")
}

// ForMissingConfig returns a hint when a manuscript lacks its metadata file.
func ForMissingConfig() string {
	return format("create 00_CONFIG.yml with title and authors, or add YAML front matter to 01_MAIN.md")
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForTemplateNotFound returns hints for template not found errors.
func ForTemplateNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForStyleNotFound returns hints for preview style not found errors.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForBibliography returns hints for missing bibliography files.
func ForBibliography(name string) string {
	return format("expected " + name + ".bib next to the manuscript, or set bibliography in 00_CONFIG.yml")
}

// ForWatchAddr returns hints for watch server bind failures.
func ForWatchAddr() string {
	return format("the address may be in use; pick another with --addr host:port")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}
