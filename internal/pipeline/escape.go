package pipeline

import (
	"regexp"
	"strings"
)

// underscoreSentinel masks underscores that must end up as \_ exactly once.
// The code-span and filename passes both emit it; the final substitution in
// EscapeSpecialCharacters resolves it, so overlapping rules cannot
// double-escape.
const underscoreSentinel = "XUNDERSCOREX"

var (
	parenthesizedSpan = regexp.MustCompile(`\(([^)]+)\)`)

	// Filenames with an extension, e.g. my_file.tex or data_set.v2.csv.
	filenameWithExt = regexp.MustCompile(`\b\w+_[\w._]*\.(md|yml|yaml|bib|tex|py|csv|pdf|png|svg|jpg)\b`)

	// Numbered manuscript files, e.g. 00_CONFIG, 01_MAIN.
	numberedFile = regexp.MustCompile(`\b\d+_[A-Z_]+\b`)
)

// filePathExtensions mark a parenthesized span as filename-like on their own,
// without requiring an underscore.
var filePathExtensions = []string{".md", ".bib", ".tex", ".py", ".csv"}

// EscapeSpecialCharacters escapes underscores in filename-like text: inside
// parenthesized file paths, in filenames with known extensions, and in
// numbered manuscript file tokens. Underscores are routed through the
// sentinel and substituted once at the end; running the pass twice on its own
// output changes nothing.
func EscapeSpecialCharacters(content string) string {
	content = parenthesizedSpan.ReplaceAllStringFunc(content, func(m string) string {
		inner := parenthesizedSpan.FindStringSubmatch(m)[1]
		if strings.Contains(inner, "\\_") || !looksLikeFilePath(inner) {
			return m
		}
		return "(" + strings.ReplaceAll(inner, "_", underscoreSentinel) + ")"
	})

	maskUnderscores := func(m string) string {
		return strings.ReplaceAll(m, "_", underscoreSentinel)
	}
	content = filenameWithExt.ReplaceAllStringFunc(content, maskUnderscores)
	content = numberedFile.ReplaceAllStringFunc(content, maskUnderscores)

	return strings.ReplaceAll(content, underscoreSentinel, "\\_")
}

func looksLikeFilePath(s string) bool {
	if strings.Contains(s, ".") && strings.Contains(s, "_") {
		return true
	}
	for _, ext := range filePathExtensions {
		if strings.HasSuffix(s, ext) {
			return true
		}
	}
	return false
}
