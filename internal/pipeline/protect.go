package pipeline

import (
	"fmt"
	"regexp"
	"strings"
)

// Placeholder token stems, one per protection kind. The spelling is wire
// format: the citation checker recognizes these tokens in intermediate
// content, so it must not change.
const (
	verbatimToken      = "XXPROTECTEDVERBATIMXX"
	backtickToken      = "XXPROTECTEDBACKTICKXX"
	markdownTableToken = "XXPROTECTEDMARKDOWNTABLEXX"
	latexTableToken    = "XXPROTECTEDTABLEXX"
)

// Precompiled protection patterns.
var (
	doubleBacktickSpan = regexp.MustCompile("``[^`]+``")
	singleBacktickSpan = regexp.MustCompile("`[^`]+`")

	// A raw markdown table block: one or more consecutive lines starting and
	// ending with a pipe, trailing whitespace absorbed.
	markdownTableBlock = regexp.MustCompile(`(?m)(?:^[ \t]*\|.*\|[ \t]*$\s*)+`)

	verbatimEnvironment = regexp.MustCompile(`(?s)\\begin\{verbatim\}.*?\\end\{verbatim\}`)
	mintedEnvironment   = regexp.MustCompile(`(?s)\\begin\{minted\}.*?\\end\{minted\}`)

	// Finished LaTeX table environments, starred variants included. Order
	// matters only for readability; the names cannot prefix-collide.
	latexTableEnvironments = []*regexp.Regexp{
		regexp.MustCompile(`(?s)\\begin\{table\*?\}.*?\\end\{table\*?\}`),
		regexp.MustCompile(`(?s)\\begin\{sidewaystable\*?\}.*?\\end\{sidewaystable\*?\}`),
		regexp.MustCompile(`(?s)\\begin\{stable\*?\}.*?\\end\{stable\*?\}`),
	}
)

// PlaceholderStore maps placeholder tokens to the original text they replace,
// preserving insertion order. Placeholders are unique within one store via a
// monotonic counter; tokens from different kinds never collide because each
// kind has its own stem.
type PlaceholderStore struct {
	token string
	keys  []string
	data  map[string]string
}

// NewPlaceholderStore creates an empty store issuing tokens built from stem,
// e.g. "XXPROTECTEDBACKTICKXX0XXPROTECTEDBACKTICKXX".
func NewPlaceholderStore(stem string) *PlaceholderStore {
	return &PlaceholderStore{token: stem, data: make(map[string]string)}
}

// Protect stores original and returns the placeholder standing in for it.
func (s *PlaceholderStore) Protect(original string) string {
	placeholder := fmt.Sprintf("%s%d%s", s.token, len(s.keys), s.token)
	s.keys = append(s.keys, placeholder)
	s.data[placeholder] = original
	return placeholder
}

// Restore substitutes every known placeholder back into content in insertion
// order. Placeholders absent from content are skipped; unknown placeholder
// text in content is left literal (degrade, do not fail).
func (s *PlaceholderStore) Restore(content string) string {
	for _, placeholder := range s.keys {
		content = strings.ReplaceAll(content, placeholder, s.data[placeholder])
	}
	return content
}

// Reprotect substitutes placeholders back in for any stored original still
// present in content. Used after table conversion to re-shield backtick spans
// the cell formatter did not consume.
func (s *PlaceholderStore) Reprotect(content string) string {
	for _, placeholder := range s.keys {
		original := s.data[placeholder]
		if strings.Contains(content, original) {
			content = strings.ReplaceAll(content, original, placeholder)
		}
	}
	return content
}

// Len reports how many placeholders the store has issued.
func (s *PlaceholderStore) Len() int { return len(s.keys) }

// Lookup returns the original text behind placeholder.
func (s *PlaceholderStore) Lookup(placeholder string) (string, bool) {
	original, ok := s.data[placeholder]
	return original, ok
}

// Protection carries the per-conversion placeholder stores, one per kind.
// Threading it through the stages instead of sharing package state keeps
// concurrent conversions fully independent.
type Protection struct {
	Verbatim       *PlaceholderStore
	Backticks      *PlaceholderStore
	MarkdownTables *PlaceholderStore
	LatexTables    *PlaceholderStore
}

// NewProtection creates empty stores for all protection kinds.
func NewProtection() *Protection {
	return &Protection{
		Verbatim:       NewPlaceholderStore(verbatimToken),
		Backticks:      NewPlaceholderStore(backtickToken),
		MarkdownTables: NewPlaceholderStore(markdownTableToken),
		LatexTables:    NewPlaceholderStore(latexTableToken),
	}
}

// ProtectCodeEnvironments replaces finished verbatim and minted environments
// with placeholders so no later pass touches their interior.
func ProtectCodeEnvironments(content string, store *PlaceholderStore) string {
	content = verbatimEnvironment.ReplaceAllStringFunc(content, store.Protect)
	return mintedEnvironment.ReplaceAllStringFunc(content, store.Protect)
}

// ProtectBacktickSpans replaces inline code spans with placeholders, double
// backticks before single so ``a `b` c`` is not split apart.
func ProtectBacktickSpans(content string, store *PlaceholderStore) string {
	content = doubleBacktickSpan.ReplaceAllStringFunc(content, store.Protect)
	return singleBacktickSpan.ReplaceAllStringFunc(content, store.Protect)
}

// ProtectMarkdownTables replaces whole raw pipe-table blocks with placeholders
// so citation processing cannot fire inside cells before the table converter
// runs.
func ProtectMarkdownTables(content string, store *PlaceholderStore) string {
	return markdownTableBlock.ReplaceAllStringFunc(content, store.Protect)
}

// ProtectLatexTables replaces finished LaTeX table environments with
// placeholders, shielding them from citation, formatting, and escaping passes.
func ProtectLatexTables(content string, store *PlaceholderStore) string {
	for _, env := range latexTableEnvironments {
		content = env.ReplaceAllStringFunc(content, store.Protect)
	}
	return content
}

// RestoreBacktickSpansInTableRows restores backtick placeholders only on
// lines shaped like table rows. The cell formatter needs literal backtick
// text to decide formatting; backticks everywhere else stay protected.
func RestoreBacktickSpansInTableRows(content string, store *PlaceholderStore) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.Contains(line, "|") && strings.HasPrefix(trimmed, "|") && strings.HasSuffix(trimmed, "|") {
			lines[i] = store.Restore(line)
		}
	}
	return strings.Join(lines, "\n")
}
