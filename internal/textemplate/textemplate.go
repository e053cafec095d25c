// Package textemplate fills <PY-RPL:*> placeholders in LaTeX templates.
//
// The marker spelling is kept for compatibility with existing manuscript
// templates. Substitution is literal: values are finished LaTeX and must not
// be re-escaped. Unknown placeholders stay in place so a template carrying
// markers this tool does not know keeps working with whatever fills them
// later.
package textemplate

import (
	"regexp"
	"strings"
)

// Placeholder names the template filling understands. The CLI fills all of
// them; library callers may fill any subset.
const (
	UseLineNumbers          = "USE-LINE-NUMBERS"
	LeadAuthor              = "LEAD-AUTHOR"
	LongTitle               = "LONG-TITLE-STR"
	ShortTitle              = "SHORT-TITLE-STR"
	AuthorsAndAffiliations  = "AUTHORS-AND-AFFILIATIONS"
	CorrespondingAuthors    = "CORRESPONDING-AUTHORS"
	ExtendedAuthorInfo      = "EXTENDED-AUTHOR-INFO"
	Keywords                = "KEYWORDS"
	Bibliography            = "BIBLIOGRAPHY"
	Abstract                = "ABSTRACT"
	MainContent             = "MAIN-CONTENT"
	Methods                 = "METHODS"
	Results                 = "RESULTS"
	Discussion              = "DISCUSSION"
	Conclusion              = "CONCLUSION"
	DataAvailability        = "DATA-AVAILABILITY"
	CodeAvailability        = "CODE-AVAILABILITY"
	AuthorContributions     = "AUTHOR-CONTRIBUTIONS"
	Acknowledgements        = "ACKNOWLEDGEMENTS"
	Funding                 = "FUNDING"
	DocDate                 = "DOC-DATE"
)

const (
	markerPrefix = "<PY-RPL:"
	markerSuffix = ">"
)

var placeholderPattern = regexp.MustCompile(`<PY-RPL:([A-Z0-9-]+)>`)

// Marker returns the full template marker for a placeholder name.
func Marker(name string) string {
	return markerPrefix + name + markerSuffix
}

// Fill substitutes the given placeholder values into template. Placeholders
// not present in values are left intact.
func Fill(template string, values map[string]string) string {
	for name, value := range values {
		template = strings.ReplaceAll(template, Marker(name), value)
	}
	return template
}

// ListPlaceholders reports the placeholder names a template expects, in order
// of first appearance.
func ListPlaceholders(template string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(template, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}
