package pipeline

import (
	"regexp"
	"strings"
)

var (
	htmlComment    = regexp.MustCompile(`(?s)<!--(.*?)-->`)
	htmlLineBreak  = regexp.MustCompile(`(?i)<br\s*/?>`)
	htmlSuperTag   = regexp.MustCompile(`(?is)<sup>(.*?)</sup>`)
	htmlSubTag     = regexp.MustCompile(`(?is)<sub>(.*?)</sub>`)
	htmlBoldTag    = regexp.MustCompile(`(?is)<b>(.*?)</b>`)
	htmlItalicTag  = regexp.MustCompile(`(?is)<i>(.*?)</i>`)
)

// ConvertHTMLComments rewrites HTML comments as LaTeX comment lines, one
// %-prefixed line per source line with surrounding whitespace trimmed.
func ConvertHTMLComments(content string) string {
	return htmlComment.ReplaceAllStringFunc(content, func(m string) string {
		inner := htmlComment.FindStringSubmatch(m)[1]
		lines := strings.Split(strings.TrimSpace(inner), "\n")
		for i, line := range lines {
			lines[i] = "% " + strings.TrimSpace(line)
		}
		return strings.Join(lines, "\n")
	})
}

// ConvertHTMLTags rewrites the small set of inline HTML tags manuscripts use
// as their LaTeX equivalents.
func ConvertHTMLTags(content string) string {
	content = htmlLineBreak.ReplaceAllString(content, `\\`)
	content = htmlSuperTag.ReplaceAllString(content, `\textsuperscript{$1}`)
	content = htmlSubTag.ReplaceAllString(content, `\textsubscript{$1}`)
	content = htmlBoldTag.ReplaceAllString(content, `\textbf{$1}`)
	return htmlItalicTag.ReplaceAllString(content, `\textit{$1}`)
}
