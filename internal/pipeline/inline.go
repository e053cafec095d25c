package pipeline

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	markdownLink = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	bareURL      = regexp.MustCompile(`https?://[^\s}>\]]+`)
	latexURLCmd  = regexp.MustCompile(`\\url\{[^}]+\}`)
	latexHrefCmd = regexp.MustCompile(`\\href\{[^}]+\}\{[^}]+\}`)
)

// ConvertCodeSpans rewrites backtick spans as \texttt, double backticks first
// so nested spans survive. Underscores inside code become the sentinel and are
// resolved to \_ by the escaping pass, which keeps the file-path escaper from
// touching them a second time.
func ConvertCodeSpans(content string) string {
	texttt := func(span string) string {
		inner := strings.Trim(span, "`")
		return "\\texttt{" + strings.ReplaceAll(inner, "_", underscoreSentinel) + "}"
	}
	content = doubleBacktickSpan.ReplaceAllStringFunc(content, texttt)
	return singleBacktickSpan.ReplaceAllStringFunc(content, texttt)
}

// ApplyBoldOutsideTexttt rewrites **x** as \textbf{x} everywhere except inside
// complete \texttt{...} runs, so literal markdown inside code spans stays
// literal.
func ApplyBoldOutsideTexttt(content string) string {
	return replaceOutsideTexttt(content, func(segment string) string {
		return boldSpan.ReplaceAllString(segment, `\textbf{$1}`)
	})
}

// ApplyItalicOutsideTexttt rewrites *x* as \textit{x} outside \texttt runs.
// Must run after the bold pass so double asterisks are already consumed.
func ApplyItalicOutsideTexttt(content string) string {
	return replaceOutsideTexttt(content, func(segment string) string {
		return italicSpan.ReplaceAllString(segment, `\textit{$1}`)
	})
}

// ConvertLinks rewrites markdown links and bare URLs as \href and \url.
// A link whose text equals its URL collapses to \url. Already-emitted \url
// and \href commands are shielded so the bare-URL pass cannot nest them.
func ConvertLinks(content string) string {
	content = markdownLink.ReplaceAllStringFunc(content, func(m string) string {
		g := markdownLink.FindStringSubmatch(m)
		text, url := g[1], g[2]
		if strings.TrimSpace(text) == strings.TrimSpace(url) {
			return "\\url{" + escapeURL(url) + "}"
		}
		return "\\href{" + escapeURL(url) + "}{" + text + "}"
	})

	var shielded []string
	shield := func(m string) string {
		shielded = append(shielded, m)
		return urlCommandPlaceholder(len(shielded) - 1)
	}
	content = latexURLCmd.ReplaceAllStringFunc(content, shield)
	content = latexHrefCmd.ReplaceAllStringFunc(content, shield)

	content = bareURL.ReplaceAllStringFunc(content, func(url string) string {
		return "\\url{" + escapeURL(url) + "}"
	})

	for i, cmd := range shielded {
		content = strings.Replace(content, urlCommandPlaceholder(i), cmd, 1)
	}
	return content
}

func urlCommandPlaceholder(i int) string {
	return "XXPROTECTEDURLCMDXX" + strconv.Itoa(i) + "XXPROTECTEDURLCMDXX"
}

// escapeURL escapes the characters that break \url and \href arguments.
func escapeURL(url string) string {
	url = strings.ReplaceAll(url, "#", "\\#")
	return strings.ReplaceAll(url, "%", "\\%")
}
