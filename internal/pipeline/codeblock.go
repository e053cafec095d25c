package pipeline

import (
	"regexp"
	"strings"
)

// scanState tracks where the code block scanner is inside a document.
type scanState int

const (
	scanText     scanState = iota // ordinary prose
	scanFence                     // inside a ``` fenced block
	scanLatexEnv                  // inside a literal verbatim/minted environment
)

// mintedLanguages is the language set rendered with syntax highlighting.
// Anything else falls back to a plain verbatim environment.
var mintedLanguages = map[string]bool{
	"yaml":       true,
	"markdown":   true,
	"python":     true,
	"bash":       true,
	"javascript": true,
	"typescript": true,
	"latex":      true,
	"json":       true,
	"xml":        true,
	"html":       true,
	"css":        true,
	"bibtex":     true,
}

var (
	fenceDelimiter = regexp.MustCompile("^```[ \t]*([A-Za-z0-9+_-]*)")
	indentedLine   = regexp.MustCompile(`^(    |\t)`)
	latexEnvBegin  = regexp.MustCompile(`^\\begin\{(verbatim|minted)\}`)
	latexEnvEnd    = regexp.MustCompile(`^\\end\{(verbatim|minted)\}`)
)

// ConvertCodeBlocks rewrites fenced and 4-space-indented code blocks as LaTeX
// minted or verbatim environments. Runs before any protection so code
// interiors are never escaped. An unterminated fence is put back as plain
// text rather than failing the conversion.
func ConvertCodeBlocks(content string) string {
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))

	state := scanText
	var fenceLang string
	var fenceLine string
	var block []string

	emitFenced := func() {
		env := "verbatim"
		open := "\\begin{verbatim}"
		if mintedLanguages[fenceLang] {
			env = "minted"
			open = "\\begin{minted}{" + fenceLang + "}"
		}
		out = append(out, open)
		out = append(out, block...)
		out = append(out, "\\end{"+env+"}")
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		switch state {
		case scanFence:
			if strings.HasPrefix(line, "```") {
				emitFenced()
				state = scanText
				block = nil
				continue
			}
			block = append(block, line)

		case scanLatexEnv:
			out = append(out, line)
			if latexEnvEnd.MatchString(line) {
				state = scanText
			}

		default:
			if m := fenceDelimiter.FindStringSubmatch(line); m != nil {
				state = scanFence
				fenceLang = strings.ToLower(m[1])
				fenceLine = line
				block = nil
				continue
			}
			if latexEnvBegin.MatchString(line) {
				state = scanLatexEnv
				out = append(out, line)
				continue
			}
			if indentedLine.MatchString(line) {
				// Collect the whole indented run, strip the indent prefix.
				var indented []string
				j := i
				for j < len(lines) && indentedLine.MatchString(lines[j]) {
					indented = append(indented, indentedLine.ReplaceAllString(lines[j], ""))
					j++
				}
				out = append(out, "\\begin{verbatim}")
				out = append(out, indented...)
				out = append(out, "\\end{verbatim}")
				i = j - 1
				continue
			}
			out = append(out, line)
		}
	}

	// Unterminated fence: restore the opening line and its collected body.
	if state == scanFence {
		out = append(out, fenceLine)
		out = append(out, block...)
	}

	return strings.Join(out, "\n")
}
