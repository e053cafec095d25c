package pipeline

import "regexp"

var (
	sectionHeader       = regexp.MustCompile(`(?m)^## (.+)$`)
	subsectionHeader    = regexp.MustCompile(`(?m)^### (.+)$`)
	subsubsectionHeader = regexp.MustCompile(`(?m)^#### (.+)$`)
)

// ConvertHeaders rewrites ##/###/#### headers as LaTeX sectioning commands.
// Level-one # headers are manuscript titles handled by the metadata layer,
// not the body pipeline.
func ConvertHeaders(content string) string {
	content = sectionHeader.ReplaceAllString(content, `\section{$1}`)
	content = subsectionHeader.ReplaceAllString(content, `\subsection{$1}`)
	return subsubsectionHeader.ReplaceAllString(content, `\subsubsection{$1}`)
}
