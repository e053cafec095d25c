package pipeline

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	legacyTableCaption = regexp.MustCompile(`(?i)^Table(\*?)\s+\d+[:.]\s*(.*)$`)

	// New-format caption line following a table after one blank line:
	// {#tbl:id rotate=90} **Caption text.** Trailing prose allowed.
	newTableCaption = regexp.MustCompile(`^\{#([a-zA-Z0-9_:-]+)([^}]*)\}\s*(.+)$`)
	newCaptionShape = regexp.MustCompile(`^\{#[a-zA-Z0-9_:-]+[^}]*\}\s*\*\*.*\*\*`)
	rotateAttr      = regexp.MustCompile(`rotate=(\d+)`)

	boldSpan   = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicSpan = regexp.MustCompile(`\*([^*\s][^*]*[^*\s]|\w)\*`)

	textttSplit = regexp.MustCompile(`(\\texttt\{[^}]*\})`)

	// Double backticks wrapping a single-backtick span: `` `code` ``.
	nestedBacktickCell = "``\\s*`([^`]+)`\\s*``"
	nestedBacktickRe   = regexp.MustCompile(nestedBacktickCell)
)

// tableModel is the parsed form of one markdown table, used only to render
// its LaTeX environment.
type tableModel struct {
	headers  []string
	rows     [][]string
	caption  string
	id       string
	rotation int
	double   bool
}

// ConvertTables rewrites markdown pipe tables as LaTeX table environments.
// Backtick placeholders inside cells are resolved through store so the cell
// formatter can see literal code spans. Supplementary tables get a trailing
// \newpage.
func ConvertTables(content string, store *PlaceholderStore, supplementary bool) string {
	if store == nil {
		store = NewPlaceholderStore(backtickToken)
	}

	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if !isTableStart(lines, i) {
			out = append(out, line)
			continue
		}

		model := tableModel{}

		// Legacy caption on the line directly above: "Table 1: ..." or
		// "Table* 1: ..." for double-column width.
		if len(out) > 0 {
			if m := legacyTableCaption.FindStringSubmatch(strings.TrimSpace(out[len(out)-1])); m != nil {
				model.double = m[1] == "*"
				model.caption = strings.TrimSpace(m[2])
				out = out[:len(out)-1]
			}
		}

		model.headers = splitTableCells(lines[i])
		i += 2 // past header and separator

		for i < len(lines) && strings.TrimSpace(lines[i]) != "" {
			row := strings.TrimSpace(lines[i])
			if !isTableRow(row) {
				break
			}
			cells := splitTableCells(row)
			// Best-effort recovery: pad short rows, truncate long ones.
			for len(cells) < len(model.headers) {
				cells = append(cells, "")
			}
			model.rows = append(model.rows, cells[:len(model.headers)])
			i++
		}

		// New-format caption after one blank line takes precedence.
		if caption, id, rotation, ok := parseTableCaption(lines, i); ok {
			model.caption = caption
			model.id = id
			model.rotation = rotation
			i += 2
		}

		rendered := renderLatexTable(model, store, supplementary)
		out = append(out, strings.Split(rendered, "\n")...)
		if supplementary {
			out = append(out, "\\newpage")
		}
		i-- // loop increment compensates for the lookahead
	}

	return strings.Join(out, "\n")
}

// isTableStart reports whether lines[i] opens a table: a pipe-delimited line
// followed by a separator line containing pipes and dashes.
func isTableStart(lines []string, i int) bool {
	trimmed := strings.TrimSpace(lines[i])
	if !strings.HasPrefix(trimmed, "|") || !strings.HasSuffix(trimmed, "|") || len(trimmed) < 2 {
		return false
	}
	if i+1 >= len(lines) {
		return false
	}
	next := lines[i+1]
	return strings.Contains(next, "|") && strings.Contains(next, "-")
}

func isTableRow(line string) bool {
	return strings.HasPrefix(line, "|") && strings.HasSuffix(line, "|") && len(line) >= 2
}

// splitTableCells splits a pipe row into trimmed cell strings, dropping the
// empty fragments outside the outer pipes.
func splitTableCells(line string) []string {
	parts := strings.Split(strings.TrimSpace(line), "|")
	if len(parts) < 2 {
		return nil
	}
	cells := make([]string, 0, len(parts)-2)
	for _, cell := range parts[1 : len(parts)-1] {
		cells = append(cells, strings.TrimSpace(cell))
	}
	return cells
}

// parseTableCaption recognizes the new caption format one blank line after
// the table body: {#id [rotate=N]} **Caption**. Bold and italic markers in
// the caption are converted here because the whole table is placeholder-
// protected before the inline formatting pass runs.
func parseTableCaption(lines []string, i int) (caption, id string, rotation int, ok bool) {
	if i >= len(lines) || strings.TrimSpace(lines[i]) != "" {
		return "", "", 0, false
	}
	if i+1 >= len(lines) || !newCaptionShape.MatchString(strings.TrimSpace(lines[i+1])) {
		return "", "", 0, false
	}

	m := newTableCaption.FindStringSubmatch(strings.TrimSpace(lines[i+1]))
	if m == nil {
		return "", "", 0, false
	}

	id = m[1]
	if rm := rotateAttr.FindStringSubmatch(m[2]); rm != nil {
		rotation, _ = strconv.Atoi(rm[1])
	}
	caption = boldSpan.ReplaceAllString(m[3], `\textbf{$1}`)
	caption = italicSpan.ReplaceAllString(caption, `\textit{$1}`)
	return caption, id, rotation, true
}

// renderLatexTable builds the full LaTeX environment for one table.
func renderLatexTable(model tableModel, store *PlaceholderStore, supplementary bool) string {
	colSpec := "|" + strings.Repeat("l|", len(model.headers))
	literal := isMarkdownSyntaxTable(model.headers)

	env, position := tableEnvironment(model, supplementary)
	useRotatebox := model.rotation != 0 && !strings.HasPrefix(env, "sideways")

	var b strings.Builder
	b.WriteString("\\begin{" + env + "}" + position + "\n")
	b.WriteString("\\centering\n")
	if useRotatebox {
		b.WriteString("\\rotatebox{" + strconv.Itoa(model.rotation) + "}{%\n")
	}

	b.WriteString("\\begin{tabular}{" + colSpec + "}\n")
	b.WriteString("\\hline\n")

	headerCells := make([]string, len(model.headers))
	for i, h := range model.headers {
		headerCells[i] = formatTableCell(h, store, literal, true)
	}
	b.WriteString(strings.Join(headerCells, " & ") + " \\\\\n")
	b.WriteString("\\hline\n")

	for _, row := range model.rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = formatTableCell(cell, store, literal, false)
		}
		b.WriteString(strings.Join(cells, " & ") + " \\\\\n")
		b.WriteString("\\hline\n")
	}

	b.WriteString("\\end{tabular}\n")
	if useRotatebox {
		b.WriteString("}%\n")
	}

	if model.caption != "" {
		b.WriteString("\\raggedright\n")
		b.WriteString("\\caption{" + model.caption + "}\n")
		label := model.id
		if label == "" {
			label = "tab:comparison"
		}
		b.WriteString("\\label{" + label + "}\n")
	}

	b.WriteString("\\end{" + env + "}")
	return b.String()
}

// tableEnvironment picks the environment name and float position from the
// width/rotation/supplementary combination.
func tableEnvironment(model tableModel, supplementary bool) (env, position string) {
	star := ""
	if model.double {
		star = "*"
	}
	switch {
	case model.rotation != 0 && supplementary:
		return "sidewaystable" + star, "[ht]"
	case supplementary:
		return "stable" + star, "[ht]"
	case model.double:
		return "table*", "[!ht]"
	default:
		return "table", "[ht]"
	}
}

// isMarkdownSyntaxTable detects the documentation table whose cells must be
// displayed literally rather than interpreted as markdown. Recognized by a
// first header cell reading "markdown element" once formatting markers are
// stripped.
func isMarkdownSyntaxTable(headers []string) bool {
	if len(headers) == 0 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(headers[0]))
	first = boldSpan.ReplaceAllString(first, "$1")
	first = italicSpan.ReplaceAllString(first, "$1")
	return first == "markdown element"
}

// formatTableCell renders one cell. Literal-table data cells keep markdown
// syntax visible; everything else gets code spans, bold/italic, and escaping.
func formatTableCell(cell string, store *PlaceholderStore, literal, header bool) string {
	cell = store.Restore(cell)

	if literal && header {
		cell = boldSpan.ReplaceAllString(cell, `\textbf{$1}`)
		return italicSpan.ReplaceAllString(cell, `\textit{$1}`)
	}
	if literal {
		return formatLiteralCell(cell)
	}
	return formatRegularCell(cell)
}

// formatLiteralCell keeps markdown syntax displayed as-is: backtick spans
// become \texttt, everything else is escaped and wrapped in \texttt wholesale.
func formatLiteralCell(cell string) string {
	cell = singleBacktickSpan.ReplaceAllStringFunc(cell, func(span string) string {
		inner := strings.Trim(span, "`")
		return "\\texttt{" + escapeLatexSpecialChars(inner) + "}"
	})
	if !strings.Contains(cell, "\\texttt{") {
		return "\\texttt{" + escapeLatexSpecialChars(cell) + "}"
	}
	return cell
}

// formatRegularCell applies code span conversion, bold/italic outside texttt,
// and special-character escaping outside texttt.
func formatRegularCell(cell string) string {
	texttt := func(inner string) string {
		inner = escapeLatexSpecialChars(inner)
		inner = strings.ReplaceAll(inner, "\n", " ")
		inner = strings.Join(strings.Fields(inner), " ")
		return "\\texttt{" + inner + "}"
	}

	cell = nestedBacktickRe.ReplaceAllString(cell, `\texttt{$1}`)
	cell = doubleBacktickSpan.ReplaceAllStringFunc(cell, func(span string) string {
		return texttt(strings.Trim(span, "`"))
	})
	cell = singleBacktickSpan.ReplaceAllStringFunc(cell, func(span string) string {
		return texttt(strings.Trim(span, "`"))
	})

	cell = replaceOutsideTexttt(cell, func(segment string) string {
		segment = boldSpan.ReplaceAllString(segment, `\textbf{$1}`)
		return italicSpan.ReplaceAllString(segment, `\textit{$1}`)
	})

	return replaceOutsideTexttt(cell, escapeTableChars)
}

// replaceOutsideTexttt applies fn to every segment of text not part of a
// complete \texttt{...} run.
func replaceOutsideTexttt(text string, fn func(string) string) string {
	parts := textttSplit.Split(text, -1)
	matches := textttSplit.FindAllString(text, -1)

	var b strings.Builder
	for i, part := range parts {
		b.WriteString(fn(part))
		if i < len(matches) {
			b.WriteString(matches[i])
		}
	}
	return b.String()
}

// escapeLatexSpecialChars escapes everything that breaks LaTeX inside
// \texttt, including brackets and the citation sigil.
func escapeLatexSpecialChars(text string) string {
	replacer := strings.NewReplacer(
		"\\", "\\textbackslash{}",
		"{", "\\{",
		"}", "\\}",
		"&", "\\&",
		"%", "\\%",
		"$", "\\$",
		"#", "\\#",
		"^", "\\textasciicircum{}",
		"~", "\\textasciitilde{}",
		"_", "\\_",
		"[", "\\lbrack{}",
		"]", "\\rbrack{}",
		"@", "\\@",
	)
	return replacer.Replace(text)
}

// escapeTableChars escapes the characters LaTeX treats specially in prose
// cells; braces are left alone because formatted cells already contain
// \textbf{...} runs.
func escapeTableChars(text string) string {
	replacer := strings.NewReplacer(
		"&", "\\&",
		"%", "\\%",
		"$", "\\$",
		"#", "\\#",
		"^", "\\textasciicircum{}",
		"~", "\\textasciitilde{}",
		"_", "\\_",
	)
	return replacer.Replace(text)
}
