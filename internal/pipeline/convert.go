package pipeline

import "context"

// stage is one named step of the conversion. Names exist for the ledger a
// diagnostic might want; execution is a plain ordered walk.
type stage struct {
	name string
	run  func(content string, p *Protection, supplementary bool) string
}

// plain lifts a content-only transformation into a stage.
func plain(name string, fn func(string) string) stage {
	return stage{name, func(content string, _ *Protection, _ bool) string {
		return fn(content)
	}}
}

// stages is the fixed conversion order. It is load-bearing end to end:
// protection before anything that must not see code interiors, tables before
// figures so pipe rows cannot be misread, references before citations so the
// shared @ sigil resolves unambiguously, restoration last.
var stages = []stage{
	plain("code-blocks", ConvertCodeBlocks),
	{"protect-code-environments", func(c string, p *Protection, _ bool) string {
		return ProtectCodeEnvironments(c, p.Verbatim)
	}},
	{"protect-backtick-spans", func(c string, p *Protection, _ bool) string {
		return ProtectBacktickSpans(c, p.Backticks)
	}},
	{"protect-markdown-tables", func(c string, p *Protection, _ bool) string {
		return ProtectMarkdownTables(c, p.MarkdownTables)
	}},
	plain("html-comments", ConvertHTMLComments),
	plain("html-tags", ConvertHTMLTags),
	plain("lists", ConvertLists),
	{"tables", convertTablesStage},
	{"figures", func(c string, _ *Protection, supp bool) string {
		return ConvertFigures(c, supp)
	}},
	plain("figure-references", ConvertFigureReferences),
	plain("equation-references", ConvertEquationReferences),
	plain("table-references", ConvertTableReferences),
	plain("headers", ConvertHeaders),
	plain("supplementary-notes", ConvertSupplementaryNotes),
	plain("supplementary-note-references", ConvertSupplementaryNoteReferences),
	plain("citations", ConvertCitations),
	{"restore-backtick-spans", func(c string, p *Protection, _ bool) string {
		return p.Backticks.Restore(c)
	}},
	plain("code-spans", ConvertCodeSpans),
	plain("bold", ApplyBoldOutsideTexttt),
	plain("italic", ApplyItalicOutsideTexttt),
	plain("links", ConvertLinks),
	plain("escape-special-characters", EscapeSpecialCharacters),
	{"restore-latex-tables", func(c string, p *Protection, _ bool) string {
		return p.LatexTables.Restore(c)
	}},
	{"restore-code-environments", func(c string, p *Protection, _ bool) string {
		return p.Verbatim.Restore(c)
	}},
}

// convertTablesStage resolves whole-table placeholders back to raw pipe
// tables, exposes backtick text inside rows so the cell formatter can see it,
// converts, then shields the finished LaTeX environments and any backtick
// span the formatter did not consume.
func convertTablesStage(content string, p *Protection, supplementary bool) string {
	content = p.MarkdownTables.Restore(content)
	content = RestoreBacktickSpansInTableRows(content, p.Backticks)
	content = ConvertTables(content, p.Backticks, supplementary)
	content = ProtectLatexTables(content, p.LatexTables)
	return p.Backticks.Reprotect(content)
}

// Convert runs the full markdown-to-LaTeX pipeline over one section of
// content. Supplementary sections get trailing \newpage after floats and the
// supplementary table environments. Each call carries its own Protection, so
// conversions are independent and safe to run concurrently.
func Convert(content string, supplementary bool) string {
	p := NewProtection()
	for _, s := range stages {
		content = s.run(content, p, supplementary)
	}
	return content
}

// ConvertContext is Convert with a cancellation fast path between stages.
func ConvertContext(ctx context.Context, content string, supplementary bool) (string, error) {
	p := NewProtection()
	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		content = s.run(content, p, supplementary)
	}
	return content, nil
}

// StageNames lists the pipeline stages in execution order.
func StageNames() []string {
	names := make([]string, len(stages))
	for i, s := range stages {
		names[i] = s.name
	}
	return names
}
