package md2tex

// Input is one piece of manuscript Markdown for Convert.
type Input struct {
	// Markdown is the content to convert. Required.
	Markdown string

	// Supplementary marks the content as supplementary material: floats get
	// trailing \newpage and tables use the supplementary environments.
	Supplementary bool
}

// Output is the result of a Convert call.
type Output struct {
	// Latex is the converted LaTeX source.
	Latex string
}

// SectionMap maps canonical section keys (abstract, main, methods, ...) to
// converted LaTeX content. Keys follow the manuscript section mapping rules;
// unrecognized section titles appear under their slugified title.
type SectionMap map[string]string

// RenderInput describes a full document assembly for Render.
type RenderInput struct {
	// Markdown is the manuscript body, YAML front matter allowed. Required.
	Markdown string

	// ConfigYAML is the manuscript metadata (typically 00_CONFIG.yml).
	// Optional; front matter merges over it.
	ConfigYAML []byte

	// Template is the LaTeX template text. Empty selects the service
	// default (the embedded article template unless WithTemplate was used).
	Template string

	// Date overrides the configured document date before resolution.
	// Supports the same "auto" / "auto:FORMAT" syntax as the config field.
	Date string
}
