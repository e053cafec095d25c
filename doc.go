// Package md2tex converts scientific-manuscript Markdown into
// publication-ready LaTeX source.
//
// The conversion engine understands the manuscript dialect used by
// LaTeX-based article workflows: citations (@key, [@k1;@k2]),
// cross-references (@fig:, @eq:, @tbl:, {@snote:}), figure and table
// attribute blocks, supplementary-note headers, and YAML front matter. The
// output is LaTeX aimed at an article template with <PY-RPL:*> placeholder
// markers; Render assembles the full .tex document from a manuscript, its
// metadata, and a template.
//
// Basic usage:
//
//	svc := md2tex.New()
//	out, err := svc.Convert(ctx, md2tex.Input{Markdown: body})
//
// Full document assembly:
//
//	tex, err := svc.Render(ctx, md2tex.RenderInput{
//		Markdown:   manuscript,
//		ConfigYAML: configBytes,
//	})
//
// Conversion is synchronous and stateless per call; a single Service is safe
// for concurrent use.
package md2tex
