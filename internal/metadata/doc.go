// Package metadata turns manuscript configuration (00_CONFIG.yml plus any
// YAML front matter) into the LaTeX preamble blocks the article template
// expects: author and affiliation lists, corresponding-author contact lines,
// keywords, bibliography, titles, and the document date.
//
// Generators return finished LaTeX strings. They never escape aggressively:
// the template owns the surrounding document, and over-escaping here corrupts
// commands the generators themselves emit.
package metadata
