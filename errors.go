package md2tex

import "errors"

// Sentinel errors for library operations.
var (
	// ErrEmptyMarkdown indicates the input had no markdown content.
	ErrEmptyMarkdown = errors.New("markdown content cannot be empty")

	// ErrNoSections indicates a manuscript yielded no convertible sections.
	ErrNoSections = errors.New("no sections found in manuscript")

	// ErrInvalidMetadata indicates the manuscript config or front matter
	// could not be parsed.
	ErrInvalidMetadata = errors.New("invalid manuscript metadata")

	// ErrTemplateLoad indicates the LaTeX template could not be loaded.
	ErrTemplateLoad = errors.New("cannot load LaTeX template")

	// ErrInvalidDate indicates the document date could not be resolved.
	ErrInvalidDate = errors.New("invalid document date")
)
