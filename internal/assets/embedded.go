package assets

import (
	"embed"
	"fmt"
)

//go:embed templates/*
var templates embed.FS

//go:embed styles/*
var styles embed.FS

// DefaultTemplate is the name of the embedded article template.
const DefaultTemplate = "article"

// DefaultStyle is the name of the embedded preview stylesheet.
const DefaultStyle = "preview"

// EmbeddedLoader loads assets from the embedded filesystem.
// Implements AssetLoader interface.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadTemplate loads a LaTeX template from embedded assets by name.
// The name should not include the .tex extension.
func (e *EmbeddedLoader) LoadTemplate(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	content, err := templates.ReadFile("templates/" + name + ".tex")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}
	return string(content), nil
}

// LoadStyle loads a CSS stylesheet from embedded assets by name.
// The name should not include the .css extension.
func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	content, err := styles.ReadFile("styles/" + name + ".css")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	}
	return string(content), nil
}

// Compile-time interface check.
var _ AssetLoader = (*EmbeddedLoader)(nil)
