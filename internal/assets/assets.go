package assets

// defaultLoader is the package-level embedded loader.
var defaultLoader = NewEmbeddedLoader()

// LoadTemplate loads a LaTeX template by name using the default embedded
// loader. The name should not include the .tex extension or path components.
// Returns ErrTemplateNotFound if the template does not exist.
// Returns ErrInvalidAssetName if the name contains path separators or traversal.
func LoadTemplate(name string) (string, error) {
	return defaultLoader.LoadTemplate(name)
}

// LoadStyle loads a CSS stylesheet by name using the default embedded loader.
// The name should not include the .css extension or path components.
// Returns ErrStyleNotFound if the style does not exist.
// Returns ErrInvalidAssetName if the name contains path separators or traversal.
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}
