package assets

// AssetLoader defines the contract for loading LaTeX templates and preview
// stylesheets. Implementations may load from embedded assets or a directory.
type AssetLoader interface {
	// LoadTemplate loads a LaTeX template by name (without .tex extension).
	// Returns ErrTemplateNotFound if the template doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadTemplate(name string) (string, error)

	// LoadStyle loads a CSS stylesheet by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadStyle(name string) (string, error)
}
