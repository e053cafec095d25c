package assets

import "errors"

// Sentinel errors for asset operations.
var (
	// ErrTemplateNotFound indicates the requested LaTeX template does not exist.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrStyleNotFound indicates the requested stylesheet does not exist.
	ErrStyleNotFound = errors.New("style not found")

	// ErrInvalidAssetName indicates the asset name contains invalid characters
	// such as path separators or traversal sequences.
	ErrInvalidAssetName = errors.New("invalid asset name")

	// ErrInvalidBasePath indicates the configured base path is not a valid directory.
	ErrInvalidBasePath = errors.New("invalid base path")

	// ErrPathTraversal indicates an attempt to access files outside the base path.
	ErrPathTraversal = errors.New("path traversal detected")
)
