package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemLoader loads assets from a directory on the filesystem, for users
// who maintain their own template sets outside the binary.
// Implements AssetLoader interface.
type FilesystemLoader struct {
	basePath string
}

// NewFilesystemLoader creates a FilesystemLoader for the given base path.
// Returns ErrInvalidBasePath if the path is not a valid, readable directory.
func NewFilesystemLoader(basePath string) (*FilesystemLoader, error) {
	if basePath == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}

	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}

	// Resolve symlinks so containment checks compare real paths.
	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}

	info, err := os.Stat(resolved)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %q is not a directory", ErrInvalidBasePath, basePath)
	}

	return &FilesystemLoader{basePath: resolved}, nil
}

// LoadTemplate loads a LaTeX template file by name from the base directory.
func (f *FilesystemLoader) LoadTemplate(name string) (string, error) {
	return f.readAsset(name+".tex", ErrTemplateNotFound)
}

// LoadStyle loads a CSS stylesheet by name from the base directory.
func (f *FilesystemLoader) LoadStyle(name string) (string, error) {
	return f.readAsset(name+".css", ErrStyleNotFound)
}

func (f *FilesystemLoader) readAsset(filename string, notFound error) (string, error) {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	path := filepath.Join(f.basePath, filename)
	if !strings.HasPrefix(path, f.basePath+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrPathTraversal, filename)
	}

	content, err := os.ReadFile(path) // #nosec G304 -- path validated against base
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %q", notFound, name)
		}
		return "", fmt.Errorf("reading asset %q: %w", name, err)
	}
	return string(content), nil
}

// Compile-time interface check.
var _ AssetLoader = (*FilesystemLoader)(nil)
