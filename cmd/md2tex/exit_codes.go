package main

import (
	"errors"
	"os"

	md2tex "github.com/alnah/go-md2tex"
	"github.com/alnah/go-md2tex/internal/assets"
	"github.com/alnah/go-md2tex/internal/config"
)

// Exit codes for md2tex CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful run
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadManuscript) ||
		errors.Is(err, ErrWriteLatex) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, md2tex.ErrEmptyMarkdown) ||
		errors.Is(err, md2tex.ErrNoSections) ||
		errors.Is(err, md2tex.ErrInvalidMetadata) ||
		errors.Is(err, md2tex.ErrTemplateLoad) ||
		errors.Is(err, md2tex.ErrInvalidDate) ||
		errors.Is(err, assets.ErrTemplateNotFound) ||
		errors.Is(err, assets.ErrStyleNotFound) ||
		errors.Is(err, assets.ErrInvalidAssetName) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidExtension) {
		return ExitUsage
	}

	return ExitGeneral
}
