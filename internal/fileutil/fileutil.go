// Package fileutil provides file and path utility functions.
package fileutil

import (
	"os"
	"strings"
)

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirExists returns true if the path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "article" -> false (name)
//   - "./custom.tex" -> true (relative path)
//   - "../shared/template.tex" -> true (parent path)
//   - "/absolute/path.tex" -> true (absolute)
//   - "C:\windows\path.tex" -> true (Windows)
//   - "my-template" -> false (hyphenated name)
//   - "sub/dir" -> true (contains separator)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}
