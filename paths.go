package nexttag

import (
	"os"
	"path/filepath"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"
)

// ValidateFilePath resolves path relative to root, rejecting traversal
// outside it, and requires the result to be an existing regular file.
// File arguments from the CLI pass through here before being opened.
func ValidateFilePath(path, root string) (string, error) {
	if path == "" {
		return "", &ValidationError{Field: "file_path", Value: path, Reason: "file path cannot be empty"}
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", &ValidationError{Field: "base_path", Value: root, Reason: err.Error()}
	}

	rel := path
	if filepath.IsAbs(path) {
		rel, err = filepath.Rel(absRoot, path)
		if err != nil || strings.HasPrefix(rel, "..") {
			return "", &ValidationError{Field: "file_path", Value: path, Reason: "path outside allowed directory: " + root}
		}
	}

	resolved, err := securejoin.SecureJoin(absRoot, rel)
	if err != nil {
		return "", &ValidationError{Field: "file_path", Value: path, Reason: err.Error()}
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", &ValidationError{Field: "file_path", Value: path, Reason: "file does not exist"}
	}
	if !info.Mode().IsRegular() {
		return "", &ValidationError{Field: "file_path", Value: path, Reason: "path is not a file"}
	}
	return resolved, nil
}

// ValidateDirPath normalizes a directory argument and requires it to exist.
func ValidateDirPath(path string) (string, error) {
	if path == "" {
		return "", &ValidationError{Field: "dir_path", Value: path, Reason: "directory path cannot be empty"}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", &ValidationError{Field: "dir_path", Value: path, Reason: err.Error()}
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", &ValidationError{Field: "dir_path", Value: path, Reason: "directory does not exist"}
	}
	if !info.IsDir() {
		return "", &ValidationError{Field: "dir_path", Value: path, Reason: "path is not a directory"}
	}
	return abs, nil
}
