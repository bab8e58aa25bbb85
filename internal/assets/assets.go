// Package assets locates files shipped next to the binary and reports load failures.
package assets

import (
	"fmt"
	"os"
	"path/filepath"
)

// searchRoots are tried in order so assets are found whether run from the repo root or cmd/playground.
var searchRoots = []string{
	".",
	"../..",
}

// ResourceLoadError reports a texture or audio file that was missing or could not be decoded.
// Callers log it as a warning and continue with a default.
type ResourceLoadError struct {
	Kind string // "texture", "audio", ...
	Path string
	Err  error
}

func (e *ResourceLoadError) Error() string {
	return fmt.Sprintf("load %s %q: %v", e.Kind, e.Path, e.Err)
}

func (e *ResourceLoadError) Unwrap() error { return e.Err }

// Find resolves a relative asset path against the search roots. Absolute paths are only checked.
func Find(kind, path string) (string, error) {
	if filepath.IsAbs(path) {
		if _, err := os.Stat(path); err != nil {
			return "", &ResourceLoadError{Kind: kind, Path: path, Err: err}
		}
		return path, nil
	}
	var firstErr error
	for _, root := range searchRoots {
		p := filepath.Clean(filepath.Join(root, path))
		_, err := os.Stat(p)
		if err == nil {
			return p, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return "", &ResourceLoadError{Kind: kind, Path: path, Err: firstErr}
}

// FindAll resolves every path; the first failure is returned.
func FindAll(kind string, paths []string) ([]string, error) {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		found, err := Find(kind, p)
		if err != nil {
			return nil, err
		}
		out = append(out, found)
	}
	return out, nil
}
