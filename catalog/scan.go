package catalog

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultExtensions lists the image extensions Scan accepts when none are given.
var DefaultExtensions = []string{".jpg", ".jpeg", ".png", ".gif"}

// ExtensionMatcher returns a predicate reporting whether a path's extension
// is in exts, compared case-insensitively with or without a leading dot.
// An empty exts means DefaultExtensions.
func ExtensionMatcher(exts []string) func(path string) bool {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	allowed := make(map[string]bool, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		allowed[e] = true
	}
	return func(path string) bool {
		return allowed[strings.ToLower(filepath.Ext(path))]
	}
}

// Scan walks dir recursively and returns the sorted paths of files accepted
// by ExtensionMatcher(exts).
func Scan(dir string, exts []string) ([]string, error) {
	match := ExtensionMatcher(exts)
	var out []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if match(path) {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}
