package catalog

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultTransientPrefix marks an uploaded image that is itself a catalog
// item. Such an image is expected to match itself first.
const DefaultTransientPrefix = "tatrec--demo--"

// Resolver turns a stored label into a displayable path: StripPrefix and
// StripSuffix are removed when present, and the remainder is joined with Root.
type Resolver struct {
	StripPrefix string
	StripSuffix string
	Root        string
}

// Resolve maps label to a path.
func (r Resolver) Resolve(label string) string {
	name := strings.TrimPrefix(label, r.StripPrefix)
	name = strings.TrimSuffix(name, r.StripSuffix)
	if r.Root == "" {
		return name
	}
	return filepath.Join(r.Root, name)
}

// ResolveAll maps every label in order.
func (r Resolver) ResolveAll(labels []string) []string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = r.Resolve(l)
	}
	return out
}

// IsTransient reports whether the base name of path starts with prefix.
func IsTransient(path, prefix string) bool {
	return prefix != "" && strings.HasPrefix(filepath.Base(path), prefix)
}

// ContainsTransient reports whether any regular file directly inside dir
// carries the transient prefix.
func ContainsTransient(dir, prefix string) (bool, error) {
	if prefix == "" {
		return false, nil
	}
	items, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}
	for _, item := range items {
		if item.Type().IsRegular() && IsTransient(item.Name(), prefix) {
			return true, nil
		}
	}
	return false, nil
}
