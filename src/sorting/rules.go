package sorting

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Rule associates a category with the file extensions it owns.
// Extensions carry the leading dot and are matched case-insensitively.
type Rule struct {
	Name       string
	Extensions []string
}

type compiledRule struct {
	name string
	exts map[string]struct{}
}

// Table is an immutable, ordered set of classification rules. Rule order
// is the match order; extension sets are pairwise disjoint across rules.
type Table struct {
	rules []compiledRule
}

// NewTable compiles the given rules into a Table. It fails if a rule has
// no name, an extension is missing its leading dot, or the same extension
// appears under two categories.
func NewTable(rules []Rule) (*Table, error) {
	if len(rules) == 0 {
		return nil, fmt.Errorf("no category rules defined")
	}

	seen := make(map[string]string) // extension -> owning category
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		if r.Name == "" {
			return nil, fmt.Errorf("category rule with empty name")
		}
		if len(r.Extensions) == 0 {
			return nil, fmt.Errorf("category %q has no extensions", r.Name)
		}
		exts := make(map[string]struct{}, len(r.Extensions))
		for _, ext := range r.Extensions {
			ext = strings.ToLower(strings.TrimSpace(ext))
			if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
				return nil, fmt.Errorf("category %q: invalid extension %q", r.Name, ext)
			}
			if owner, dup := seen[ext]; dup {
				return nil, fmt.Errorf("extension %q mapped to both %q and %q", ext, owner, r.Name)
			}
			seen[ext] = r.Name
			exts[ext] = struct{}{}
		}
		compiled = append(compiled, compiledRule{name: r.Name, exts: exts})
	}

	return &Table{rules: compiled}, nil
}

// Classify maps a file name to its category. It returns false when no
// rule owns the file's extension; the caller must leave such files alone.
func (t *Table) Classify(fileName string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" {
		return "", false
	}
	for _, r := range t.rules {
		if _, ok := r.exts[ext]; ok {
			return r.name, true
		}
	}
	return "", false
}

// Categories returns the category names in rule order.
func (t *Table) Categories() []string {
	names := make([]string, 0, len(t.rules))
	for _, r := range t.rules {
		names = append(names, r.name)
	}
	return names
}
