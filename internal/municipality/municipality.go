// Package municipality loads the Norwegian municipality registry and maps the
// directory service's municipality spelling to a registry entry.
package municipality

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/osmno/post2osm/internal/normalize"
)

// Municipality is one registry entry.
type Municipality struct {
	Ref    string
	Name   string
	County string
	// Label is the name as the directory service spells it, e.g. "OSLO" or
	// "HERØY (N.)".
	Label string
	// Key is the normalized Label used for matching.
	Key string
}

// Key normalizes a municipality name for matching: NFC, trimmed, case folded.
func Key(name string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(name)))
}

// Registry indexes municipalities by key.
type Registry struct {
	list  []Municipality
	byKey map[string]int
}

// NewRegistry labels the entries and indexes them. Names that occur more
// than once get the county suffix from rules appended to their label.
func NewRegistry(entries []Municipality, rules *normalize.Rules) *Registry {
	seen := make(map[string]int, len(entries))
	for _, m := range entries {
		seen[Key(m.Name)]++
	}

	r := &Registry{
		list:  make([]Municipality, 0, len(entries)),
		byKey: make(map[string]int, len(entries)),
	}
	for _, m := range entries {
		m.Label = strings.ToUpper(strings.TrimSpace(m.Name))
		if seen[Key(m.Name)] > 1 {
			m.Label += " (" + rules.CountySuffix(m.County) + ")"
		}
		m.Key = Key(m.Label)
		if _, dup := r.byKey[m.Key]; dup {
			continue
		}
		r.byKey[m.Key] = len(r.list)
		r.list = append(r.list, m)
	}
	return r
}

// All returns the municipalities in registry order.
func (r *Registry) All() []Municipality {
	return r.list
}

// Len returns the number of municipalities.
func (r *Registry) Len() int {
	return len(r.list)
}

// Lookup finds the municipality for a directory service spelling.
func (r *Registry) Lookup(name string) (Municipality, bool) {
	i, ok := r.byKey[Key(name)]
	if !ok {
		return Municipality{}, false
	}
	return r.list[i], true
}
