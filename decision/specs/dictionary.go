// Package specs is the static dictionary of part attributes: what each key
// means, its unit and type, how important it is, and which categories use it.
// The dictionary is built once at package initialization and is read-only
// afterwards.
package specs

import (
	"fmt"
	"sort"

	"pcbuild/decision/parts"
)

// ValueType is the declared type of an attribute value.
type ValueType string

const (
	TypeNumber  ValueType = "number"
	TypeBoolean ValueType = "boolean"
	TypeString  ValueType = "string"
)

// Importance ranks attributes for display.
type Importance string

const (
	ImportanceHigh   Importance = "high"
	ImportanceMedium Importance = "medium"
	ImportanceLow    Importance = "low"
)

var importanceRank = map[Importance]int{
	ImportanceHigh:   0,
	ImportanceMedium: 1,
	ImportanceLow:    2,
}

// Definition describes one attribute key.
type Definition struct {
	Key        string           `json:"key"`
	Label      string           `json:"label"`
	Unit       string           `json:"unit,omitempty"`
	Type       ValueType        `json:"type"`
	Importance Importance       `json:"importance"`
	Group      parts.Group      `json:"group"`
	Categories []parts.Category `json:"categories"`
	// Order breaks ties within a group and importance level.
	Order int `json:"order"`
}

// AppliesTo reports whether the definition is used by category c.
func (d Definition) AppliesTo(c parts.Category) bool {
	for _, dc := range d.Categories {
		if dc == c {
			return true
		}
	}
	return false
}

// Entry pairs a key with its definition in ordered listings.
type Entry struct {
	Key        string     `json:"key"`
	Definition Definition `json:"definition"`
}

// Dictionary is an immutable registry of definitions.
type Dictionary struct {
	byKey   map[string]Definition
	ordered []Definition
}

// NewDictionary validates defs and builds a dictionary. Keys must be unique
// and every definition needs a known group, type, importance and at least one
// valid category.
func NewDictionary(defs []Definition) (*Dictionary, error) {
	d := &Dictionary{
		byKey:   make(map[string]Definition, len(defs)),
		ordered: make([]Definition, 0, len(defs)),
	}
	groups := make(map[parts.Group]bool)
	for _, g := range parts.Groups() {
		groups[g] = true
	}
	for _, def := range defs {
		if def.Key == "" {
			return nil, fmt.Errorf("spec definition with empty key")
		}
		if _, dup := d.byKey[def.Key]; dup {
			return nil, fmt.Errorf("duplicate spec key %q", def.Key)
		}
		if !groups[def.Group] {
			return nil, fmt.Errorf("spec %q: unknown group %q", def.Key, def.Group)
		}
		if _, ok := importanceRank[def.Importance]; !ok {
			return nil, fmt.Errorf("spec %q: unknown importance %q", def.Key, def.Importance)
		}
		switch def.Type {
		case TypeNumber, TypeBoolean, TypeString:
		default:
			return nil, fmt.Errorf("spec %q: unknown type %q", def.Key, def.Type)
		}
		if len(def.Categories) == 0 {
			return nil, fmt.Errorf("spec %q: no categories", def.Key)
		}
		for _, c := range def.Categories {
			if !c.Valid() {
				return nil, fmt.Errorf("spec %q: unknown category %q", def.Key, c)
			}
		}
		cats := make([]parts.Category, len(def.Categories))
		copy(cats, def.Categories)
		def.Categories = cats
		d.byKey[def.Key] = def
		d.ordered = append(d.ordered, def)
	}
	return d, nil
}

// Lookup returns the definition for key.
func (d *Dictionary) Lookup(key string) (Definition, bool) {
	def, ok := d.byKey[key]
	if !ok {
		return Definition{}, false
	}
	return copyDefinition(def), true
}

// ForCategory lists the definitions used by category c, ordered by group,
// then importance (high first), then Order.
func (d *Dictionary) ForCategory(c parts.Category) []Entry {
	groupRank := make(map[parts.Group]int)
	for i, g := range parts.Groups() {
		groupRank[g] = i
	}

	var matched []Definition
	for _, def := range d.ordered {
		if def.AppliesTo(c) {
			matched = append(matched, def)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if groupRank[a.Group] != groupRank[b.Group] {
			return groupRank[a.Group] < groupRank[b.Group]
		}
		if importanceRank[a.Importance] != importanceRank[b.Importance] {
			return importanceRank[a.Importance] < importanceRank[b.Importance]
		}
		return a.Order < b.Order
	})

	out := make([]Entry, len(matched))
	for i, def := range matched {
		out[i] = Entry{Key: def.Key, Definition: copyDefinition(def)}
	}
	return out
}

// Keys returns every key in declaration order.
func (d *Dictionary) Keys() []string {
	out := make([]string, len(d.ordered))
	for i, def := range d.ordered {
		out[i] = def.Key
	}
	return out
}

func copyDefinition(def Definition) Definition {
	cats := make([]parts.Category, len(def.Categories))
	copy(cats, def.Categories)
	def.Categories = cats
	return def
}

var defaultDictionary = mustDictionary(definitions)

func mustDictionary(defs []Definition) *Dictionary {
	d, err := NewDictionary(defs)
	if err != nil {
		panic(fmt.Sprintf("specs: invalid built-in dictionary: %v", err))
	}
	return d
}

// Default is the built-in dictionary.
func Default() *Dictionary { return defaultDictionary }

// Lookup is getSpecDefinition on the built-in dictionary.
func Lookup(key string) (Definition, bool) { return defaultDictionary.Lookup(key) }

// ForCategory is getSpecsForCategory on the built-in dictionary.
func ForCategory(c parts.Category) []Entry { return defaultDictionary.ForCategory(c) }

// Keys lists the built-in keys in declaration order.
func Keys() []string { return defaultDictionary.Keys() }
