package parts

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Selection is the set of parts chosen for a build, at most one per
// category. It is an immutable value: With and Without return new
// selections, and the zero value is an empty build.
type Selection struct {
	parts map[Category]Part
}

// NewSelection copies m into a selection. Entries with unknown categories are dropped.
func NewSelection(m map[Category]Part) Selection {
	s := Selection{parts: make(map[Category]Part, len(m))}
	for c, p := range m {
		if !c.Valid() {
			continue
		}
		p.Category = c
		s.parts[c] = p
	}
	return s
}

// SelectionFromRecords ingests a category→record map, rejecting invalid records.
func SelectionFromRecords(records map[Category]Record) (Selection, error) {
	m := make(map[Category]Part, len(records))
	for _, c := range Categories() {
		rec, ok := records[c]
		if !ok || rec == nil {
			continue
		}
		p, err := FromRecord(c, rec)
		if err != nil {
			return Selection{}, err
		}
		m[c] = p
	}
	for c := range records {
		if !c.Valid() {
			return Selection{}, fmt.Errorf("selection: unknown category %q", c)
		}
	}
	return NewSelection(m), nil
}

// Get returns the part selected for c.
func (s Selection) Get(c Category) (Part, bool) {
	p, ok := s.parts[c]
	return p, ok
}

// Has reports whether every given category is selected.
func (s Selection) Has(categories ...Category) bool {
	for _, c := range categories {
		if _, ok := s.parts[c]; !ok {
			return false
		}
	}
	return true
}

// HasAny reports whether at least one of the given categories is selected.
func (s Selection) HasAny(categories ...Category) bool {
	for _, c := range categories {
		if _, ok := s.parts[c]; ok {
			return true
		}
	}
	return false
}

// With returns a copy of s with p placed in its category.
func (s Selection) With(p Part) Selection {
	next := Selection{parts: make(map[Category]Part, len(s.parts)+1)}
	for c, existing := range s.parts {
		next.parts[c] = existing
	}
	if p.Category.Valid() {
		next.parts[p.Category] = p
	}
	return next
}

// Without returns a copy of s with category c cleared.
func (s Selection) Without(c Category) Selection {
	next := Selection{parts: make(map[Category]Part, len(s.parts))}
	for cat, existing := range s.parts {
		if cat != c {
			next.parts[cat] = existing
		}
	}
	return next
}

// Categories lists the selected categories in canonical order.
func (s Selection) Categories() []Category {
	var out []Category
	for _, c := range categoryOrder {
		if _, ok := s.parts[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Len is the number of selected parts.
func (s Selection) Len() int { return len(s.parts) }

// TotalPrice sums the prices of the selected parts.
func (s Selection) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.parts {
		total = total.Add(p.Price)
	}
	return total
}

// MarshalJSON renders the selection as an object keyed by category whose
// values are the part records with id, name and price at the top level, the
// same shape UnmarshalJSON reads.
func (s Selection) MarshalJSON() ([]byte, error) {
	out := make(map[Category]Record, len(s.parts))
	for c, p := range s.parts {
		rec := cloneRecord(p.Record)
		rec["id"] = p.ID
		if p.Name != "" {
			rec["name"] = p.Name
		}
		if !p.Price.IsZero() {
			rec["price"] = p.Price.String()
		}
		out[c] = rec
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts an object keyed by category whose values are raw part
// records; each record goes through FromRecord.
func (s *Selection) UnmarshalJSON(b []byte) error {
	var raw map[Category]Record
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	sel, err := SelectionFromRecords(raw)
	if err != nil {
		return err
	}
	*s = sel
	return nil
}
