package parts

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	bperrors "pcbuild/pkg/errors"
	"pcbuild/pkg/units"
)

// partNamespace seeds derived part ids so that the same record always gets
// the same id.
var partNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("pcbuild/parts"))

// Part is a validated part record.
type Part struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Category Category        `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Record   Record          `json:"record"`
}

// FromRecord validates a raw record once, at the ingestion boundary. The
// record is deep-copied so later changes by the caller are not observed.
func FromRecord(category Category, record Record) (Part, error) {
	if !category.Valid() {
		return Part{}, bperrors.NewInvalidPartError(fmt.Sprintf("unknown category %q", category), string(category))
	}
	if record == nil {
		return Part{}, bperrors.NewInvalidPartError("record is empty", string(category))
	}

	p := Part{
		Category: category,
		Record:   cloneRecord(record),
	}

	if raw, ok := record["name"]; ok && raw != nil {
		name, isString := raw.(string)
		if !isString {
			return Part{}, bperrors.NewInvalidPartError("name must be a string", string(category))
		}
		p.Name = strings.TrimSpace(name)
	}

	price, err := parsePrice(record)
	if err != nil {
		return Part{}, bperrors.NewInvalidPartError(err.Error(), p.subject())
	}
	p.Price = price

	if id, ok := String(Record{"id": record["id"]}, "id"); ok {
		p.ID = id
	} else {
		p.ID = derivedID(category, p.Name, record)
	}
	return p, nil
}

// MustFromRecord is FromRecord for static fixtures; it panics on invalid input.
func MustFromRecord(category Category, record Record) Part {
	p, err := FromRecord(category, record)
	if err != nil {
		panic(err)
	}
	return p
}

func parsePrice(record Record) (decimal.Decimal, error) {
	raw, ok := Value(record, "price")
	if !ok {
		return decimal.Zero, nil
	}
	var price decimal.Decimal
	switch v := raw.(type) {
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(v), "$")))
		if err != nil {
			return decimal.Zero, fmt.Errorf("price %q is not a number", v)
		}
		price = d
	default:
		f, ok := ToNumber(v)
		if !ok {
			return decimal.Zero, fmt.Errorf("price must be a number")
		}
		price = decimal.NewFromFloat(f)
	}
	if price.IsNegative() {
		return decimal.Zero, fmt.Errorf("price must not be negative")
	}
	return price, nil
}

func derivedID(category Category, name string, record Record) string {
	seed := string(category) + "/" + name
	if name == "" {
		// encoding/json sorts map keys, so the seed is stable.
		body, _ := json.Marshal(record)
		seed += "/" + string(body)
	}
	return uuid.NewSHA1(partNamespace, []byte(seed)).String()
}

func (p Part) subject() string {
	if p.Name != "" {
		return p.Name
	}
	return string(p.Category)
}

// DisplayName is the part name, or the category label for unnamed parts.
func (p Part) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Category.Label()
}

// Spec returns the raw attribute value for key.
func (p Part) Spec(key string) (any, bool) { return Value(p.Record, key) }

// Number returns the attribute as a number.
func (p Part) Number(key string) (float64, bool) { return Number(p.Record, key) }

// Text returns the attribute as a string.
func (p Part) Text(key string) (string, bool) { return String(p.Record, key) }

// CapacityGB returns the attribute as gigabytes. Numbers are taken as GB;
// text such as "32GB" or "2TB" is parsed.
func (p Part) CapacityGB(key string) (float64, bool) {
	if v, ok := p.Number(key); ok {
		return v, true
	}
	s, ok := p.Text(key)
	if !ok {
		return 0, false
	}
	return units.ParseCapacityGB(s)
}

// Bool returns the attribute as a boolean.
func (p Part) Bool(key string) (bool, bool) { return Bool(p.Record, key) }

// List returns the attribute as a list of strings.
func (p Part) List(key string) ([]string, bool) { return List(p.Record, key) }

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	return cloneRecord(r)
}

func cloneRecord(r Record) Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = cloneValue(item)
		}
		return out
	case Record:
		return map[string]any(cloneRecord(val))
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		out := make([]string, len(val))
		copy(out, val)
		return out
	default:
		return v
	}
}
