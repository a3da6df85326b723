// Package category loads the punch category catalog from JSON. The file is
// a name-to-definition map whose entries come in three shapes; the loader
// resolves each into a tagged variant so callers never inspect raw JSON.
package category

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"punchtrack/internal/faults"
)

// Kind tags the resolved shape of a catalog entry.
type Kind string

const (
	KindTemplate       Kind = "template"
	KindParent         Kind = "parent"
	KindWiringSelector Kind = "wiring_selector"
)

// Category is one resolved catalog entry. Exactly one of the variant
// pointers is set, matching Kind.
type Category struct {
	Name     string
	Kind     Kind
	Template *Template
	Parent   *Parent
	Wiring   *WiringSelector
}

// Template is a leaf category: a description text with named placeholders
// the operator fills in.
type Template struct {
	Inputs []string `json:"inputs"`
	Text   string   `json:"text"`
}

// Render substitutes the template's inputs into its text. Every input must
// be supplied.
func (t *Template) Render(values map[string]string) (string, error) {
	out := t.Text
	for _, input := range t.Inputs {
		value, ok := values[input]
		if !ok {
			return "", faults.Wrap(faults.ErrValidation, "category render",
				fmt.Sprintf("missing value for input %q", input), nil)
		}
		out = strings.ReplaceAll(out, "{"+input+"}", value)
	}
	return out, nil
}

// Parent groups subcategories under one heading.
type Parent struct {
	Subcategories map[string]Category
}

// WiringSelector is the special two-list picker for wiring defects.
type WiringSelector struct {
	Types    []string `json:"types"`
	Specials []string `json:"specials"`
}

// Catalog is the resolved category file.
type Catalog struct {
	categories map[string]Category
}

// Load reads and resolves a category file. An entry that matches none of
// the known shapes fails the whole load.
func Load(path string) (*Catalog, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, faults.Wrap(faults.ErrNotFound, "category load", path, err)
		}
		return nil, fmt.Errorf("read category file: %w", err)
	}
	return Parse(payload)
}

// Parse resolves category JSON held in memory.
func Parse(payload []byte) (*Catalog, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, faults.Wrap(faults.ErrValidation, "category parse",
			"category file is not a JSON object", err)
	}
	categories := make(map[string]Category, len(raw))
	for name, entry := range raw {
		cat, err := resolve(name, entry)
		if err != nil {
			return nil, err
		}
		categories[name] = cat
	}
	return &Catalog{categories: categories}, nil
}

func resolve(name string, entry json.RawMessage) (Category, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(entry, &fields); err != nil {
		return Category{}, faults.Wrap(faults.ErrValidation, "category parse",
			fmt.Sprintf("category %q is not an object", name), err)
	}

	_, hasText := fields["text"]
	_, hasSubs := fields["subcategories"]
	_, hasTypes := fields["types"]

	switch {
	case hasText:
		var t Template
		if err := json.Unmarshal(entry, &t); err != nil {
			return Category{}, faults.Wrap(faults.ErrValidation, "category parse",
				fmt.Sprintf("category %q: bad template", name), err)
		}
		return Category{Name: name, Kind: KindTemplate, Template: &t}, nil

	case hasSubs:
		var wrapper struct {
			Subcategories map[string]json.RawMessage `json:"subcategories"`
		}
		if err := json.Unmarshal(entry, &wrapper); err != nil {
			return Category{}, faults.Wrap(faults.ErrValidation, "category parse",
				fmt.Sprintf("category %q: bad subcategories", name), err)
		}
		subs := make(map[string]Category, len(wrapper.Subcategories))
		for subName, subEntry := range wrapper.Subcategories {
			sub, err := resolve(name+"/"+subName, subEntry)
			if err != nil {
				return Category{}, err
			}
			subs[subName] = sub
		}
		return Category{Name: name, Kind: KindParent, Parent: &Parent{Subcategories: subs}}, nil

	case hasTypes:
		var w WiringSelector
		if err := json.Unmarshal(entry, &w); err != nil {
			return Category{}, faults.Wrap(faults.ErrValidation, "category parse",
				fmt.Sprintf("category %q: bad wiring selector", name), err)
		}
		return Category{Name: name, Kind: KindWiringSelector, Wiring: &w}, nil

	default:
		return Category{}, faults.Wrap(faults.ErrValidation, "category parse",
			fmt.Sprintf("category %q has an unknown shape", name), nil)
	}
}

// Resolve looks up a category by name, descending into parents along
// slash-separated paths such as "Mechanical/Enclosure".
func (c *Catalog) Resolve(name string) (Category, bool) {
	parts := strings.Split(name, "/")
	current, ok := c.categories[parts[0]]
	if !ok {
		return Category{}, false
	}
	for _, part := range parts[1:] {
		if current.Kind != KindParent {
			return Category{}, false
		}
		current, ok = current.Parent.Subcategories[part]
		if !ok {
			return Category{}, false
		}
	}
	return current, true
}

// Names returns the top-level category names sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.categories))
	for name := range c.categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
