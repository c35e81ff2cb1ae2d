// Package element holds the element-effectiveness table supplied by content data.
package element

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Element is an elemental tag such as "fire" or "water". The empty Element
// means "no element" and is always neutral.
type Element string

// None is the neutral, untagged element.
const None Element = ""

// Table maps attacker element → defender element → damage multiplier.
//
// Invariant: every element appearing in Matchups is a member of Elements;
// every multiplier is >= 0.
type Table struct {
	Elements []Element                       `yaml:"elements"`
	Matchups map[Element]map[Element]float64 `yaml:"matchups"`

	known map[Element]struct{}
}

// NewTable builds and validates a Table.
//
// Postcondition: Returns a usable Table or an error describing the first violation.
func NewTable(elements []Element, matchups map[Element]map[Element]float64) (*Table, error) {
	t := &Table{Elements: elements, Matchups: matchups}
	if err := t.init(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Table) init() error {
	t.known = make(map[Element]struct{}, len(t.Elements))
	for _, e := range t.Elements {
		if e == None {
			return fmt.Errorf("element table: empty element name")
		}
		if _, dup := t.known[e]; dup {
			return fmt.Errorf("element table: duplicate element %q", e)
		}
		t.known[e] = struct{}{}
	}
	for atk, row := range t.Matchups {
		if _, ok := t.known[atk]; !ok {
			return fmt.Errorf("element table: matchup row references unknown element %q", atk)
		}
		for def, m := range row {
			if _, ok := t.known[def]; !ok {
				return fmt.Errorf("element table: matchup %q→%q references unknown element", atk, def)
			}
			if m < 0 {
				return fmt.Errorf("element table: matchup %q→%q has negative multiplier %v", atk, def, m)
			}
		}
	}
	return nil
}

// Known reports whether e is declared in the table. None is always known.
func (t *Table) Known(e Element) bool {
	if e == None {
		return true
	}
	_, ok := t.known[e]
	return ok
}

// Multiplier returns the effectiveness of attacker against defender.
// Missing matchups and untagged elements are neutral (1.0).
//
// Precondition: attacker and defender are None or declared in the table;
// an undeclared element is a content-authoring bug and panics.
func (t *Table) Multiplier(attacker, defender Element) float64 {
	if !t.Known(attacker) {
		panic(fmt.Sprintf("element: unknown attacker element %q", attacker))
	}
	if !t.Known(defender) {
		panic(fmt.Sprintf("element: unknown defender element %q", defender))
	}
	if attacker == None || defender == None {
		return 1
	}
	if m, ok := t.Matchups[attacker][defender]; ok {
		return m
	}
	return 1
}

// Sorted returns the declared elements in lexical order.
func (t *Table) Sorted() []Element {
	out := make([]Element, len(t.Elements))
	copy(out, t.Elements)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Neutral returns an empty table under which every matchup is 1.0.
func Neutral() *Table {
	return &Table{known: map[Element]struct{}{}}
}

// LoadTableFromBytes parses and validates an element table from YAML.
//
// Postcondition: Returns a validated *Table, or an error.
func LoadTableFromBytes(data []byte) (*Table, error) {
	var t Table
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("parsing element table: %w", err)
	}
	if err := t.init(); err != nil {
		return nil, err
	}
	return &t, nil
}

// LoadTable reads the element table at path.
//
// Precondition: path must be a readable YAML file.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading element table %q: %w", path, err)
	}
	t, err := LoadTableFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("loading %q: %w", path, err)
	}
	return t, nil
}
