// Package stats derives combat statistics from primary attributes,
// equipment bonuses, and active stat modifiers. Every function in this
// package is pure; derived stats are recomputed on demand and never cached.
package stats

import (
	"fmt"
	"strings"
)

// Attribute names one of the nine primary attributes.
// The zero value (AttributeNone) means "no attribute".
type Attribute int

const (
	AttributeNone Attribute = iota
	Willpower
	Chakra
	Strength
	Spirit
	Intelligence
	Calmness
	Speed
	Accuracy
	Dexterity
)

var attributeNames = map[Attribute]string{
	AttributeNone: "none",
	Willpower:     "willpower",
	Chakra:        "chakra",
	Strength:      "strength",
	Spirit:        "spirit",
	Intelligence:  "intelligence",
	Calmness:      "calmness",
	Speed:         "speed",
	Accuracy:      "accuracy",
	Dexterity:     "dexterity",
}

// AllAttributes lists the nine primary attributes in canonical order.
var AllAttributes = []Attribute{
	Willpower, Chakra, Strength, Spirit, Intelligence, Calmness, Speed, Accuracy, Dexterity,
}

// String returns the lowercase attribute name.
func (a Attribute) String() string {
	if n, ok := attributeNames[a]; ok {
		return n
	}
	return "unknown"
}

// ParseAttribute maps a lowercase name to an Attribute.
//
// Postcondition: Returns an error for any name not in AllAttributes or "none".
func ParseAttribute(s string) (Attribute, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return AttributeNone, nil
	}
	for a, n := range attributeNames {
		if n == s {
			return a, nil
		}
	}
	return AttributeNone, fmt.Errorf("stats: unknown attribute %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler for YAML content.
func (a *Attribute) UnmarshalText(text []byte) error {
	v, err := ParseAttribute(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// PrimaryAttributes holds the nine primary attribute values of a combatant.
type PrimaryAttributes struct {
	Willpower    int `yaml:"willpower"`
	Chakra       int `yaml:"chakra"`
	Strength     int `yaml:"strength"`
	Spirit       int `yaml:"spirit"`
	Intelligence int `yaml:"intelligence"`
	Calmness     int `yaml:"calmness"`
	Speed        int `yaml:"speed"`
	Accuracy     int `yaml:"accuracy"`
	Dexterity    int `yaml:"dexterity"`
}

// Get returns the value of attribute a. AttributeNone yields 0.
//
// Precondition: a is AttributeNone or a member of AllAttributes; panics otherwise.
func (p PrimaryAttributes) Get(a Attribute) int {
	switch a {
	case AttributeNone:
		return 0
	case Willpower:
		return p.Willpower
	case Chakra:
		return p.Chakra
	case Strength:
		return p.Strength
	case Spirit:
		return p.Spirit
	case Intelligence:
		return p.Intelligence
	case Calmness:
		return p.Calmness
	case Speed:
		return p.Speed
	case Accuracy:
		return p.Accuracy
	case Dexterity:
		return p.Dexterity
	default:
		panic(fmt.Sprintf("stats: Get called with invalid attribute %d", int(a)))
	}
}

// With returns a copy of p with attribute a set to v.
//
// Precondition: a is a member of AllAttributes; panics otherwise.
func (p PrimaryAttributes) With(a Attribute, v int) PrimaryAttributes {
	switch a {
	case Willpower:
		p.Willpower = v
	case Chakra:
		p.Chakra = v
	case Strength:
		p.Strength = v
	case Spirit:
		p.Spirit = v
	case Intelligence:
		p.Intelligence = v
	case Calmness:
		p.Calmness = v
	case Speed:
		p.Speed = v
	case Accuracy:
		p.Accuracy = v
	case Dexterity:
		p.Dexterity = v
	default:
		panic(fmt.Sprintf("stats: With called with invalid attribute %d", int(a)))
	}
	return p
}

// Plus returns the attribute-wise sum of p and q.
func (p PrimaryAttributes) Plus(q PrimaryAttributes) PrimaryAttributes {
	out := p
	for _, a := range AllAttributes {
		out = out.With(a, p.Get(a)+q.Get(a))
	}
	return out
}
