package normalize

import (
	_ "embed"
	"os"
	"strings"
	"unicode"

	"github.com/rotisserie/eris"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRules []byte

// Replacement is one ordered substring substitution.
type Replacement struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Rules holds the text clean-up tables.
type Rules struct {
	NameTransforms       []Replacement     `yaml:"name_transforms"`
	StripDigitsOperators []string          `yaml:"strip_digits_operators"`
	CountyAbbreviations  map[string]string `yaml:"county_abbreviations"`
}

// ParseRules decodes a rules document.
func ParseRules(data []byte) (*Rules, error) {
	var r Rules
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, eris.Wrap(err, "normalize: parse rules")
	}
	for i, t := range r.NameTransforms {
		if t.From == "" {
			return nil, eris.Errorf("normalize: name transform %d has empty from", i)
		}
	}
	return &r, nil
}

// DefaultRules returns the built-in rules.
func DefaultRules() *Rules {
	r, err := ParseRules(defaultRules)
	if err != nil {
		panic(err)
	}
	return r
}

// LoadRules reads rules from path, or returns the built-in rules when path
// is empty.
func LoadRules(path string) (*Rules, error) {
	if path == "" {
		return DefaultRules(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "normalize: read rules %s", path)
	}
	return ParseRules(data)
}

func (r *Rules) transform(s string) string {
	s = norm.NFC.String(s)
	for _, t := range r.NameTransforms {
		s = strings.ReplaceAll(s, t.From, t.To)
	}
	return s
}

// Name cleans an office name.
func (r *Rules) Name(s string) string {
	return tidy(r.transform(s))
}

// Operator cleans an operator name. Chains listed in StripDigitsOperators
// lose their store numbers.
func (r *Rules) Operator(s string) string {
	s = r.transform(s)
	lower := strings.ToLower(s)
	for _, chain := range r.StripDigitsOperators {
		if strings.Contains(lower, chain) {
			s = strings.Map(func(c rune) rune {
				if unicode.IsDigit(c) {
					return -1
				}
				return c
			}, s)
			break
		}
	}
	return tidy(s)
}

// CountySuffix returns the abbreviation the directory service appends to a
// duplicated municipality name. Unknown counties fall back to the upper
// case county name.
func (r *Rules) CountySuffix(county string) string {
	if abbr, ok := r.CountyAbbreviations[county]; ok {
		return abbr
	}
	return strings.ToUpper(county)
}

func tidy(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "  ", " "))
}
