// Package taxonomy holds the static skill taxonomy: an ordered mapping from
// category to canonical skill names and their surface-form aliases. The
// taxonomy is pure data, embedded at build time, and immutable after Load;
// extending it is a data change, not a code change.
package taxonomy

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"resumebeaver/internal/errors"

	"gopkg.in/yaml.v3"
)

//go:embed taxonomy.yaml
var embeddedTaxonomy []byte

// Match is one canonical skill found in a text.
type Match struct {
	Category string
	Name     string
}

type skillSpec struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases"`
}

type categorySpec struct {
	Name   string      `yaml:"name"`
	Skills []skillSpec `yaml:"skills"`
}

type taxonomyFile struct {
	Categories []categorySpec `yaml:"categories"`
}

type entry struct {
	category string
	name     string
	patterns []*regexp.Regexp
}

// Taxonomy is the compiled, read-only lookup structure. Safe for concurrent
// use by any number of goroutines.
type Taxonomy struct {
	entries    []entry
	categories []string
}

// Load parses and compiles the embedded taxonomy data.
func Load() (*Taxonomy, error) {
	return Parse(embeddedTaxonomy)
}

// Parse builds a Taxonomy from YAML data. It fails if a canonical skill
// appears under more than one category or if any surface form does not
// compile into a valid pattern.
func Parse(data []byte) (*Taxonomy, error) {
	var file taxonomyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			"Failed to parse taxonomy data", err)
	}

	t := &Taxonomy{}
	seen := make(map[string]string) // canonical name -> category

	for _, cat := range file.Categories {
		if cat.Name == "" {
			return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
				"Taxonomy category with empty name", nil)
		}
		t.categories = append(t.categories, cat.Name)

		for _, skill := range cat.Skills {
			if prev, dup := seen[skill.Name]; dup {
				return nil, errors.NewInternalError(errors.ErrCodeInvariantViolation,
					fmt.Sprintf("Skill %q appears in both %q and %q", skill.Name, prev, cat.Name), nil)
			}
			seen[skill.Name] = cat.Name

			forms := append([]string{skill.Name}, skill.Aliases...)
			patterns := make([]*regexp.Regexp, 0, len(forms))
			for _, form := range forms {
				re, err := compilePattern(form)
				if err != nil {
					return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
						fmt.Sprintf("Invalid skill surface form %q", form), err)
				}
				patterns = append(patterns, re)
			}

			t.entries = append(t.entries, entry{
				category: cat.Name,
				name:     skill.Name,
				patterns: patterns,
			})
		}
	}

	if len(t.entries) == 0 {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			"Taxonomy contains no skills", nil)
	}

	return t, nil
}

// Lookup scans text and returns every canonical skill whose name or alias
// occurs as a case-insensitive whole word or whole phrase. A skill reachable
// through multiple aliases is reported once. Matches come back in taxonomy
// order, which keeps downstream output deterministic.
func (t *Taxonomy) Lookup(text string) []Match {
	if text == "" {
		return nil
	}

	var matches []Match
	for _, e := range t.entries {
		for _, re := range e.patterns {
			if re.MatchString(text) {
				matches = append(matches, Match{Category: e.category, Name: e.name})
				break
			}
		}
	}
	return matches
}

// Categories returns the category names in taxonomy order.
func (t *Taxonomy) Categories() []string {
	return t.categories
}

// Size returns the number of canonical skills in the taxonomy.
func (t *Taxonomy) Size() int {
	return len(t.entries)
}

// compilePattern turns a surface form into a whole-word, case-insensitive
// pattern. \b only works next to word characters, so forms that begin or end
// with symbols (C++, C#, .NET) get explicit whitespace/punctuation anchors
// instead. This is what keeps "R" from firing inside "Director".
//
// A trailing \b alone is not enough on the right edge: \b holds between a
// letter and a skill symbol, so "C" would fire inside "C++" and "C#". Forms
// ending in a word character therefore also exclude a following + or #.
func compilePattern(form string) (*regexp.Regexp, error) {
	if form == "" {
		return nil, fmt.Errorf("empty surface form")
	}

	var b strings.Builder
	b.WriteString(`(?i)`)

	if isWordChar(rune(form[0])) {
		b.WriteString(`\b`)
	} else {
		b.WriteString(`(?:^|[\s(])`)
	}

	b.WriteString(regexp.QuoteMeta(form))

	if isWordChar(rune(form[len(form)-1])) {
		b.WriteString(`(?:[^+#_0-9a-zA-Z]|$)`)
	} else {
		b.WriteString(`(?:[\s.,;:!?)]|$)`)
	}

	return regexp.Compile(b.String())
}

func isWordChar(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}
