/*
Package correction cleans address values of OSM elements.

Street names are de-abbreviated with an ordered replacement table and
postcodes are validated against a locale specific pattern.
*/
package correction

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// Replacement expands an abbreviation inside a street name.
type Replacement struct {
	Abbreviation string
	Expansion    string
}

// Corrections is immutable and safe for concurrent use.
type Corrections struct {
	replacements []Replacement
	postcode     *regexp.Regexp
}

// NewCorrections returns corrections that apply the replacements in the
// given order and validate postcodes against the regular expression postcode.
func NewCorrections(replacements []Replacement, postcode string) (*Corrections, error) {
	re, err := regexp.Compile(postcode)
	if err != nil {
		return nil, errors.Wrapf(err, "compiling postcode pattern %q", postcode)
	}
	for _, r := range replacements {
		if r.Abbreviation == "" {
			return nil, errors.New("empty abbreviation")
		}
	}
	return &Corrections{
		replacements: append([]Replacement(nil), replacements...),
		postcode:     re,
	}, nil
}

// Replacements returns a copy of the replacement table.
func (c *Corrections) Replacements() []Replacement {
	return append([]Replacement(nil), c.replacements...)
}

// Street replaces all occurrences of every abbreviation in name. All
// replacements are checked, in table order, even after a match. Matches are
// plain case-sensitive substrings, so abbreviations also match inside longer
// words.
func (c *Corrections) Street(name string) string {
	for _, r := range c.replacements {
		if strings.Contains(name, r.Abbreviation) {
			name = strings.Replace(name, r.Abbreviation, r.Expansion, -1)
		}
	}
	return name
}

// ValidPostcode returns whether code matches the postcode pattern.
func (c *Corrections) ValidPostcode(code string) bool {
	return c.postcode.MatchString(code)
}

// Postcode returns code if it is valid, or an empty string.
func (c *Corrections) Postcode(code string) string {
	if !c.ValidPostcode(code) {
		return ""
	}
	return code
}
