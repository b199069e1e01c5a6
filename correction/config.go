package correction

import (
	"io/ioutil"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// DefaultPostcode matches six digit postcodes, as used in Russia.
const DefaultPostcode = `^[0-9]{6}$`

// Config is the YAML representation of a correction table.
//
//	postcode: '^[0-9]{6}$'
//	abbreviations:
//	  ул.: улица
//	  пр.: проспект
//
// Abbreviations are applied in the order of the file.
type Config struct {
	Postcode      string        `yaml:"postcode"`
	Abbreviations yaml.MapSlice `yaml:"abbreviations"`
}

// FromFile loads corrections from a YAML file.
func FromFile(fname string) (*Corrections, error) {
	b, err := ioutil.ReadFile(fname)
	if err != nil {
		return nil, err
	}
	c, err := New(b)
	if err != nil {
		return nil, errors.Wrapf(err, "loading corrections %s", fname)
	}
	return c, nil
}

// New loads corrections from YAML. A missing postcode pattern falls back to
// DefaultPostcode.
func New(b []byte) (*Corrections, error) {
	conf := Config{}
	if err := yaml.Unmarshal(b, &conf); err != nil {
		return nil, err
	}

	replacements := make([]Replacement, 0, len(conf.Abbreviations))
	for _, item := range conf.Abbreviations {
		abbr, ok := item.Key.(string)
		if !ok || abbr == "" {
			return nil, errors.Errorf("abbreviation %v is not a string", item.Key)
		}
		expansion, ok := item.Value.(string)
		if !ok {
			return nil, errors.Errorf("expansion for %q is not a string", abbr)
		}
		replacements = append(replacements, Replacement{abbr, expansion})
	}

	postcode := conf.Postcode
	if postcode == "" {
		postcode = DefaultPostcode
	}
	return NewCorrections(replacements, postcode)
}

// Default returns the built-in corrections for Saint Petersburg exports.
func Default() *Corrections {
	c, err := NewCorrections(defaultReplacements, DefaultPostcode)
	if err != nil {
		panic(err)
	}
	return c
}

var defaultReplacements = []Replacement{
	{"пл.", "площадь"},
	{"Пл.", "Площадь"},
	{"ПЛ.", "Площадь"},
	{"пр.", "проспект"},
	{"ул.", "улица"},
}
