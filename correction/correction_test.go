package correction

import (
	"io/ioutil"
	"path/filepath"
	"reflect"
	"testing"
)

func TestStreet(t *testing.T) {
	c := Default()

	tests := []struct {
		name     string
		expected string
	}{
		{"Невский пр.", "Невский проспект"},
		{"ул. Марата", "улица Марата"},
		{"Сенная пл.", "Сенная площадь"},
		{"ПЛ. Восстания", "Площадь Восстания"},
		// multiple abbreviations in one name
		{"ул. Ленина, пр. Мира", "улица Ленина, проспект Мира"},
		// same abbreviation twice
		{"пр. пр.", "проспект проспект"},
		// substring match inside longer words is kept as is
		{"Апр.", "Апроспект"},
		{"Садовая улица", "Садовая улица"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := c.Street(tt.name); got != tt.expected {
			t.Errorf("Street(%q) = %q, expected %q", tt.name, got, tt.expected)
		}
	}
}

func TestStreetIdempotent(t *testing.T) {
	c := Default()
	for _, name := range []string{"Невский пр.", "ул. Марата", "пл. Труда"} {
		once := c.Street(name)
		if twice := c.Street(once); twice != once {
			t.Errorf("second pass changed %q to %q", once, twice)
		}
	}
}

func TestStreetTableOrder(t *testing.T) {
	// the second replacement sees the result of the first
	c, err := NewCorrections([]Replacement{{"St.", "Str."}, {"Str.", "Street"}}, DefaultPostcode)
	if err != nil {
		t.Fatal(err)
	}
	if got := c.Street("Main St."); got != "Main Street" {
		t.Error("unexpected", got)
	}
}

func TestPostcode(t *testing.T) {
	c := Default()
	tests := []struct {
		code     string
		expected string
	}{
		{"190000", "190000"},
		{"19000", ""},
		{"abcde6", ""},
		{"1900000", ""},
		{" 190000", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := c.Postcode(tt.code); got != tt.expected {
			t.Errorf("Postcode(%q) = %q, expected %q", tt.code, got, tt.expected)
		}
	}
}

func TestNewFromYAML(t *testing.T) {
	c, err := New([]byte(`
postcode: '^[0-9]{5}$'
abbreviations:
  Str.: Straße
  Pl.: Platz
`))
	if err != nil {
		t.Fatal(err)
	}
	expected := []Replacement{{"Str.", "Straße"}, {"Pl.", "Platz"}}
	if got := c.Replacements(); !reflect.DeepEqual(got, expected) {
		t.Errorf("unexpected replacements %v", got)
	}
	if c.Street("Hauptstr.") != "Hauptstr." {
		t.Error("case-sensitive match expected")
	}
	if c.Street("Kaiser-Pl.") != "Kaiser-Platz" {
		t.Error("unexpected", c.Street("Kaiser-Pl."))
	}
	if c.Postcode("53111") != "53111" || c.Postcode("190000") != "" {
		t.Error("postcode pattern not applied")
	}
}

func TestNewDefaultPostcode(t *testing.T) {
	c, err := New([]byte(`abbreviations: {}`))
	if err != nil {
		t.Fatal(err)
	}
	if c.Postcode("190000") != "190000" {
		t.Error("default postcode pattern not used")
	}
	if len(c.Replacements()) != 0 {
		t.Error("unexpected replacements", c.Replacements())
	}
}

func TestNewErrors(t *testing.T) {
	for _, doc := range []string{
		"postcode: '[0-9'",
		"abbreviations:\n  foo: [1, 2]",
	} {
		if _, err := New([]byte(doc)); err == nil {
			t.Errorf("expected error for %q", doc)
		}
	}
}

func TestFromFile(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "corrections.yml")
	if err := ioutil.WriteFile(fname, []byte("abbreviations:\n  пр.: проспект\n"), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := FromFile(fname)
	if err != nil {
		t.Fatal(err)
	}
	if got := c.Street("Невский пр."); got != "Невский проспект" {
		t.Error("unexpected", got)
	}

	if _, err := FromFile(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Error("expected error for missing file")
	}
}
