package config

import (
	"flag"
	"io/ioutil"
	"path/filepath"
	"testing"
)

func parse(t *testing.T, args ...string) (ConvertOptions, []error) {
	t.Helper()
	opts := ConvertOptions{}
	flags := newConvertFlags(&opts, flag.ContinueOnError)
	flags.SetOutput(ioutil.Discard)
	errs := parseConvert(flags, &opts, args)
	return opts, errs
}

func writeConfig(t *testing.T, doc string) string {
	t.Helper()
	fname := filepath.Join(t.TempDir(), "config.json")
	if err := ioutil.WriteFile(fname, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	return fname
}

func TestParseDefaults(t *testing.T) {
	opts, errs := parse(t, "spb.osm")
	if len(errs) != 0 {
		t.Fatal(errs)
	}
	expected := ConvertOptions{Read: "spb.osm", Clean: true, Schema: "public", Table: "osm_records"}
	if opts != expected {
		t.Errorf("unexpected options %#v", opts)
	}
}

func TestParseFlags(t *testing.T) {
	opts, errs := parse(t,
		"-read", "spb.osm.pbf",
		"-pretty",
		"-corrections", "ru.yml",
		"-encoding", "windows-1251",
		"-connection", "postgres://localhost/osm",
		"-table", "spb",
		"-quiet",
	)
	if len(errs) != 0 {
		t.Fatal(errs)
	}
	if opts.Read != "spb.osm.pbf" || !opts.Pretty || !opts.Quiet {
		t.Errorf("unexpected options %#v", opts)
	}
	if !opts.Clean {
		t.Error("-corrections should imply -clean")
	}
	if opts.Encoding != "windows-1251" || opts.Table != "spb" || opts.Connection != "postgres://localhost/osm" {
		t.Errorf("unexpected options %#v", opts)
	}
}

func TestParseMissingInput(t *testing.T) {
	if _, errs := parse(t, "-pretty"); len(errs) != 1 {
		t.Errorf("expected one error, got %v", errs)
	}
	if _, errs := parse(t, "-unknown"); len(errs) != 1 {
		t.Errorf("expected flag error, got %v", errs)
	}
}

func TestParseConfigFile(t *testing.T) {
	fname := writeConfig(t, `{
		"encoding": "windows-1251",
		"clean": true,
		"pretty": true,
		"connection": "postgres://localhost/osm",
		"schema": "import",
		"table": "spb"
	}`)

	opts, errs := parse(t, "-config", fname, "spb.osm")
	if len(errs) != 0 {
		t.Fatal(errs)
	}
	expected := ConvertOptions{
		Read:       "spb.osm",
		Pretty:     true,
		Clean:      true,
		Encoding:   "windows-1251",
		Connection: "postgres://localhost/osm",
		Schema:     "import",
		Table:      "spb",
		ConfigFile: fname,
	}
	if opts != expected {
		t.Errorf("unexpected options %#v", opts)
	}

	// command line wins
	opts, errs = parse(t, "-config", fname, "-encoding", "utf-8", "-table", "other", "spb.osm")
	if len(errs) != 0 {
		t.Fatal(errs)
	}
	if opts.Encoding != "utf-8" || opts.Table != "other" {
		t.Errorf("config file overwrote options %#v", opts)
	}
}

func TestParseInvalidConfigFile(t *testing.T) {
	fname := writeConfig(t, `{"unknown": 1}`)
	if _, errs := parse(t, "-config", fname, "spb.osm"); len(errs) != 1 {
		t.Errorf("expected error for unknown field, got %v", errs)
	}
	if _, errs := parse(t, "-config", fname+".missing", "spb.osm"); len(errs) != 1 {
		t.Errorf("expected error for missing file, got %v", errs)
	}
}

func TestParseClean(t *testing.T) {
	disabled := writeConfig(t, `{"clean": false}`)
	empty := writeConfig(t, `{}`)

	for _, tc := range []struct {
		args     []string
		expected bool
	}{
		{[]string{"spb.osm"}, true},
		{[]string{"-clean=false", "spb.osm"}, false},
		{[]string{"-clean=false", "-corrections", "ru.yml", "spb.osm"}, true},
		{[]string{"-config", disabled, "spb.osm"}, false},
		{[]string{"-config", disabled, "-clean", "spb.osm"}, true},
		{[]string{"-config", empty, "spb.osm"}, true},
	} {
		opts, errs := parse(t, tc.args...)
		if len(errs) != 0 {
			t.Fatal(tc.args, errs)
		}
		if opts.Clean != tc.expected {
			t.Errorf("%v: expected clean=%v", tc.args, tc.expected)
		}
	}
}
