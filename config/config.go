package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/pkg/errors"
)

// Config is the JSON config file, passed with -config. Options from the
// command line take precedence.
type Config struct {
	Encoding    string `json:"encoding"`
	Clean       *bool  `json:"clean"`
	Corrections string `json:"corrections"`
	Pretty      bool   `json:"pretty"`
	Connection  string `json:"connection"`
	Schema      string `json:"schema"`
	Table       string `json:"table"`
}

const defaultSchema = "public"
const defaultTable = "osm_records"

type ConvertOptions struct {
	Read        string
	Pretty      bool
	Clean       bool
	Corrections string
	Encoding    string
	Connection  string
	Schema      string
	Table       string
	ConfigFile  string
	Httpprofile string
	Quiet       bool
}

func addConvertFlags(flags *flag.FlagSet, opts *ConvertOptions) {
	flags.StringVar(&opts.Read, "read", "", "input file (.osm, .osm.gz, .osm.pbf)")
	flags.BoolVar(&opts.Pretty, "pretty", false, "write indented JSON")
	flags.BoolVar(&opts.Clean, "clean", true, "correct street names and postcodes, -clean=false for plain conversion")
	flags.StringVar(&opts.Corrections, "corrections", "", "correction tables (yaml), implies -clean")
	flags.StringVar(&opts.Encoding, "encoding", "", "character set of the input, overrides the XML declaration")
	flags.StringVar(&opts.Connection, "connection", "", "also load records into postgres://...")
	flags.StringVar(&opts.Schema, "schema", defaultSchema, "db schema for -connection")
	flags.StringVar(&opts.Table, "table", defaultTable, "db table for -connection")
	flags.StringVar(&opts.ConfigFile, "config", "", "config (json)")
	flags.StringVar(&opts.Httpprofile, "httpprofile", "", "bind address for profile and metrics server")
	flags.BoolVar(&opts.Quiet, "quiet", false, "quiet log output")
}

// updateFromConfig sets all options that were not passed on the command
// line from the config file.
func (o *ConvertOptions) updateFromConfig(passed map[string]bool) error {
	if o.ConfigFile == "" {
		return nil
	}
	conf := &Config{}
	f, err := os.Open(o.ConfigFile)
	if err != nil {
		return err
	}
	defer f.Close()
	decoder := json.NewDecoder(f)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(conf); err != nil {
		return errors.Wrapf(err, "reading config %s", o.ConfigFile)
	}

	if !passed["encoding"] {
		o.Encoding = conf.Encoding
	}
	if !passed["corrections"] {
		o.Corrections = conf.Corrections
	}
	if !passed["connection"] {
		o.Connection = conf.Connection
	}
	if conf.Schema != "" && !passed["schema"] {
		o.Schema = conf.Schema
	}
	if conf.Table != "" && !passed["table"] {
		o.Table = conf.Table
	}
	if conf.Clean != nil && !passed["clean"] {
		o.Clean = *conf.Clean
	}
	if !passed["pretty"] {
		o.Pretty = conf.Pretty
	}
	return nil
}

func (o *ConvertOptions) check() []error {
	errs := []error{}
	if o.Read == "" {
		errs = append(errs, errors.New("missing input file"))
	}
	if o.Corrections != "" {
		o.Clean = true
	}
	if o.Connection != "" && o.Table == "" {
		errs = append(errs, errors.New("missing -table for -connection"))
	}
	return errs
}

func newConvertFlags(opts *ConvertOptions, handling flag.ErrorHandling) *flag.FlagSet {
	flags := flag.NewFlagSet("convert", handling)
	addConvertFlags(flags, opts)
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "Usage: %s convert [args] [input]\n\n", os.Args[0])
		flags.PrintDefaults()
	}
	return flags
}

func parseConvert(flags *flag.FlagSet, opts *ConvertOptions, args []string) []error {
	if err := flags.Parse(args); err != nil {
		return []error{err}
	}
	if opts.Read == "" && flags.NArg() > 0 {
		opts.Read = flags.Arg(0)
	}
	passed := make(map[string]bool)
	flags.Visit(func(f *flag.Flag) { passed[f.Name] = true })
	if err := opts.updateFromConfig(passed); err != nil {
		return []error{err}
	}
	return opts.check()
}

// ParseConvert parses the arguments of the convert sub command. Exits
// with usage information on invalid options.
func ParseConvert(args []string) ConvertOptions {
	opts := ConvertOptions{}
	flags := newConvertFlags(&opts, flag.ExitOnError)
	if len(args) == 0 {
		flags.Usage()
		os.Exit(2)
	}
	if errs := parseConvert(flags, &opts, args); len(errs) != 0 {
		reportErrors(errs)
		flags.Usage()
		os.Exit(2)
	}
	return opts
}

func reportErrors(errs []error) {
	fmt.Fprintln(os.Stderr, "errors in config/options:")
	for _, err := range errs {
		fmt.Fprintf(os.Stderr, "\t%s\n", err)
	}
}
