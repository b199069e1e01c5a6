package convert

import (
	"github.com/omniscale/osmjson/config"
	"github.com/omniscale/osmjson/correction"
	"github.com/omniscale/osmjson/database"
	_ "github.com/omniscale/osmjson/database/postgres"
	"github.com/omniscale/osmjson/logging"
	"github.com/omniscale/osmjson/shape"
	"github.com/omniscale/osmjson/stats"
	"github.com/omniscale/osmjson/writer"
	"github.com/pkg/errors"
)

var log = logging.NewLogger("")

// Convert runs the convert sub command.
func Convert(opts config.ConvertOptions) {
	if opts.Quiet {
		logging.SetQuiet(true)
	}
	if err := run(opts); err != nil {
		log.Fatal(err)
	}
}

// run converts opts.Read. The database is closed before run returns.
func run(opts config.ConvertOptions) error {
	var corrections *correction.Corrections
	if opts.Corrections != "" {
		var err error
		corrections, err = correction.FromFile(opts.Corrections)
		if err != nil {
			return errors.Wrap(err, "corrections")
		}
	} else if opts.Clean {
		corrections = correction.Default()
	}

	conv := New(shape.New(corrections))
	conv.Encoding = opts.Encoding

	if opts.Connection != "" {
		db, err := database.Open(database.Config{
			ConnectionParams: opts.Connection,
			Schema:           opts.Schema,
			Table:            opts.Table,
		})
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.Init(); err != nil {
			return err
		}
		conv.DB = db
	}

	step := log.StartStep("Converting " + opts.Read)
	conv.Progress = stats.NewStatsReporter()
	err := conv.ProcessMap(opts.Read, opts.Pretty, nil)
	counts := conv.Progress.Stop()
	if err != nil {
		return err
	}
	log.StopStep(step)
	log.Printf("%s: %s", writer.OutputName(opts.Read), counts)
	return nil
}
