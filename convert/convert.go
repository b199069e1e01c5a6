/*
Package convert provides the convert sub command. It reads OSM elements,
shapes nodes and ways into records and writes them as JSON lines.
*/
package convert

import (
	"encoding/json"
	"io"

	"github.com/omniscale/osmjson/correction"
	"github.com/omniscale/osmjson/database"
	"github.com/omniscale/osmjson/element"
	"github.com/omniscale/osmjson/reader"
	"github.com/omniscale/osmjson/shape"
	"github.com/omniscale/osmjson/stats"
	"github.com/omniscale/osmjson/writer"
	"github.com/pkg/errors"
)

// Converter converts a single input file per ProcessMap call.
type Converter struct {
	Shaper *shape.Shaper
	// Encoding of XML input, empty to use the XML declaration.
	Encoding string
	// DB receives every record in addition to the output file, optional.
	DB database.DB
	// Progress counts elements and records, optional.
	Progress *stats.Statistics
}

// New returns a Converter without database and statistics.
func New(shaper *shape.Shaper) *Converter {
	return &Converter{Shaper: shaper}
}

// ProcessMap converts all elements of the OSM file fname in file order and
// writes one JSON record per line to fname + ".json". fn is called for each
// written record, if not nil. The output file is closed on every return
// path.
func (c *Converter) ProcessMap(fname string, pretty bool, fn func(*shape.Record) error) (err error) {
	r, err := reader.Open(fname, reader.Config{Encoding: c.Encoding})
	if err != nil {
		return errors.Wrapf(err, "opening input %s", fname)
	}
	defer r.Close()

	outName := writer.OutputName(fname)
	w, err := writer.Create(outName, pretty)
	if err != nil {
		return errors.Wrapf(err, "opening output %s", outName)
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if c.DB != nil {
		if err := c.DB.Begin(); err != nil {
			return err
		}
		defer func() {
			if err != nil {
				c.DB.Abort()
			}
		}()
	}

	for {
		elem, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrapf(err, "reading %s", fname)
		}
		if err := c.process(&elem, w, fn); err != nil {
			return err
		}
	}

	if c.DB != nil {
		if err := c.DB.End(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Converter) process(elem *element.Element, w *writer.JSONWriter, fn func(*shape.Record) error) error {
	if c.Progress != nil {
		c.Progress.AddElements(1)
	}
	rec, err := c.Shaper.Shape(elem)
	if err != nil {
		return err
	}
	if rec == nil {
		if c.Progress != nil {
			c.Progress.AddSkipped(1)
		}
		return nil
	}
	if err := w.Write(rec); err != nil {
		return err
	}
	if c.DB != nil {
		doc, err := json.Marshal(rec)
		if err != nil {
			return errors.Wrapf(err, "encoding %s", rec.Type)
		}
		if err := c.DB.Insert(doc); err != nil {
			return err
		}
	}
	if c.Progress != nil {
		c.Progress.AddRecord(rec.Type)
	}
	if fn != nil {
		return fn(rec)
	}
	return nil
}

// ProcessMap converts fname with the default street corrections and
// postcode validation. Use New(shape.New(nil)) for a plain conversion.
func ProcessMap(fname string, pretty bool, fn func(*shape.Record) error) error {
	return New(shape.New(correction.Default())).ProcessMap(fname, pretty, fn)
}
