/*
Package reader opens OSM files and returns their elements in file order.
*/
package reader

import (
	"strings"

	"github.com/omniscale/osmjson/element"
	"github.com/omniscale/osmjson/logging"
	"github.com/omniscale/osmjson/parser/osmxml"
	"github.com/omniscale/osmjson/parser/pbf"
)

var log = logging.NewLogger("reader")

// ElementReader returns one element after another and io.EOF at the end.
type ElementReader interface {
	Next() (element.Element, error)
	Close() error
}

type Config struct {
	// Encoding of XML files, see osmxml.Config.
	Encoding string
}

// IsPBF returns whether fname is read with the PBF parser.
func IsPBF(fname string) bool {
	return strings.HasSuffix(fname, ".pbf")
}

// Open returns a reader for .osm.pbf files or OSM XML files (.osm, .osc,
// optionally .gz compressed).
func Open(fname string, conf Config) (ElementReader, error) {
	if IsPBF(fname) {
		if conf.Encoding != "" {
			log.Warnf("ignoring encoding %s for PBF file %s", conf.Encoding, fname)
		}
		return pbf.Open(fname)
	}
	return osmxml.Open(fname, osmxml.Config{Encoding: conf.Encoding})
}
