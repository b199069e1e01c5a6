/*
Package osmxml provides a stream based parser for OSM XML files (.osm, .osc).

Elements are returned in document order when their end tag is read, including
the tag and nd children of nodes and ways. Only tag, nd and member elements
are kept as children of their parent, so containers like <osm> or the
<create> blocks of change files do not grow with the file size.
*/
package osmxml

import (
	"compress/gzip"
	"encoding/xml"
	"io"
	"os"
	"strings"

	"github.com/omniscale/osmjson/element"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/htmlindex"
)

// Config configures the character set handling of a Parser.
type Config struct {
	// Encoding forces the character set of the input (e.g. windows-1251).
	// The encoding from the XML declaration is ignored in this case. By
	// default, the declared encoding is used and UTF-8 is assumed without
	// declaration.
	Encoding string
}

// Parser reads one element at a time. A Parser is not safe for concurrent
// use.
type Parser struct {
	decoder *xml.Decoder
	open    []element.Element
	onClose func() error
}

// New creates a new parser for the provided input.
func New(r io.Reader, conf Config) (*Parser, error) {
	forced := conf.Encoding != ""
	if forced {
		enc, err := htmlindex.Get(conf.Encoding)
		if err != nil {
			return nil, errors.Wrapf(err, "unknown encoding %q", conf.Encoding)
		}
		r = enc.NewDecoder().Reader(r)
	}

	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		if forced {
			// already decoded
			return input, nil
		}
		enc, err := htmlindex.Get(charset)
		if err != nil {
			return nil, errors.Wrapf(err, "unsupported document encoding %q", charset)
		}
		return enc.NewDecoder().Reader(input), nil
	}
	return &Parser{decoder: decoder}, nil
}

// Open returns a parser for an .osm file. Files ending with .gz are
// decompressed.
func Open(fname string, conf Config) (*Parser, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}

	var r io.Reader = f
	if strings.HasSuffix(fname, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, errors.Wrapf(err, "reading %s", fname)
		}
		r = gz
	}

	p, err := New(r, conf)
	if err != nil {
		f.Close()
		return nil, err
	}
	p.onClose = f.Close
	return p, nil
}

// Next returns the next element of the document. Returns io.EOF and an empty
// Element at the end of the document.
func (p *Parser) Next() (element.Element, error) {
	for {
		token, err := p.decoder.Token()
		if err == io.EOF {
			return element.Element{}, io.EOF
		}
		if err != nil {
			return element.Element{}, errors.Wrap(err, "decoding next XML token")
		}

		switch tok := token.(type) {
		case xml.StartElement:
			elem := element.Element{Name: tok.Name.Local}
			if len(tok.Attr) > 0 {
				elem.Attrs = make(element.Attrs, 0, len(tok.Attr))
				for _, attr := range tok.Attr {
					if attr.Name.Space == "xmlns" || attr.Name.Local == "xmlns" {
						continue
					}
					elem.Attrs = append(elem.Attrs, element.Attr{Name: attr.Name.Local, Value: attr.Value})
				}
			}
			p.open = append(p.open, elem)
		case xml.EndElement:
			n := len(p.open)
			elem := p.open[n-1]
			p.open = p.open[:n-1]
			if n >= 2 && element.IsChildName(elem.Name) {
				parent := &p.open[n-2]
				parent.Children = append(parent.Children, element.Child{Name: elem.Name, Attrs: elem.Attrs})
			}
			return elem, nil
		}
	}
}

// Close closes the underlying file, if the parser was created with Open.
func (p *Parser) Close() error {
	if p.onClose != nil {
		err := p.onClose()
		p.onClose = nil
		return err
	}
	return nil
}
