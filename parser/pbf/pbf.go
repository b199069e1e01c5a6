/*
Package pbf reads OpenStreetMap PBF files as a stream of elements.

Nodes, ways and relations are converted into the same elements the XML
parser returns, with the attributes and children of an OSM XML export.
*/
package pbf

import (
	"context"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	osm "github.com/omniscale/go-osm"
	osmpbf "github.com/omniscale/go-osm/parser/pbf"
	"github.com/omniscale/osmjson/element"
	"github.com/pkg/errors"
)

// Parser returns the elements of a PBF file in file order. Blocks are decoded
// by a single background goroutine.
type Parser struct {
	file   io.Closer
	nodes  chan []osm.Node
	ways   chan []osm.Way
	rels   chan []osm.Relation
	errc   chan error
	cancel context.CancelFunc
	queue  []element.Element
	pos    int
	err    error
}

// Open starts parsing fname.
func Open(fname string) (*Parser, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	p := New(f)
	p.file = f
	return p, nil
}

// New starts parsing r.
func New(r io.Reader) *Parser {
	ctx, cancel := context.WithCancel(context.Background())
	p := &Parser{
		nodes:  make(chan []osm.Node),
		ways:   make(chan []osm.Way),
		rels:   make(chan []osm.Relation),
		errc:   make(chan error, 1),
		cancel: cancel,
	}

	parser := osmpbf.New(r, osmpbf.Config{
		IncludeMetadata: true,
		Nodes:           p.nodes,
		Ways:            p.ways,
		Relations:       p.rels,
		// more than one parser would change the order of the elements
		Concurrency: 1,
	})
	go func() {
		p.errc <- parser.Parse(ctx)
	}()
	return p
}

// Next returns the next element. Returns io.EOF at the end of the file.
func (p *Parser) Next() (element.Element, error) {
	for p.pos >= len(p.queue) {
		if p.err != nil {
			return element.Element{}, p.err
		}
		p.queue, p.pos = p.queue[:0], 0

		select {
		case nds, ok := <-p.nodes:
			if !ok {
				p.nodes = nil
				continue
			}
			for i := range nds {
				p.queue = append(p.queue, NodeElement(&nds[i]))
			}
		case ws, ok := <-p.ways:
			if !ok {
				p.ways = nil
				continue
			}
			for i := range ws {
				p.queue = append(p.queue, WayElement(&ws[i]))
			}
		case rs, ok := <-p.rels:
			if !ok {
				p.rels = nil
				continue
			}
			for i := range rs {
				p.queue = append(p.queue, RelationElement(&rs[i]))
			}
		case err := <-p.errc:
			p.errc = nil
			if err != nil {
				p.err = errors.Wrap(err, "parsing PBF")
			} else {
				// all channels are closed before Parse returns
				p.err = io.EOF
			}
		}
	}
	elem := p.queue[p.pos]
	p.pos++
	return elem, nil
}

// Close stops the parser and closes the file.
func (p *Parser) Close() error {
	p.cancel()
	go p.drain()
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}

// drain unblocks the background parser after Close.
func (p *Parser) drain() {
	for p.nodes != nil || p.ways != nil || p.rels != nil {
		var idle <-chan time.Time
		if p.errc == nil {
			// Parse returned, but channels are not closed on errors
			idle = time.After(time.Second)
		}
		select {
		case _, ok := <-p.nodes:
			if !ok {
				p.nodes = nil
			}
		case _, ok := <-p.ways:
			if !ok {
				p.ways = nil
			}
		case _, ok := <-p.rels:
			if !ok {
				p.rels = nil
			}
		case <-p.errc:
			p.errc = nil
		case <-idle:
			return
		}
	}
}

// NodeElement converts a node into a <node> element.
func NodeElement(n *osm.Node) element.Element {
	elem := element.Element{Name: element.Node}
	elem.Attrs = append(elem.Attrs, element.Attr{Name: "id", Value: formatInt(n.ID)})
	elem.Attrs = appendMetadata(elem.Attrs, n.Metadata)
	elem.Attrs = append(elem.Attrs,
		element.Attr{Name: "lat", Value: formatCoord(n.Lat)},
		element.Attr{Name: "lon", Value: formatCoord(n.Long)},
	)
	addTags(&elem, n.Tags)
	return elem
}

// WayElement converts a way into a <way> element with nd children.
func WayElement(w *osm.Way) element.Element {
	elem := element.Element{Name: element.Way}
	elem.Attrs = append(elem.Attrs, element.Attr{Name: "id", Value: formatInt(w.ID)})
	elem.Attrs = appendMetadata(elem.Attrs, w.Metadata)
	for _, ref := range w.Refs {
		elem.AddNodeRef(formatInt(ref))
	}
	addTags(&elem, w.Tags)
	return elem
}

var memberTypes = map[osm.MemberType]string{
	osm.NodeMember:     element.Node,
	osm.WayMember:      element.Way,
	osm.RelationMember: element.Relation,
}

// RelationElement converts a relation into a <relation> element with member
// children.
func RelationElement(r *osm.Relation) element.Element {
	elem := element.Element{Name: element.Relation}
	elem.Attrs = append(elem.Attrs, element.Attr{Name: "id", Value: formatInt(r.ID)})
	elem.Attrs = appendMetadata(elem.Attrs, r.Metadata)
	for _, m := range r.Members {
		elem.Children = append(elem.Children, element.Child{
			Name: element.Member,
			Attrs: element.Attrs{
				{Name: "type", Value: memberTypes[m.Type]},
				{Name: "ref", Value: formatInt(m.ID)},
				{Name: "role", Value: m.Role},
			},
		})
	}
	addTags(&elem, r.Tags)
	return elem
}

// appendMetadata appends the metadata in the attribute order of
// OSM XML exports.
func appendMetadata(attrs element.Attrs, md *osm.Metadata) element.Attrs {
	if md == nil {
		return attrs
	}
	return append(attrs,
		element.Attr{Name: "version", Value: strconv.FormatInt(int64(md.Version), 10)},
		element.Attr{Name: "changeset", Value: formatInt(md.Changeset)},
		element.Attr{Name: "timestamp", Value: md.Timestamp.UTC().Format(time.RFC3339)},
		element.Attr{Name: "user", Value: md.UserName},
		element.Attr{Name: "uid", Value: strconv.FormatInt(int64(md.UserID), 10)},
	)
}

// addTags adds tag children sorted by key.
func addTags(elem *element.Element, tags osm.Tags) {
	if len(tags) == 0 {
		return
	}
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		elem.AddTag(k, tags[k])
	}
}

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}

// formatCoord formats with the 1e-7 precision of OSM XML exports.
func formatCoord(v float64) string {
	s := strconv.FormatFloat(v, 'f', 7, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
