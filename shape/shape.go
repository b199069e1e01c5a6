/*
Package shape converts OSM elements into records for document stores.

Only nodes and ways are converted. Metadata attributes are grouped in
"created", coordinates in "pos", addr:* tags in "address" and the refs of
ways in "node_refs". All other attributes are copied as they are.
*/
package shape

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/omniscale/osmjson/correction"
	"github.com/omniscale/osmjson/element"
	"github.com/pkg/errors"
)

// CreatedAttrs are grouped in the "created" member of a record.
var CreatedAttrs = []string{"version", "changeset", "timestamp", "user", "uid"}

// ProblemChars matches tag keys that are not converted.
const ProblemChars = `[=\+/&<>;'"\?%#$@,\. \t\r\n]`

const addrPrefix = "addr:"

// Shaper converts elements into records. A Shaper is immutable and can be
// shared.
type Shaper struct {
	corrections  *correction.Corrections
	problemChars *regexp.Regexp
	created      map[string]bool
}

// New returns a Shaper. Street names and postcodes are corrected with
// corrections; pass nil to copy address values unchanged.
func New(corrections *correction.Corrections) *Shaper {
	created := make(map[string]bool, len(CreatedAttrs))
	for _, name := range CreatedAttrs {
		created[name] = true
	}
	return &Shaper{
		corrections:  corrections,
		problemChars: regexp.MustCompile(ProblemChars),
		created:      created,
	}
}

// Shape converts a node or way into a record. It returns nil for all other
// elements. Only invalid lat/lon values result in an error.
func (s *Shaper) Shape(elem *element.Element) (*Record, error) {
	if elem.Name != element.Node && elem.Name != element.Way {
		return nil, nil
	}

	rec := &Record{
		Type:    elem.Name,
		Created: Fields{},
	}

	for _, attr := range elem.Attrs {
		switch {
		case s.created[attr.Name]:
			rec.Created.Set(attr.Name, attr.Value)
		case attr.Name == "lat" || attr.Name == "lon":
		case reserved[attr.Name]:
		default:
			rec.Attrs.Set(attr.Name, attr.Value)
		}
	}

	lat, hasLat := elem.Attrs.Get("lat")
	lon, hasLon := elem.Attrs.Get("lon")
	if hasLat && hasLon {
		pos, err := parsePos(lat, lon)
		if err != nil {
			id, _ := elem.Attrs.Get("id")
			return nil, errors.Wrapf(err, "parsing position of %s %s", elem.Name, id)
		}
		rec.Pos = pos
	}

	for i := range elem.Children {
		child := &elem.Children[i]
		if child.IsTag() {
			key, _ := child.Attrs.Get("k")
			value, _ := child.Attrs.Get("v")
			s.addTag(rec, key, value)
		}
		if child.IsNodeRef() {
			if ref, ok := child.Attrs.Get("ref"); ok {
				rec.NodeRefs = append(rec.NodeRefs, ref)
			}
		}
	}

	rec.removeShadowed()
	return rec, nil
}

func parsePos(lat, lon string) ([]float64, error) {
	y, err := parseCoord(lat)
	if err != nil {
		return nil, err
	}
	x, err := parseCoord(lon)
	if err != nil {
		return nil, err
	}
	return []float64{y, x}, nil
}

func parseCoord(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	// not representable in JSON
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.Errorf("invalid coordinate %q", s)
	}
	return v, nil
}

// ValidKey returns whether a tag key is converted at all.
func (s *Shaper) ValidKey(key string) bool {
	return !s.problemChars.MatchString(key) && strings.Count(key, ":") <= 1
}

func (s *Shaper) addTag(rec *Record, key, value string) {
	if !s.ValidKey(key) || !strings.HasPrefix(key, addrPrefix) {
		return
	}
	field := strings.TrimPrefix(key, addrPrefix)
	if s.corrections != nil {
		switch field {
		case "street":
			value = s.corrections.Street(value)
		case "postcode":
			value = s.corrections.Postcode(value)
		}
	}
	if rec.Address == nil {
		rec.Address = Fields{}
	}
	rec.Address.Set(field, value)
}
