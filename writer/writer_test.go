package writer

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io/ioutil"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/omniscale/osmjson/shape"
)

var records = []*shape.Record{
	{
		Type:    "node",
		Created: shape.Fields{{Key: "version", Value: "1"}},
		Attrs:   shape.Fields{{Key: "id", Value: "1"}},
		Pos:     []float64{59.9, 30.3},
		Address: shape.Fields{{Key: "street", Value: "Невский проспект"}},
	},
	{
		Type:     "way",
		Attrs:    shape.Fields{{Key: "id", Value: "10"}},
		NodeRefs: []string{"1", "2", "1"},
	},
}

func TestOutputName(t *testing.T) {
	if got := OutputName("data/spb.osm"); got != "data/spb.osm.json" {
		t.Error("unexpected", got)
	}
}

func TestCompact(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONWriter(buf, false)
	for _, rec := range records {
		if err := w.Write(rec); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	expected := `{"created":{"version":"1"},"id":"1","pos":[59.9,30.3],"address":{"street":"Невский проспект"},"type":"node"}` + "\n" +
		`{"created":{},"id":"10","node_refs":["1","2","1"],"type":"way"}` + "\n"
	if buf.String() != expected {
		t.Errorf("unexpected output\n%s", buf.String())
	}
	if w.Count() != 2 {
		t.Error("unexpected count", w.Count())
	}
}

func TestPretty(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONWriter(buf, true)
	if err := w.Write(records[1]); err != nil {
		t.Fatal(err)
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}

	expected := `{
  "created": {},
  "id": "10",
  "node_refs": [
    "1",
    "2",
    "1"
  ],
  "type": "way"
}
`
	if buf.String() != expected {
		t.Errorf("unexpected output\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "\n\n") {
		t.Error("blank line in output")
	}
}

func TestCreateRoundTrip(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "test.osm.json")
	w, err := Create(fname, false)
	if err != nil {
		t.Fatal(err)
	}
	for _, rec := range records {
		if err := w.Write(rec); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	b, err := ioutil.ReadFile(fname)
	if err != nil {
		t.Fatal(err)
	}
	var lines []map[string]interface{}
	scanner := bufio.NewScanner(bytes.NewReader(b))
	for scanner.Scan() {
		var m map[string]interface{}
		if err := json.Unmarshal(scanner.Bytes(), &m); err != nil {
			t.Fatal(err)
		}
		lines = append(lines, m)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	expected := map[string]interface{}{
		"created":   map[string]interface{}{},
		"id":        "10",
		"node_refs": []interface{}{"1", "2", "1"},
		"type":      "way",
	}
	if !reflect.DeepEqual(lines[1], expected) {
		t.Errorf("unexpected record %v", lines[1])
	}
}

func TestCreateInvalidPath(t *testing.T) {
	if _, err := Create(filepath.Join(t.TempDir(), "missing", "out.json"), false); err == nil {
		t.Error("expected error")
	}
}
