package format

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParseJSONPreservesKeyOrder(t *testing.T) {
	v, err := Parse(`{"zeta": 1, "alpha": 2, "mid": {"b": true, "a": null}}`, FormatJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m, ok := v.(*Mapping)
	if !ok {
		t.Fatalf("expected *Mapping, got %T", v)
	}
	var keys []string
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	if got, want := strings.Join(keys, ","), "zeta,alpha,mid"; got != want {
		t.Fatalf("key order %q, want %q", got, want)
	}
	if n, _ := m.Get("zeta"); n.(json.Number).String() != "1" {
		t.Fatalf("zeta = %v", n)
	}
}

func TestParseJSONArray(t *testing.T) {
	v, err := Parse(`[1, "two", false, null]`, FormatJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	seq, ok := v.(Sequence)
	if !ok {
		t.Fatalf("expected Sequence, got %T", v)
	}
	if len(seq) != 4 {
		t.Fatalf("len = %d, want 4", len(seq))
	}
	if seq[1] != "two" || seq[2] != false || seq[3] != nil {
		t.Fatalf("unexpected elements: %v", seq)
	}
}

func TestParseBrokenJSONFallsBack(t *testing.T) {
	v, err := Parse(`{"a":`, FormatJSON)
	if err == nil {
		t.Fatal("expected a parse error")
	}
	m, ok := v.(*Mapping)
	if !ok {
		t.Fatalf("expected fallback *Mapping, got %T", v)
	}
	if f, _ := m.Get("format"); f != "text" {
		t.Fatalf("format = %v, want text", f)
	}
	errVal, _ := m.Get("error")
	if !strings.HasPrefix(errVal.(string), "Parsing error:") {
		t.Fatalf("error field = %v", errVal)
	}
	if c, _ := m.Get("content"); c != `{"a":` {
		t.Fatalf("content = %v", c)
	}
}

func TestParseYAML(t *testing.T) {
	v, err := Parse("name: Ada\ncount: 3\nratio: 0.5\nok: true\nempty:\ntags:\n  - x\n  - y", FormatYAML)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := v.(*Mapping)
	if got, _ := m.Get("name"); got != "Ada" {
		t.Fatalf("name = %v", got)
	}
	if got, _ := m.Get("count"); got != int64(3) {
		t.Fatalf("count = %v (%T)", got, got)
	}
	if got, _ := m.Get("ratio"); got != 0.5 {
		t.Fatalf("ratio = %v", got)
	}
	if got, _ := m.Get("ok"); got != true {
		t.Fatalf("ok = %v", got)
	}
	if got, _ := m.Get("empty"); got != nil {
		t.Fatalf("empty = %v", got)
	}
	tags, _ := m.Get("tags")
	if seq := tags.(Sequence); len(seq) != 2 || seq[0] != "x" {
		t.Fatalf("tags = %v", tags)
	}
}

func TestParseCSVProducesTabularSentinel(t *testing.T) {
	v, err := Parse("name,age,city\nalice,30,nyc\nbob,25,la", FormatCSV)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := v.(*Mapping)
	if f, _ := m.Get("format"); f != "tabular" {
		t.Fatalf("format = %v, want tabular", f)
	}
	data, _ := m.Get("data")
	rows := data.(Sequence)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	first := rows[0].(*Mapping)
	if name, _ := first.Get("name"); name != "alice" {
		t.Fatalf("name = %v", name)
	}
	if city, _ := first.Get("city"); city != "nyc" {
		t.Fatalf("city = %v", city)
	}
}

func TestParseTSVShortRowPadsNil(t *testing.T) {
	v, err := Parse("a\tb\tc\n1\t2", FormatTSV)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rows, _ := v.(*Mapping).Get("data")
	row := rows.(Sequence)[0].(*Mapping)
	if got, _ := row.Get("c"); got != nil {
		t.Fatalf("c = %v, want nil", got)
	}
}

func TestParseUnstructuredText(t *testing.T) {
	v, err := Parse("hello world", FormatText)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := v.(*Mapping)
	if c, _ := m.Get("content"); c != "hello world" {
		t.Fatalf("content = %v", c)
	}
	if d, _ := m.Get("detected_format"); d != string(FormatText) {
		t.Fatalf("detected_format = %v", d)
	}
	if _, ok := m.Get("error"); ok {
		t.Fatal("no error field expected for clean text input")
	}
}
