package format

import (
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Format is the classification tag assigned to raw input text before parsing.
type Format string

const (
	FormatJSON Format = "JSON"
	FormatXML  Format = "XML"
	FormatYAML Format = "YAML"
	FormatCSV  Format = "CSV"
	FormatTSV  Format = "TSV"
	FormatText Format = "Unstructured Text"
)

// Value is the generic in-memory representation shared by every parser and
// renderer: a scalar (string, json.Number, int64, float64, bool or nil), a
// *Mapping, or a Sequence.
type Value any

// Mapping is an insertion-ordered map of string keys to generic values.
// Iteration order matches insertion order, which the Markdown and HTML
// renderers rely on for stable output.
type Mapping = orderedmap.OrderedMap[string, Value]

// NewMapping returns an empty ordered mapping.
func NewMapping() *Mapping { return orderedmap.New[string, Value]() }

// Sequence is an ordered list of generic values.
type Sequence []Value

// ScalarString renders a scalar value the way the text-based renderers (CSV,
// XML, Markdown, HTML) embed it. Nested mappings and sequences collapse to
// compact JSON.
func ScalarString(v Value) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return fmt.Sprintf("%t", t)
	case *Mapping, Sequence:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(b)
	default:
		return fmt.Sprintf("%v", t)
	}
}
