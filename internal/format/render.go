package format

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/quadrant-ai/quadrant/models"
)

// Renderer converts a generic value into one textual target format. All
// renderers are total: degraded, scalar and empty inputs still produce a
// valid string.
type Renderer func(Value) string

var renderers = map[models.TargetFormat]Renderer{
	models.TargetJSON:     RenderJSON,
	models.TargetCSV:      RenderCSV,
	models.TargetXML:      RenderXML,
	models.TargetYAML:     RenderYAML,
	models.TargetMarkdown: RenderMarkdown,
	models.TargetHTML:     RenderHTML,
}

// RendererFor returns the renderer for a target format.
func RendererFor(target models.TargetFormat) (Renderer, bool) {
	r, ok := renderers[target]
	return r, ok
}

// RenderJSON pretty-prints the value with two-space indentation. Non-ASCII
// and HTML characters (<, >, &) pass through literally.
func RenderJSON(v Value) string {
	var out bytes.Buffer
	if err := encodeJSONValue(&out, v, ""); err != nil {
		return ScalarString(v)
	}
	return out.String()
}

// encodeJSONValue is the encoding mirror of the ordered decode walk. The walk
// is manual because the ordered map's MarshalJSON escapes <, > and & no
// matter what the outer encoder is configured to do.
func encodeJSONValue(out *bytes.Buffer, v Value, indent string) error {
	switch t := v.(type) {
	case *Mapping:
		if t == nil || t.Len() == 0 {
			out.WriteString("{}")
			return nil
		}
		out.WriteString("{\n")
		inner := indent + "  "
		first := true
		for pair := t.Oldest(); pair != nil; pair = pair.Next() {
			if !first {
				out.WriteString(",\n")
			}
			first = false
			out.WriteString(inner)
			out.WriteString(encodeJSONString(pair.Key))
			out.WriteString(": ")
			if err := encodeJSONValue(out, pair.Value, inner); err != nil {
				return err
			}
		}
		out.WriteString("\n" + indent + "}")
		return nil
	case Sequence:
		if len(t) == 0 {
			out.WriteString("[]")
			return nil
		}
		out.WriteString("[\n")
		inner := indent + "  "
		for i, item := range t {
			if i > 0 {
				out.WriteString(",\n")
			}
			out.WriteString(inner)
			if err := encodeJSONValue(out, item, inner); err != nil {
				return err
			}
		}
		out.WriteString("\n" + indent + "]")
		return nil
	case json.Number:
		out.WriteString(t.String())
		return nil
	case string:
		out.WriteString(encodeJSONString(t))
		return nil
	default:
		b, err := json.Marshal(t) // nil, bool, remaining numeric kinds
		if err != nil {
			return err
		}
		out.Write(b)
		return nil
	}
}

func encodeJSONString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return strings.TrimRight(buf.String(), "\n")
}

// RenderCSV flattens the value into a record set and writes it with a header
// row taken from the first record's keys.
func RenderCSV(v Value) string {
	records := tabularRecords(v)
	if len(records) == 0 {
		return "No data to convert to CSV"
	}

	header := make([]string, 0, records[0].Len())
	for pair := records[0].Oldest(); pair != nil; pair = pair.Next() {
		header = append(header, pair.Key)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(header)
	for _, rec := range records {
		row := make([]string, len(header))
		for i, key := range header {
			if val, ok := rec.Get(key); ok {
				row[i] = ScalarString(val)
			}
		}
		_ = w.Write(row)
	}
	w.Flush()
	return buf.String()
}

// tabularRecords extracts the record set backing the CSV renderer: the
// tabular sentinel's rows when present, a sequence as-is, a flat scalar
// mapping as a single row, and nested mappings flattened one level into
// {key, index, value} / {key, value} rows. Anything else becomes a single
// {value} row.
func tabularRecords(v Value) []*Mapping {
	switch t := v.(type) {
	case *Mapping:
		if data, ok := t.Get("data"); ok {
			if f, ok := t.Get("format"); ok && ScalarString(f) == "tabular" {
				if seq, ok := data.(Sequence); ok {
					return sequenceRecords(seq)
				}
			}
		}
		if mappingIsFlat(t) {
			return []*Mapping{t}
		}
		var flattened []*Mapping
		for pair := t.Oldest(); pair != nil; pair = pair.Next() {
			if seq, ok := pair.Value.(Sequence); ok {
				for i, item := range seq {
					rec := NewMapping()
					rec.Set("key", pair.Key)
					rec.Set("index", strconv.Itoa(i))
					rec.Set("value", ScalarString(item))
					flattened = append(flattened, rec)
				}
				continue
			}
			rec := NewMapping()
			rec.Set("key", pair.Key)
			rec.Set("value", ScalarString(pair.Value))
			flattened = append(flattened, rec)
		}
		return flattened
	case Sequence:
		return sequenceRecords(t)
	default:
		rec := NewMapping()
		rec.Set("value", ScalarString(t))
		return []*Mapping{rec}
	}
}

func sequenceRecords(seq Sequence) []*Mapping {
	records := make([]*Mapping, 0, len(seq))
	for _, item := range seq {
		if m, ok := item.(*Mapping); ok {
			records = append(records, m)
			continue
		}
		rec := NewMapping()
		rec.Set("value", ScalarString(item))
		records = append(records, rec)
	}
	return records
}

func mappingIsFlat(m *Mapping) bool {
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		switch pair.Value.(type) {
		case *Mapping, Sequence:
			return false
		}
	}
	return true
}

const xmlHeader = `<?xml version="1.0" encoding="UTF-8"?>`

var xmlTagSanitizer = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// RenderXML emits <tag>value</tag> elements recursively under a <data> root,
// prefixed with the XML declaration. Keys are sanitised into valid tag names
// and sequences repeat their tag once per element.
func RenderXML(v Value) string {
	m, ok := v.(*Mapping)
	if !ok {
		m = NewMapping()
		m.Set("value", v)
	}
	return xmlHeader + "\n" + mappingToXML(m, "data")
}

func mappingToXML(m *Mapping, rootTag string) string {
	parts := []string{"<" + rootTag + ">"}
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		tag := xmlTagSanitizer.ReplaceAllString(pair.Key, "_")
		switch val := pair.Value.(type) {
		case *Mapping:
			parts = append(parts, mappingToXML(val, tag))
		case Sequence:
			for _, item := range val {
				if im, ok := item.(*Mapping); ok {
					parts = append(parts, mappingToXML(im, tag))
				} else {
					parts = append(parts, "<"+tag+">"+ScalarString(item)+"</"+tag+">")
				}
			}
		default:
			parts = append(parts, "<"+tag+">"+ScalarString(val)+"</"+tag+">")
		}
	}
	parts = append(parts, "</"+rootTag+">")
	return strings.Join(parts, "\n")
}

// RenderYAML serialises the value in block style with two-space indentation,
// keeping unicode literal.
func RenderYAML(v Value) string {
	node, err := valueToYAMLNode(v)
	if err != nil {
		return ScalarString(v)
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return ScalarString(v)
	}
	_ = enc.Close()
	return buf.String()
}

func valueToYAMLNode(v Value) (*yaml.Node, error) {
	switch t := v.(type) {
	case *Mapping:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for pair := t.Oldest(); pair != nil; pair = pair.Next() {
			key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: pair.Key}
			child, err := valueToYAMLNode(pair.Value)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, key, child)
		}
		return n, nil
	case Sequence:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range t {
			child, err := valueToYAMLNode(item)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, child)
		}
		return n, nil
	case json.Number:
		n := &yaml.Node{}
		if i, err := t.Int64(); err == nil {
			return n, n.Encode(i)
		}
		if f, err := t.Float64(); err == nil {
			return n, n.Encode(f)
		}
		return n, n.Encode(t.String())
	default:
		n := &yaml.Node{}
		return n, n.Encode(t)
	}
}

// RenderMarkdown turns mapping keys into headings whose level matches the
// nesting depth (capped at six), sequences into bullet lists and scalar
// leaves into paragraph lines.
func RenderMarkdown(v Value) string {
	m, ok := v.(*Mapping)
	if !ok {
		return ScalarString(v)
	}
	return mappingToMarkdown(m, 1)
}

func mappingToMarkdown(m *Mapping, level int) string {
	var parts []string
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		header := strings.Repeat("#", min(level, 6))
		parts = append(parts, header+" "+pair.Key+"\n")
		switch val := pair.Value.(type) {
		case *Mapping:
			parts = append(parts, mappingToMarkdown(val, level+1))
		case Sequence:
			for _, item := range val {
				if im, ok := item.(*Mapping); ok {
					parts = append(parts, mappingToMarkdown(im, level+1))
				} else {
					parts = append(parts, "- "+ScalarString(item))
				}
			}
			parts = append(parts, "")
		default:
			parts = append(parts, ScalarString(val)+"\n")
		}
	}
	return strings.Join(parts, "\n")
}

// RenderHTML mirrors the Markdown structure with h1-h6 headings, ul/li lists
// and p paragraphs, wrapped in a minimal UTF-8 document shell.
func RenderHTML(v Value) string {
	var body string
	if m, ok := v.(*Mapping); ok {
		body = mappingToHTML(m, 1)
	} else {
		body = "<p>" + ScalarString(v) + "</p>"
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Transformed Data</title>
</head>
<body>
%s
</body>
</html>`, body)
}

func mappingToHTML(m *Mapping, level int) string {
	var parts []string
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		heading := "h" + strconv.Itoa(min(level, 6))
		parts = append(parts, "<"+heading+">"+pair.Key+"</"+heading+">")
		switch val := pair.Value.(type) {
		case *Mapping:
			parts = append(parts, mappingToHTML(val, level+1))
		case Sequence:
			parts = append(parts, "<ul>")
			for _, item := range val {
				if im, ok := item.(*Mapping); ok {
					parts = append(parts, "<li>", mappingToHTML(im, level+1), "</li>")
				} else {
					parts = append(parts, "<li>"+ScalarString(item)+"</li>")
				}
			}
			parts = append(parts, "</ul>")
		default:
			parts = append(parts, "<p>"+ScalarString(val)+"</p>")
		}
	}
	return strings.Join(parts, "\n")
}
