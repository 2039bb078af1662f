package format

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse converts detected-format text into a generic value. It never fails:
// when the underlying decoder errors out the input degrades to a text
// fallback mapping carrying the original content and a "Parsing error: ..."
// message, and the error is also returned so callers can log it.
func Parse(text string, detected Format) (Value, error) {
	switch detected {
	case FormatJSON:
		v, err := parseJSON(text)
		if err != nil {
			return textFallback(text, detected, err), err
		}
		return v, nil
	case FormatYAML:
		v, err := parseYAML(text)
		if err != nil {
			return textFallback(text, detected, err), err
		}
		return v, nil
	case FormatCSV:
		v, err := parseTabular(text, ',')
		if err != nil {
			return textFallback(text, detected, err), err
		}
		return v, nil
	case FormatTSV:
		v, err := parseTabular(text, '\t')
		if err != nil {
			return textFallback(text, detected, err), err
		}
		return v, nil
	default:
		// XML is classified but not structurally parsed; it rides the same
		// text fallback as unstructured input.
		return textFallback(text, detected, nil), nil
	}
}

// textFallback wraps raw text in the degraded mapping shape
// {content, format: "text", [error,] detected_format}.
func textFallback(text string, detected Format, parseErr error) *Mapping {
	m := NewMapping()
	m.Set("content", text)
	m.Set("format", "text")
	if parseErr != nil {
		m.Set("error", fmt.Sprintf("Parsing error: %v", parseErr))
	}
	m.Set("detected_format", string(detected))
	return m
}

func parseJSON(text string) (Value, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	v, err := decodeJSONValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after JSON value")
	}
	return v, nil
}

// decodeJSONValue walks the decoder token stream so that object keys keep
// their document order; a plain Unmarshal into map[string]any would lose it.
func decodeJSONValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil // string, json.Number, bool or nil
	}
	switch delim {
	case '{':
		m := NewMapping()
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("unexpected object key token %v", keyTok)
			}
			val, err := decodeJSONValue(dec)
			if err != nil {
				return nil, err
			}
			m.Set(key, val)
		}
		if _, err := dec.Token(); err != nil { // consume '}'
			return nil, err
		}
		return m, nil
	case '[':
		seq := Sequence{}
		for dec.More() {
			val, err := decodeJSONValue(dec)
			if err != nil {
				return nil, err
			}
			seq = append(seq, val)
		}
		if _, err := dec.Token(); err != nil { // consume ']'
			return nil, err
		}
		return seq, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %v", delim)
	}
}

func parseYAML(text string) (Value, error) {
	var node yaml.Node
	if err := yaml.Unmarshal([]byte(text), &node); err != nil {
		return nil, err
	}
	return yamlToValue(&node)
}

func yamlToValue(n *yaml.Node) (Value, error) {
	switch n.Kind {
	case 0:
		return nil, nil // empty document
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return yamlToValue(n.Content[0])
	case yaml.MappingNode:
		m := NewMapping()
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			val, err := yamlToValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			m.Set(key, val)
		}
		return m, nil
	case yaml.SequenceNode:
		seq := make(Sequence, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := yamlToValue(c)
			if err != nil {
				return nil, err
			}
			seq = append(seq, v)
		}
		return seq, nil
	case yaml.AliasNode:
		return yamlToValue(n.Alias)
	case yaml.ScalarNode:
		switch n.Tag {
		case "!!null":
			return nil, nil
		case "!!bool":
			var b bool
			if err := n.Decode(&b); err != nil {
				return n.Value, nil
			}
			return b, nil
		case "!!int":
			var i int64
			if err := n.Decode(&i); err != nil {
				return n.Value, nil
			}
			return i, nil
		case "!!float":
			var f float64
			if err := n.Decode(&f); err != nil {
				return n.Value, nil
			}
			return f, nil
		default:
			return n.Value, nil
		}
	default:
		return nil, fmt.Errorf("unsupported yaml node kind %d", n.Kind)
	}
}

// parseTabular reads delimiter-separated rows into the tabular sentinel
// shape {data: [row mappings], format: "tabular"}. The first row supplies
// the keys; rows map positionally and short rows pad with nil.
func parseTabular(text string, comma rune) (Value, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = comma
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, err
	}

	rows := Sequence{}
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		row := NewMapping()
		for i, key := range header {
			if i < len(record) {
				row.Set(key, record[i])
			} else {
				row.Set(key, nil)
			}
		}
		rows = append(rows, row)
	}

	m := NewMapping()
	m.Set("data", rows)
	m.Set("format", "tabular")
	return m, nil
}
