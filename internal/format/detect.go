package format

import (
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

// DetectFormat classifies raw input text as one of the supported formats.
// It is total: every string, including the empty one, maps to exactly one
// tag. Checks run in a fixed priority order and the first match wins.
//
// A JSON-looking string with a syntax error deliberately falls through to
// the later checks; since YAML is a superset of JSON it will usually still
// classify as YAML. That fallthrough is load-bearing for callers.
func DetectFormat(text string) Format {
	data := strings.TrimSpace(text)

	if (strings.HasPrefix(data, "{") && strings.HasSuffix(data, "}")) ||
		(strings.HasPrefix(data, "[") && strings.HasSuffix(data, "]")) {
		if json.Valid([]byte(data)) {
			return FormatJSON
		}
	}

	if strings.HasPrefix(data, "<") && strings.HasSuffix(data, ">") {
		return FormatXML
	}

	if strings.Contains(data, ":") && !strings.HasPrefix(data, "<") {
		var probe any
		if err := yaml.Unmarshal([]byte(data), &probe); err == nil {
			return FormatYAML
		}
	}

	if strings.Contains(data, ",") && strings.Contains(data, "\n") {
		lines := strings.Split(data, "\n")
		if len(lines) > 1 {
			first := strings.Count(lines[0], ",")
			second := strings.Count(lines[1], ",")
			delta := first - second
			if delta < 0 {
				delta = -delta
			}
			if first > 0 && delta <= 1 {
				return FormatCSV
			}
		}
	}

	if strings.Contains(data, "\t") && strings.Contains(data, "\n") {
		return FormatTSV
	}

	return FormatText
}
