package viewer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goliatone/go-fractalview/pkg/dataset"
	"github.com/goliatone/go-fractalview/pkg/geometry"
)

// FormatConfig renders example params as indented JSON for the config
// panel. For the fill family every row of `matrices` is kept on one line:
//
//	"matrices": [
//	  { "a": 0.5, "b": 0, "p": 0.33 },
//	  ...
//	]
func FormatConfig(family geometry.Family, params dataset.Params) (string, error) {
	if params == nil {
		return "{}", nil
	}

	var value any = params
	var rows []string
	if family == geometry.FamilyFill {
		if matrices, ok := params.Field("matrices"); ok {
			if list, ok := matrices.([]any); ok {
				collapsed, placeholders, err := collapseRows(list)
				if err != nil {
					return "", err
				}
				value = withField(params, "matrices", placeholders)
				rows = collapsed
			}
		}
	}

	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return "", fmt.Errorf("viewer: format config: %w", err)
	}
	out := string(payload)
	for idx, row := range rows {
		out = strings.Replace(out, fmt.Sprintf("%q", placeholder(idx)), row, 1)
	}
	return out, nil
}

func placeholder(idx int) string {
	return fmt.Sprintf("@@matrix-%d@@", idx)
}

// collapseRows encodes every row on a single line and returns the encodings
// along with the placeholder strings that stand in for them.
func collapseRows(list []any) ([]string, []any, error) {
	rows := make([]string, 0, len(list))
	placeholders := make([]any, 0, len(list))
	for idx, row := range list {
		payload, err := json.MarshalIndent(row, "", " ")
		if err != nil {
			return nil, nil, fmt.Errorf("viewer: format matrix %d: %w", idx, err)
		}
		line := strings.ReplaceAll(string(payload), "\n", "")
		if n := len(line); n > 2 && (line[n-1] == '}' || line[n-1] == ']') {
			line = line[:n-1] + " " + line[n-1:]
		}
		rows = append(rows, line)
		placeholders = append(placeholders, placeholder(idx))
	}
	return rows, placeholders, nil
}

// withField returns a copy of params with key replaced.
func withField(params dataset.Params, key string, value any) dataset.Params {
	out := dataset.NewObject()
	for _, k := range params.Keys() {
		v, _ := params.Field(k)
		if k == key {
			v = value
		}
		out.Set(k, v)
	}
	return out
}
