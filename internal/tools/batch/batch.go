package batch

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Result is the outcome of one item in a batch operation.
type Result struct {
	ID     string `json:"id"`
	Status string `json:"status"` // "success" or "error"
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// BatchResult aggregates the per-item outcomes of a batch operation.
type BatchResult struct {
	Total      int      `json:"total"`
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Results    []Result `json:"results"`
}

// ParseStringOrArray normalizes a tool argument that may arrive as a
// single string, an array of strings, or a JSON-encoded array inside a
// string. MCP clients differ in how they serialize array arguments, so
// all three forms are accepted.
func ParseStringOrArray(param interface{}, paramName string) ([]string, error) {
	if param == nil {
		return nil, fmt.Errorf("%s is required", paramName)
	}

	switch v := param.(type) {
	case string:
		if v == "" {
			return nil, fmt.Errorf("%s cannot be empty", paramName)
		}
		// Some clients send arrays as a JSON string. Anything that does
		// not decode cleanly is kept as a literal value.
		if strings.HasPrefix(strings.TrimSpace(v), "[") {
			var decoded []string
			if err := json.Unmarshal([]byte(v), &decoded); err == nil {
				return validateItems(decoded, paramName)
			}
		}
		return []string{v}, nil

	case []interface{}:
		items := make([]string, 0, len(v))
		for i, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s[%d] must be a string", paramName, i)
			}
			items = append(items, str)
		}
		return validateItems(items, paramName)

	default:
		return nil, fmt.Errorf("%s must be a string or array of strings", paramName)
	}
}

// validateItems rejects empty lists and empty elements.
func validateItems(items []string, paramName string) ([]string, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%s cannot be empty", paramName)
	}
	for i, item := range items {
		if item == "" {
			return nil, fmt.Errorf("%s[%d] cannot be empty", paramName, i)
		}
	}
	return items, nil
}

// ProcessBatch runs fn for every ID and collects per-item outcomes.
// A failing item never aborts the batch.
func ProcessBatch(ids []string, fn func(id string) (string, error)) []Result {
	results := make([]Result, 0, len(ids))

	for _, id := range ids {
		result := Result{ID: id}
		res, err := fn(id)
		if err != nil {
			result.Status = "error"
			result.Error = err.Error()
		} else {
			result.Status = "success"
			result.Result = res
		}
		results = append(results, result)
	}

	return results
}

// FormatResults renders batch results as indented JSON for tool output.
func FormatResults(results []Result) string {
	br := BatchResult{
		Total:   len(results),
		Results: results,
	}

	for _, r := range results {
		if r.Status == "success" {
			br.Successful++
		} else {
			br.Failed++
		}
	}

	jsonBytes, _ := json.MarshalIndent(br, "", "  ")
	return string(jsonBytes)
}
