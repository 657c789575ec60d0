package client

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ResultKind tells which shape of body Toxiproxy replied with.
type ResultKind int

const (
	// ResultEmpty means the server replied with an empty body, eg- after a DELETE.
	ResultEmpty ResultKind = iota
	// ResultText means the body was plain text (the /version endpoint, or non-JSON replies).
	ResultText
	// ResultJSON means the body was a valid JSON document.
	ResultJSON
)

func (k ResultKind) String() string {
	switch k {
	case ResultEmpty:
		return "empty"
	case ResultText:
		return "text"
	case ResultJSON:
		return "json"
	default:
		return fmt.Sprintf("ResultKind(%d)", int(k))
	}
}

// Result is the normalized response of a successful Toxiproxy API call.
type Result struct {
	Kind ResultKind

	// Text is the trimmed body. It is set for every kind except ResultEmpty.
	Text string

	// JSON is the raw JSON document, only set when Kind is ResultJSON.
	JSON json.RawMessage
}

// newResult normalizes a raw response body received from the given API path.
func newResult(path string, raw []byte) *Result {
	text := strings.TrimSpace(string(raw))

	if path == versionPath {
		return &Result{Kind: ResultText, Text: text}
	}
	if text == "" {
		return &Result{Kind: ResultEmpty}
	}
	if json.Valid([]byte(text)) {
		return &Result{Kind: ResultJSON, Text: text, JSON: json.RawMessage(text)}
	}
	return &Result{Kind: ResultText, Text: text}
}

// Decode unmarshals a JSON result into v.
// It fails for results that are not JSON.
func (r *Result) Decode(v any) error {
	if r.Kind != ResultJSON {
		return fmt.Errorf("expected a JSON response from Toxiproxy, got %s body %q", r.Kind, r.Text)
	}
	if err := json.Unmarshal(r.JSON, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
