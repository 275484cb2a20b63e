package host

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/runbookd/urimod/packages/module"
)

// ReadDocument reads a parameter document from path, or from stdin when path
// is "-".
func ReadDocument(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// ToJSON normalizes a parameter document to JSON. YAML documents are decoded
// and re-encoded; JSON documents pass through untouched.
func ToJSON(doc []byte) ([]byte, error) {
	if json.Valid(doc) {
		return doc, nil
	}

	var value any
	if err := yaml.Unmarshal(doc, &value); err != nil {
		return nil, fmt.Errorf("parameter document is neither valid JSON nor valid YAML: %v", err)
	}

	out, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("cannot normalize parameter document: %v", err)
	}
	return out, nil
}

// Failure is the envelope written when the operation did not produce a
// result record.
type Failure struct {
	Failed bool   `json:"failed"`
	Msg    string `json:"msg"`
}

// WriteResult emits the result record as the final output of the operation.
func WriteResult(w io.Writer, result *module.Result, pretty bool) error {
	return encode(w, result, pretty)
}

// WriteFailure emits the failure envelope with a human-readable message.
func WriteFailure(w io.Writer, err error, pretty bool) error {
	return encode(w, Failure{Failed: true, Msg: err.Error()}, pretty)
}

func encode(w io.Writer, v any, pretty bool) error {
	encoder := json.NewEncoder(w)
	if pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(v)
}
