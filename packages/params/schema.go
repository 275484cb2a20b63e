package params

import (
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Option is one entry of the declarative argument spec. The set of options,
// their types, defaults and relations are the host-facing contract; the
// schema command renders them and ValidateDocument enforces them.
type Option struct {
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description" yaml:"description"`
	Required    bool           `json:"required" yaml:"required"`
	Default     any            `json:"default,omitempty" yaml:"default,omitempty"`
	Choices     []string       `json:"choices,omitempty" yaml:"choices,omitempty"`
	NoLog       bool           `json:"no_log,omitempty" yaml:"no_log,omitempty"`
	Schema      map[string]any `json:"schema" yaml:"schema"`
}

// ReturnField documents one field of the result record.
type ReturnField struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description" yaml:"description"`
}

var stringMap = map[string]any{
	"type":                 "object",
	"additionalProperties": map[string]any{"type": "string"},
}

// Options is the ordered argument spec of the module.
var Options = []Option{
	{
		Name:        "method",
		Description: "HTTP method for the request",
		Default:     "GET",
		Choices:     Methods,
		Schema:      map[string]any{"type": "string", "enum": Methods},
	},
	{
		Name:        "url",
		Description: "URL for the request",
		Required:    true,
		Schema:      map[string]any{"type": "string", "minLength": 1},
	},
	{
		Name:        "params",
		Description: "Mapping, sequence of pairs, or raw string to send in the query string",
		Schema:      map[string]any{"type": []string{"object", "array", "string"}},
	},
	{
		Name:        "data",
		Description: "Raw string or form mapping to send in the request body",
		Schema:      map[string]any{"type": []string{"object", "string"}},
	},
	{
		Name:        "json",
		Description: "JSON value to serialize into the request body",
		Schema:      map[string]any{},
	},
	{
		Name:        "headers",
		Description: "HTTP headers to send with the request",
		Schema:      stringMap,
	},
	{
		Name:        "cookies",
		Description: "Cookies to send with the request",
		Schema:      stringMap,
	},
	{
		Name:        "files",
		Description: "Mapping of field name to file path for multipart upload",
		Schema:      stringMap,
	},
	{
		Name:        "username",
		Description: "Username for basic auth; requires password",
		Schema:      map[string]any{"type": "string"},
	},
	{
		Name:        "password",
		Description: "Password for basic auth; requires username",
		NoLog:       true,
		Schema:      map[string]any{"type": "string"},
	},
	{
		Name:        "timeout",
		Description: "Seconds to wait for the server, as a number or a [connect, read] pair",
		Schema: map[string]any{
			"oneOf": []any{
				map[string]any{"type": "number"},
				map[string]any{
					"type":     "array",
					"items":    map[string]any{"type": "number"},
					"minItems": 2,
					"maxItems": 2,
				},
			},
		},
	},
	{
		Name:        "allow_redirects",
		Description: "Follow redirects",
		Default:     true,
		Schema:      map[string]any{"type": "boolean"},
	},
	{
		Name:        "proxies",
		Description: "Mapping of protocol to proxy URL",
		Schema:      stringMap,
	},
	{
		Name:        "verify",
		Description: "Verify the server TLS certificate: a boolean or a CA bundle path",
		Default:     true,
		Schema:      map[string]any{"type": []string{"boolean", "string"}},
	},
	{
		Name:        "stream",
		Description: "Accepted for contract compatibility; the body is always read before the result is produced",
		Default:     true,
		Schema:      map[string]any{"type": "boolean"},
	},
	{
		Name:        "cert_key",
		Description: "TLS client identity as a [cert, key] file pair; exclusive with cert_file",
		Schema: map[string]any{
			"type":     "array",
			"items":    map[string]any{"type": "string"},
			"minItems": 2,
			"maxItems": 2,
		},
	},
	{
		Name:        "cert_file",
		Description: "TLS client identity as a single PEM path; exclusive with cert_key",
		Schema:      map[string]any{"type": "string"},
	},
}

// RequiredTogether lists option groups that must be supplied all-or-nothing.
var RequiredTogether = [][]string{{"username", "password"}}

// MutuallyExclusive lists option groups of which at most one may be set.
var MutuallyExclusive = [][]string{{"cert_key", "cert_file"}}

// Returns documents the result record, field by field.
var Returns = []ReturnField{
	{Name: "changed", Type: "boolean", Description: "True when the method is POST, PUT, PATCH or DELETE"},
	{Name: "content", Type: "bytes", Description: "Raw response body"},
	{Name: "cookies", Type: "dict", Description: "Response cookies"},
	{Name: "elapsed", Type: "integer", Description: "Elapsed time of the exchange in microseconds"},
	{Name: "encoding", Type: "string", Description: "Response charset from the Content-Type header"},
	{Name: "headers", Type: "dict", Description: "Response headers"},
	{Name: "history", Type: "list", Description: "Redirect chain as {status_code, url} entries, oldest first"},
	{Name: "is_permanent_redirect", Type: "boolean", Description: "Final response is a 301 or 308 redirect"},
	{Name: "is_redirect", Type: "boolean", Description: "Final response is a 30x redirect"},
	{Name: "json", Type: "any", Description: "Body parsed as JSON, null when the body is not valid JSON"},
	{Name: "links", Type: "dict", Description: "Parsed Link header relations"},
	{Name: "method", Type: "string", Description: "Method that was sent"},
	{Name: "next", Type: "string", Description: "URL of the next page from the Link header, if any"},
	{Name: "ok", Type: "boolean", Description: "Status code was in the 2xx range"},
	{Name: "reason", Type: "string", Description: "Status reason phrase"},
	{Name: "text", Type: "string", Description: "Response body decoded as text"},
	{Name: "status_code", Type: "integer", Description: "HTTP status code"},
	{Name: "url", Type: "string", Description: "Final effective URL after redirects"},
	{Name: "verify", Type: "any", Description: "Echo of the verify parameter"},
}

// DocumentSchema builds the JSON Schema that parameter documents must
// satisfy. Cross-field relations are not expressible here and live in
// Spec.Validate instead.
func DocumentSchema() map[string]any {
	properties := make(map[string]any, len(Options))
	var required []string
	for _, opt := range Options {
		properties[opt.Name] = opt.Schema
		if opt.Required {
			required = append(required, opt.Name)
		}
	}

	return map[string]any{
		"$schema":              "http://json-schema.org/draft-07/schema#",
		"type":                 "object",
		"additionalProperties": false,
		"required":             required,
		"properties":           properties,
	}
}

// ValidateDocument checks a raw JSON parameter document against the option
// schema. Violations come back as a single ConfigError listing every failed
// constraint.
func ValidateDocument(doc []byte) error {
	schemaLoader := gojsonschema.NewGoLoader(DocumentSchema())
	docLoader := gojsonschema.NewBytesLoader(doc)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return &ConfigError{Msg: "invalid parameter document: " + err.Error()}
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return &ConfigError{Msg: "parameter document is invalid: " + strings.Join(msgs, "; ")}
	}

	return nil
}
