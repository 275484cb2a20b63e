package params

import (
	"encoding/json"
	"fmt"
	"time"
)

// Methods lists the HTTP verbs the module accepts, matching the host-facing
// contract. GET is the default when the document omits the field.
var Methods = []string{"GET", "POST", "OPTIONS", "HEAD", "PUT", "PATCH", "DELETE"}

// MutatingMethods are the verbs assumed to alter remote state. The changed
// flag in the result record is true exactly for these.
var MutatingMethods = map[string]bool{
	"POST":   true,
	"PUT":    true,
	"PATCH":  true,
	"DELETE": true,
}

// Spec describes one HTTP call. Field names are the wire contract with the
// host and must not change.
type Spec struct {
	Method         string            `json:"method,omitempty"`
	URL            string            `json:"url"`
	Params         any               `json:"params,omitempty"`
	Data           any               `json:"data,omitempty"`
	JSON           any               `json:"json,omitempty"`
	Headers        map[string]string `json:"headers,omitempty"`
	Cookies        map[string]string `json:"cookies,omitempty"`
	Files          map[string]string `json:"files,omitempty"`
	Username       string            `json:"username,omitempty"`
	Password       string            `json:"password,omitempty"`
	Timeout        *Timeout          `json:"timeout,omitempty"`
	AllowRedirects *bool             `json:"allow_redirects,omitempty"`
	Proxies        map[string]string `json:"proxies,omitempty"`
	Verify         *Verify           `json:"verify,omitempty"`
	Stream         *bool             `json:"stream,omitempty"`
	CertKey        *CertPair         `json:"cert_key,omitempty"`
	CertFile       string            `json:"cert_file,omitempty"`
}

// Timeout is either a scalar number of seconds or a [connect, read] pair.
// A scalar sets Read only; Total covers both shapes.
type Timeout struct {
	Connect time.Duration
	Read    time.Duration
}

func (t *Timeout) UnmarshalJSON(b []byte) error {
	var scalar float64
	if err := json.Unmarshal(b, &scalar); err == nil {
		if scalar <= 0 {
			return fmt.Errorf("timeout must be positive, got %v", scalar)
		}
		t.Read = secondsToDuration(scalar)
		return nil
	}

	var pair []float64
	if err := json.Unmarshal(b, &pair); err != nil || len(pair) != 2 {
		return fmt.Errorf("timeout must be a number of seconds or a [connect, read] pair")
	}
	if pair[0] <= 0 || pair[1] <= 0 {
		return fmt.Errorf("timeout values must be positive, got %v", pair)
	}
	t.Connect = secondsToDuration(pair[0])
	t.Read = secondsToDuration(pair[1])
	return nil
}

func (t *Timeout) MarshalJSON() ([]byte, error) {
	if t.Connect > 0 {
		return json.Marshal([]float64{t.Connect.Seconds(), t.Read.Seconds()})
	}
	return json.Marshal(t.Read.Seconds())
}

// Total is the overall deadline for the exchange.
func (t *Timeout) Total() time.Duration {
	if t == nil {
		return 0
	}
	return t.Connect + t.Read
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// Verify controls server certificate verification: a boolean, or a path to a
// CA bundle (which implies verification is on).
type Verify struct {
	Enabled bool
	CAFile  string
}

func (v *Verify) UnmarshalJSON(b []byte) error {
	var enabled bool
	if err := json.Unmarshal(b, &enabled); err == nil {
		v.Enabled = enabled
		return nil
	}

	var path string
	if err := json.Unmarshal(b, &path); err != nil {
		return fmt.Errorf("verify must be a boolean or a CA bundle path")
	}
	v.Enabled = true
	v.CAFile = path
	return nil
}

func (v *Verify) MarshalJSON() ([]byte, error) {
	if v.CAFile != "" {
		return json.Marshal(v.CAFile)
	}
	return json.Marshal(v.Enabled)
}

// CertPair is a [cert, key] file pair for the TLS client identity.
type CertPair struct {
	Cert string
	Key  string
}

func (p *CertPair) UnmarshalJSON(b []byte) error {
	var pair []string
	if err := json.Unmarshal(b, &pair); err != nil || len(pair) != 2 {
		return fmt.Errorf("cert_key must be a [cert, key] pair")
	}
	p.Cert = pair[0]
	p.Key = pair[1]
	return nil
}

func (p *CertPair) MarshalJSON() ([]byte, error) {
	return json.Marshal([]string{p.Cert, p.Key})
}

// Decode unmarshals a JSON parameter document into a Spec and applies the
// documented defaults. Cross-field rules are checked by Validate, not here.
func Decode(doc []byte) (*Spec, error) {
	var s Spec
	if err := json.Unmarshal(doc, &s); err != nil {
		return nil, &ConfigError{Msg: fmt.Sprintf("invalid parameter document: %v", err)}
	}
	if s.Method == "" {
		s.Method = "GET"
	}
	return &s, nil
}

// GetAllowRedirects returns the redirect-following setting, defaulting to true.
func (s *Spec) GetAllowRedirects() bool {
	return getBool(s.AllowRedirects, true)
}

// GetStream returns the stream setting, defaulting to true.
func (s *Spec) GetStream() bool {
	return getBool(s.Stream, true)
}

// GetVerify returns the verification mode, defaulting to enabled with no
// custom CA bundle.
func (s *Spec) GetVerify() Verify {
	if s.Verify == nil {
		return Verify{Enabled: true}
	}
	return *s.Verify
}

// VerifyValue is the value echoed back in the result record: the CA bundle
// path when one was given, a boolean otherwise.
func (s *Spec) VerifyValue() any {
	v := s.GetVerify()
	if v.CAFile != "" {
		return v.CAFile
	}
	return v.Enabled
}

func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// Validate enforces the cross-field rules of the parameter contract. It runs
// before any network I/O and every violation is a ConfigError.
func (s *Spec) Validate() error {
	valid := false
	for _, m := range Methods {
		if s.Method == m {
			valid = true
			break
		}
	}
	if !valid {
		return configErrorf("method must be one of %v, got %q", Methods, s.Method)
	}

	if s.URL == "" {
		return configErrorf("url is required")
	}

	if (s.Username == "") != (s.Password == "") {
		return configErrorf("username and password must be supplied together")
	}

	if s.CertKey != nil && s.CertFile != "" {
		return configErrorf("cert_key and cert_file are mutually exclusive")
	}

	return nil
}

// HasBasicAuth reports whether the credential pair is present.
func (s *Spec) HasBasicAuth() bool {
	return s.Username != "" && s.Password != ""
}

// ConfigError is an invalid parameter document or parameter combination.
// It is always raised before the exchange is attempted.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string {
	return e.Msg
}

func configErrorf(format string, args ...any) *ConfigError {
	return &ConfigError{Msg: fmt.Sprintf(format, args...)}
}
