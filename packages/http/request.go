package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	neturl "net/url"
	"os"
	"path/filepath"
	"strings"
)

// BuildError marks a failure while assembling the request, before anything
// was sent. Callers use it to tell bad input apart from transport failures.
type BuildError struct {
	Err error
}

func (e *BuildError) Error() string {
	return e.Err.Error()
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// Credentials is a basic-auth username/password pair.
type Credentials struct {
	Username string
	Password string
}

// Request describes the exchange to perform. Body, Form, JSON and Files are
// alternative body sources; Files wins, then JSON, then Form, then Body.
type Request struct {
	Method    string
	URL       string
	Query     any // mapping, sequence of pairs, or raw query string
	Body      string
	Form      map[string]string
	JSON      any
	Headers   map[string]string
	Cookies   map[string]string
	Files     map[string]string // field name -> file path
	BasicAuth *Credentials
}

// BuildURL merges the query parameters into the request URL.
func (r *Request) BuildURL() (string, error) {
	if r.Query == nil {
		return r.URL, nil
	}

	u, err := neturl.Parse(r.URL)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %v", err)
	}

	q := u.Query()
	switch params := r.Query.(type) {
	case map[string]any:
		for k, v := range params {
			q.Set(k, fmt.Sprint(v))
		}
	case map[string]string:
		for k, v := range params {
			q.Set(k, v)
		}
	case []any:
		for _, entry := range params {
			pair, ok := entry.([]any)
			if !ok || len(pair) != 2 {
				return "", fmt.Errorf("query sequence entries must be [key, value] pairs")
			}
			q.Add(fmt.Sprint(pair[0]), fmt.Sprint(pair[1]))
		}
	case string:
		if u.RawQuery == "" {
			u.RawQuery = params
		} else {
			u.RawQuery += "&" + params
		}
		return u.String(), nil
	default:
		return "", fmt.Errorf("unsupported query parameter type %T", r.Query)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Build assembles the underlying *http.Request: URL with query, body with
// its content type, headers, cookies and basic auth.
func (r *Request) Build(ctx context.Context) (*http.Request, error) {
	finalURL, err := r.BuildURL()
	if err != nil {
		return nil, err
	}

	var body io.Reader
	var contentType string
	var multipartType string

	switch {
	case len(r.Files) > 0:
		multipartBody, ct, err := BuildMultipartBody(r.Files, r.Form)
		if err != nil {
			return nil, err
		}
		body = multipartBody
		multipartType = ct
	case r.JSON != nil:
		encoded, err := json.Marshal(r.JSON)
		if err != nil {
			return nil, fmt.Errorf("cannot serialize json body: %v", err)
		}
		body = bytes.NewReader(encoded)
		contentType = "application/json"
	case len(r.Form) > 0:
		values := neturl.Values{}
		for k, v := range r.Form {
			values.Set(k, v)
		}
		body = strings.NewReader(values.Encode())
		contentType = "application/x-www-form-urlencoded"
	case r.Body != "":
		body = strings.NewReader(r.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, r.Method, finalURL, body)
	if err != nil {
		return nil, err
	}

	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	for k, v := range r.Headers {
		httpReq.Header.Set(k, v)
	}

	// The multipart boundary is generated per request, so the header must
	// win over anything user-supplied.
	if multipartType != "" {
		httpReq.Header.Set("Content-Type", multipartType)
	}

	for k, v := range r.Cookies {
		httpReq.AddCookie(&http.Cookie{Name: k, Value: v})
	}

	if r.BasicAuth != nil {
		httpReq.SetBasicAuth(r.BasicAuth.Username, r.BasicAuth.Password)
	}

	return httpReq, nil
}

// ValidateURL checks that a URL is well-formed and uses an allowed scheme.
func ValidateURL(rawURL string) error {
	u, err := neturl.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %v", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported URL scheme: %s (only http and https are allowed)", u.Scheme)
	}

	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}

	return nil
}

// BuildMultipartBody creates a multipart form body from file attachments and
// plain form fields.
func BuildMultipartBody(files map[string]string, fields map[string]string) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for name, path := range files {
		file, err := os.Open(path)
		if err != nil {
			return nil, "", err
		}

		part, err := writer.CreateFormFile(name, filepath.Base(path))
		if err != nil {
			file.Close()
			return nil, "", err
		}

		_, err = io.Copy(part, file)
		file.Close()
		if err != nil {
			return nil, "", err
		}
	}

	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, "", err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return body, writer.FormDataContentType(), nil
}
