package module

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/runbookd/urimod/packages/http"
	"github.com/runbookd/urimod/packages/params"
	"github.com/tidwall/gjson"
)

// Executor performs one exchange per Run call. It holds no state across
// invocations; every call builds its own client from the spec.
type Executor struct {
	maxRedirects int
}

type ExecutorOption func(*Executor)

// WithMaxRedirects caps the redirect chain length.
func WithMaxRedirects(max int) ExecutorOption {
	return func(e *Executor) {
		e.maxRedirects = max
	}
}

func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{maxRedirects: http.DefaultMaxRedirects}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run validates the spec, performs the exchange and maps the response into a
// Result. The returned error is a *params.ConfigError, *TransportError or
// *RemoteError; nothing is retried.
func (e *Executor) Run(ctx context.Context, spec *params.Spec) (*Result, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	client, err := e.buildClient(spec)
	if err != nil {
		return nil, &params.ConfigError{Msg: err.Error()}
	}

	req, err := buildRequest(spec)
	if err != nil {
		return nil, &params.ConfigError{Msg: err.Error()}
	}

	resp, err := client.Do(ctx, req)
	if err != nil {
		var buildErr *http.BuildError
		if errors.As(err, &buildErr) {
			return nil, &params.ConfigError{Msg: buildErr.Error()}
		}
		return nil, &TransportError{Err: err}
	}

	if !resp.IsSuccess() {
		return nil, &RemoteError{StatusCode: resp.StatusCode, Body: resp.BodyString()}
	}

	return buildResult(spec, resp), nil
}

func (e *Executor) buildClient(spec *params.Spec) (*http.Client, error) {
	opts := []http.ClientOption{
		http.WithFollowRedirects(spec.GetAllowRedirects()),
		http.WithMaxRedirects(e.maxRedirects),
	}

	if t := spec.Timeout; t != nil {
		opts = append(opts, http.WithTimeout(t.Total()))
		if t.Connect > 0 {
			opts = append(opts, http.WithConnectTimeout(t.Connect))
		}
	}

	verify := spec.GetVerify()
	opts = append(opts, http.WithValidateSSL(verify.Enabled))
	if verify.CAFile != "" {
		opts = append(opts, http.WithCABundle(verify.CAFile))
	}

	if spec.CertKey != nil {
		opts = append(opts, http.WithClientCert(spec.CertKey.Cert, spec.CertKey.Key))
	} else if spec.CertFile != "" {
		opts = append(opts, http.WithClientCert(spec.CertFile, spec.CertFile))
	}

	if len(spec.Proxies) > 0 {
		opts = append(opts, http.WithProxies(spec.Proxies))
	}

	return http.NewClient(opts...)
}

func buildRequest(spec *params.Spec) (*http.Request, error) {
	req := &http.Request{
		Method:  spec.Method,
		URL:     spec.URL,
		Query:   spec.Params,
		JSON:    spec.JSON,
		Headers: spec.Headers,
		Cookies: spec.Cookies,
		Files:   spec.Files,
	}

	switch data := spec.Data.(type) {
	case nil:
	case string:
		req.Body = data
	case map[string]any:
		form := make(map[string]string, len(data))
		for k, v := range data {
			form[k] = fmt.Sprint(v)
		}
		req.Form = form
	default:
		return nil, fmt.Errorf("data must be a string or a mapping, got %T", spec.Data)
	}

	if spec.HasBasicAuth() {
		req.BasicAuth = &http.Credentials{Username: spec.Username, Password: spec.Password}
	}

	return req, nil
}

func buildResult(spec *params.Spec, resp *http.Response) *Result {
	// Parse-or-null: a body that is not valid JSON is not an error.
	var jsonBody any
	if gjson.ValidBytes(resp.Body) {
		_ = json.Unmarshal(resp.Body, &jsonBody)
	}

	history := resp.History
	if history == nil {
		history = []http.Redirect{}
	}

	links := resp.Links()
	if links == nil {
		links = map[string]http.Link{}
	}

	return &Result{
		Changed:             params.MutatingMethods[spec.Method],
		Content:             resp.Body,
		Cookies:             resp.Cookies,
		Elapsed:             resp.Duration.Microseconds(),
		Encoding:            resp.Encoding(),
		Headers:             resp.Headers,
		History:             history,
		IsPermanentRedirect: resp.IsPermanentRedirect(),
		IsRedirect:          resp.IsRedirect(),
		JSONBody:            jsonBody,
		Links:               links,
		Method:              spec.Method,
		Next:                resp.NextURL(),
		OK:                  true,
		Reason:              resp.Reason,
		Text:                resp.BodyString(),
		StatusCode:          resp.StatusCode,
		URL:                 resp.URL,
		Verify:              spec.VerifyValue(),
	}
}
