package http

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"net"
	"net/http"
	neturl "net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 30 * time.Second
	// DefaultMaxRedirects is the maximum number of redirects to follow
	DefaultMaxRedirects = 10
	// DefaultMaxIdleConns is the maximum number of idle connections in the pool
	DefaultMaxIdleConns = 100
	// DefaultMaxIdleConnsPerHost is the maximum number of idle connections per host
	DefaultMaxIdleConnsPerHost = 10
	// DefaultIdleConnTimeout is how long idle connections stay in the pool
	DefaultIdleConnTimeout = 90 * time.Second
)

// Client issues one exchange at a time. Each Do call owns its redirect
// history; nothing is shared between invocations beyond the transport.
type Client struct {
	transport      *http.Transport
	timeout        time.Duration
	connectTimeout time.Duration
	followRedirect bool
	maxRedirects   int
	validateSSL    bool
	caFile         string
	certFile       string
	keyFile        string
	proxies        map[string]string
}

type ClientOption func(*Client)

// NewClient builds a client from the given options. It returns an error when
// a proxy URL, CA bundle or client certificate cannot be loaded, all of which
// are configuration problems surfaced before any network I/O.
func NewClient(opts ...ClientOption) (*Client, error) {
	c := &Client{
		timeout:        DefaultTimeout,
		followRedirect: true,
		maxRedirects:   DefaultMaxRedirects,
		validateSSL:    true,
	}

	for _, opt := range opts {
		opt(c)
	}

	dialer := &net.Dialer{Timeout: c.connectTimeout}

	transport := &http.Transport{
		DialContext:         dialer.DialContext,
		MaxIdleConns:        DefaultMaxIdleConns,
		MaxIdleConnsPerHost: DefaultMaxIdleConnsPerHost,
		IdleConnTimeout:     DefaultIdleConnTimeout,
	}

	tlsConfig := &tls.Config{}
	if !c.validateSSL {
		tlsConfig.InsecureSkipVerify = true
	}

	if c.caFile != "" {
		pem, err := os.ReadFile(c.caFile)
		if err != nil {
			return nil, fmt.Errorf("cannot read CA bundle: %v", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates found in CA bundle %s", c.caFile)
		}
		tlsConfig.RootCAs = pool
	}

	if c.certFile != "" {
		cert, err := tls.LoadX509KeyPair(c.certFile, c.keyFile)
		if err != nil {
			return nil, fmt.Errorf("cannot load client certificate: %v", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	transport.TLSClientConfig = tlsConfig

	if len(c.proxies) > 0 {
		parsed := make(map[string]*neturl.URL, len(c.proxies))
		for scheme, raw := range c.proxies {
			u, err := neturl.Parse(raw)
			if err != nil {
				return nil, fmt.Errorf("invalid proxy URL for %s: %v", scheme, err)
			}
			parsed[strings.ToLower(scheme)] = u
		}
		transport.Proxy = func(req *http.Request) (*neturl.URL, error) {
			return parsed[req.URL.Scheme], nil
		}
	}

	c.transport = transport
	return c, nil
}

// WithTimeout sets the overall deadline for the exchange.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithConnectTimeout bounds connection establishment separately from the
// overall deadline.
func WithConnectTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.connectTimeout = d
	}
}

func WithFollowRedirects(follow bool) ClientOption {
	return func(c *Client) {
		c.followRedirect = follow
	}
}

func WithMaxRedirects(max int) ClientOption {
	return func(c *Client) {
		c.maxRedirects = max
	}
}

// WithValidateSSL enables or disables server certificate validation.
func WithValidateSSL(validate bool) ClientOption {
	return func(c *Client) {
		c.validateSSL = validate
	}
}

// WithCABundle verifies the server against the given CA bundle file.
func WithCABundle(path string) ClientOption {
	return func(c *Client) {
		c.caFile = path
	}
}

// WithClientCert presents a TLS client identity. For a single PEM file
// containing both certificate and key, pass the same path twice.
func WithClientCert(certFile, keyFile string) ClientOption {
	return func(c *Client) {
		c.certFile = certFile
		c.keyFile = keyFile
	}
}

// WithProxies selects a proxy per URL scheme, e.g. {"https": "http://proxy:3128"}.
func WithProxies(proxies map[string]string) ClientOption {
	return func(c *Client) {
		c.proxies = proxies
	}
}

// Do performs exactly one exchange and drains the response body. Redirects
// followed along the way are recorded oldest first.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if err := ValidateURL(req.URL); err != nil {
		return nil, &BuildError{Err: err}
	}

	httpReq, err := req.Build(ctx)
	if err != nil {
		return nil, &BuildError{Err: err}
	}

	var history []Redirect
	httpClient := &http.Client{
		Transport: c.transport,
		Timeout:   c.timeout,
		CheckRedirect: func(next *http.Request, via []*http.Request) error {
			if !c.followRedirect {
				return http.ErrUseLastResponse
			}
			if len(via) >= c.maxRedirects {
				return http.ErrUseLastResponse
			}
			if next.Response != nil {
				history = append(history, Redirect{
					StatusCode: next.Response.StatusCode,
					URL:        via[len(via)-1].URL.String(),
				})
			}
			return nil
		},
	}

	start := time.Now()
	httpResp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}
	duration := time.Since(start)

	headers := make(map[string]string)
	for k := range httpResp.Header {
		headers[k] = strings.Join(httpResp.Header.Values(k), ", ")
	}

	cookies := make(map[string]string)
	for _, cookie := range httpResp.Cookies() {
		cookies[cookie.Name] = cookie.Value
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Status:     httpResp.Status,
		Reason:     reasonPhrase(httpResp.Status, httpResp.StatusCode),
		Headers:    headers,
		Body:       respBody,
		Cookies:    cookies,
		URL:        httpResp.Request.URL.String(),
		History:    history,
		Duration:   duration,
	}, nil
}

func reasonPhrase(status string, code int) string {
	return strings.TrimSpace(strings.TrimPrefix(status, strconv.Itoa(code)))
}
