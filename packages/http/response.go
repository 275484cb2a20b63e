package http

import (
	"mime"
	"strings"
	"time"
)

// Redirect is one hop of the redirect chain.
type Redirect struct {
	StatusCode int    `json:"status_code"`
	URL        string `json:"url"`
}

// Response is the normalized outcome of one exchange. URL is the final
// effective URL after any redirects; History holds the intermediate hops.
type Response struct {
	StatusCode int
	Status     string
	Reason     string
	Headers    map[string]string
	Body       []byte
	Cookies    map[string]string
	URL        string
	History    []Redirect
	Duration   time.Duration
}

func (r *Response) BodyString() string {
	return string(r.Body)
}

func (r *Response) Header(key string) string {
	for k, v := range r.Headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

func (r *Response) ContentType() string {
	return r.Header("Content-Type")
}

// Encoding is the charset parameter of the Content-Type header, if any.
func (r *Response) Encoding() string {
	ct := r.ContentType()
	if ct == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(ct)
	if err != nil {
		return ""
	}
	return params["charset"]
}

func (r *Response) IsJSON() bool {
	return strings.Contains(r.ContentType(), "application/json")
}

func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsRedirect reports whether the final response itself is a redirect, which
// happens when following is disabled or the hop limit was reached.
func (r *Response) IsRedirect() bool {
	switch r.StatusCode {
	case 301, 302, 303, 307, 308:
		return r.Header("Location") != ""
	}
	return false
}

// IsPermanentRedirect reports a 301 or 308 final response.
func (r *Response) IsPermanentRedirect() bool {
	if r.StatusCode != 301 && r.StatusCode != 308 {
		return false
	}
	return r.Header("Location") != ""
}

func (r *Response) DurationMs() int64 {
	return r.Duration.Milliseconds()
}
