package module

import (
	"github.com/runbookd/urimod/packages/http"
)

// Result is the record returned to the host after a successful exchange.
// The JSON field names are the host-facing contract and must not change.
type Result struct {
	Changed             bool                 `json:"changed"`
	Content             []byte               `json:"content"`
	Cookies             map[string]string    `json:"cookies"`
	Elapsed             int64                `json:"elapsed"`
	Encoding            string               `json:"encoding"`
	Headers             map[string]string    `json:"headers"`
	History             []http.Redirect      `json:"history"`
	IsPermanentRedirect bool                 `json:"is_permanent_redirect"`
	IsRedirect          bool                 `json:"is_redirect"`
	JSONBody            any                  `json:"json"`
	Links               map[string]http.Link `json:"links"`
	Method              string               `json:"method"`
	Next                string               `json:"next"`
	OK                  bool                 `json:"ok"`
	Reason              string               `json:"reason"`
	Text                string               `json:"text"`
	StatusCode          int                  `json:"status_code"`
	URL                 string               `json:"url"`
	Verify              any                  `json:"verify"`
}
