package http

import "strings"

// Link is one relation parsed from the Link response header.
type Link struct {
	URL string `json:"url"`
	Rel string `json:"rel"`
}

// Links parses the Link header into a map keyed by relation. Entries without
// a rel parameter are keyed by their URL, mirroring common client behavior.
func (r *Response) Links() map[string]Link {
	value := r.Header("Link")
	if value == "" {
		return nil
	}

	links := make(map[string]Link)
	for _, entry := range splitLinkEntries(value) {
		link, ok := parseLinkEntry(entry)
		if !ok {
			continue
		}
		key := link.Rel
		if key == "" {
			key = link.URL
		}
		links[key] = link
	}
	if len(links) == 0 {
		return nil
	}
	return links
}

// NextURL is the URL of the rel="next" link, or empty.
func (r *Response) NextURL() string {
	if link, ok := r.Links()["next"]; ok {
		return link.URL
	}
	return ""
}

// splitLinkEntries splits a Link header on commas, ignoring commas inside
// angle brackets and quoted parameter values.
func splitLinkEntries(value string) []string {
	var entries []string
	var inAngle, inQuote bool
	start := 0

	for i, ch := range value {
		switch {
		case ch == '<' && !inQuote:
			inAngle = true
		case ch == '>' && !inQuote:
			inAngle = false
		case ch == '"':
			inQuote = !inQuote
		case ch == ',' && !inAngle && !inQuote:
			entries = append(entries, value[start:i])
			start = i + 1
		}
	}
	entries = append(entries, value[start:])
	return entries
}

func parseLinkEntry(entry string) (Link, bool) {
	entry = strings.TrimSpace(entry)
	if !strings.HasPrefix(entry, "<") {
		return Link{}, false
	}
	end := strings.Index(entry, ">")
	if end < 0 {
		return Link{}, false
	}

	link := Link{URL: entry[1:end]}
	for _, param := range strings.Split(entry[end+1:], ";") {
		param = strings.TrimSpace(param)
		kv := strings.SplitN(param, "=", 2)
		if len(kv) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(kv[0]), "rel") {
			link.Rel = strings.Trim(strings.TrimSpace(kv[1]), `"`)
		}
	}
	return link, true
}
