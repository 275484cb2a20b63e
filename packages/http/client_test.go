package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/test", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"message": "hello"}`))
	}))
	defer server.Close()

	client, err := NewClient()
	require.NoError(t, err)

	resp, err := client.Do(context.Background(), &Request{Method: "GET", URL: server.URL + "/test"})

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "OK", resp.Reason)
	assert.Equal(t, "application/json", resp.Header("Content-Type"))
	assert.Contains(t, resp.BodyString(), "hello")
	assert.Equal(t, server.URL+"/test", resp.URL)
	assert.Empty(t, resp.History)
}

func TestClient_QueryParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := NewClient()
	require.NoError(t, err)

	resp, err := client.Do(context.Background(), &Request{
		Method: "GET",
		URL:    server.URL + "?format=json",
		Query:  map[string]any{"page": 2},
	})

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestClient_QueryPairSequence(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, []string{"a", "b"}, r.URL.Query()["tag"])
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := NewClient()
	require.NoError(t, err)

	_, err = client.Do(context.Background(), &Request{
		Method: "GET",
		URL:    server.URL,
		Query:  []any{[]any{"tag", "a"}, []any{"tag", "b"}},
	})

	require.NoError(t, err)
}

func TestClient_JSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "test", body["name"])
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client, err := NewClient()
	require.NoError(t, err)

	resp, err := client.Do(context.Background(), &Request{
		Method: "POST",
		URL:    server.URL,
		JSON:   map[string]any{"name": "test"},
	})

	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)
}

func TestClient_FormBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "admin", r.PostFormValue("user"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := NewClient()
	require.NoError(t, err)

	_, err = client.Do(context.Background(), &Request{
		Method: "POST",
		URL:    server.URL,
		Form:   map[string]string{"user": "admin"},
	})

	require.NoError(t, err)
}

func TestClient_MultipartFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "payload.txt")
	require.NoError(t, os.WriteFile(path, []byte("file-content"), 0o644))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("upload")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "payload.txt", header.Filename)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := NewClient()
	require.NoError(t, err)

	resp, err := client.Do(context.Background(), &Request{
		Method: "POST",
		URL:    server.URL,
		Files:  map[string]string{"upload": path},
	})

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestClient_BasicAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "admin", user)
		assert.Equal(t, "secret", pass)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := NewClient()
	require.NoError(t, err)

	_, err = client.Do(context.Background(), &Request{
		Method:    "GET",
		URL:       server.URL,
		BasicAuth: &Credentials{Username: "admin", Password: "secret"},
	})

	require.NoError(t, err)
}

func TestClient_Cookies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("session")
		require.NoError(t, err)
		assert.Equal(t, "s1", cookie.Value)
		http.SetCookie(w, &http.Cookie{Name: "token", Value: "t1"})
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := NewClient()
	require.NoError(t, err)

	resp, err := client.Do(context.Background(), &Request{
		Method:  "GET",
		URL:     server.URL,
		Cookies: map[string]string{"session": "s1"},
	})

	require.NoError(t, err)
	assert.Equal(t, map[string]string{"token": "t1"}, resp.Cookies)
}

func TestClient_RedirectHistory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/a":
			http.Redirect(w, r, "/b", http.StatusFound)
		case "/b":
			http.Redirect(w, r, "/final", http.StatusMovedPermanently)
		default:
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("done"))
		}
	}))
	defer server.Close()

	client, err := NewClient()
	require.NoError(t, err)

	resp, err := client.Do(context.Background(), &Request{Method: "GET", URL: server.URL + "/a"})

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, server.URL+"/final", resp.URL)
	require.Len(t, resp.History, 2)
	assert.Equal(t, Redirect{StatusCode: 302, URL: server.URL + "/a"}, resp.History[0])
	assert.Equal(t, Redirect{StatusCode: 301, URL: server.URL + "/b"}, resp.History[1])
	assert.False(t, resp.IsRedirect())
}

func TestClient_NoFollowRedirects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/final", http.StatusFound)
	}))
	defer server.Close()

	client, err := NewClient(WithFollowRedirects(false))
	require.NoError(t, err)

	resp, err := client.Do(context.Background(), &Request{Method: "GET", URL: server.URL})

	require.NoError(t, err)
	assert.Equal(t, 302, resp.StatusCode)
	assert.True(t, resp.IsRedirect())
	assert.False(t, resp.IsPermanentRedirect())
	assert.Empty(t, resp.History)
}

func TestClient_MaxRedirects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Infinite redirect loop
		http.Redirect(w, r, "/loop", http.StatusFound)
	}))
	defer server.Close()

	client, err := NewClient(WithMaxRedirects(3))
	require.NoError(t, err)

	resp, err := client.Do(context.Background(), &Request{Method: "GET", URL: server.URL + "/loop"})

	require.NoError(t, err)
	assert.Equal(t, 302, resp.StatusCode)
	assert.LessOrEqual(t, len(resp.History), 3)
}

func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := NewClient(WithTimeout(50 * time.Millisecond))
	require.NoError(t, err)

	_, err = client.Do(context.Background(), &Request{Method: "GET", URL: server.URL})

	assert.Error(t, err)
}

func TestClient_InvalidScheme(t *testing.T) {
	client, err := NewClient()
	require.NoError(t, err)

	_, err = client.Do(context.Background(), &Request{Method: "GET", URL: "ftp://example.com"})

	require.Error(t, err)
	var buildErr *BuildError
	assert.ErrorAs(t, err, &buildErr)
}

func TestClient_BadProxy(t *testing.T) {
	_, err := NewClient(WithProxies(map[string]string{"http": "://bad"}))
	assert.Error(t, err)
}

func TestClient_MissingCABundle(t *testing.T) {
	_, err := NewClient(WithCABundle("/nonexistent/ca.pem"))
	assert.Error(t, err)
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid http URL",
			url:  "http://example.com/path",
		},
		{
			name: "valid https URL",
			url:  "https://example.com/path",
		},
		{
			name:    "invalid scheme",
			url:     "ftp://example.com",
			wantErr: true,
			errMsg:  "unsupported URL scheme",
		},
		{
			name:    "missing scheme",
			url:     "example.com/path",
			wantErr: true,
			errMsg:  "unsupported URL scheme",
		},
		{
			name:    "missing host",
			url:     "http:///path",
			wantErr: true,
			errMsg:  "URL must have a host",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRequest_BuildURL_RawQueryString(t *testing.T) {
	req := &Request{URL: "https://example.com/path?a=1", Query: "b=2&c=3"}

	u, err := req.BuildURL()

	require.NoError(t, err)
	assert.Equal(t, "https://example.com/path?a=1&b=2&c=3", u)
}

func TestRequest_BuildURL_UnsupportedType(t *testing.T) {
	req := &Request{URL: "https://example.com", Query: 42}

	_, err := req.BuildURL()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported query parameter type")
}

func ExampleRequest_BuildURL() {
	req := &Request{URL: "https://example.com/items", Query: map[string]any{"page": 2}}
	u, _ := req.BuildURL()
	fmt.Println(u)
	// Output: https://example.com/items?page=2
}
