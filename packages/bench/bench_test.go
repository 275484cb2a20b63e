package bench

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runbookd/urimod/packages/params"
)

func TestRun_SequentialIterations(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	summary, err := Run(context.Background(), &params.Spec{Method: "GET", URL: server.URL}, Options{Count: 5})

	require.NoError(t, err)
	assert.Equal(t, 5, summary.Count)
	assert.Equal(t, 0, summary.Errors)
	assert.Equal(t, int64(5), hits.Load())
	assert.GreaterOrEqual(t, summary.Max, summary.Min)
	assert.Greater(t, summary.Duration, time.Duration(0))
}

func TestRun_CountsRemoteFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	summary, err := Run(context.Background(), &params.Spec{Method: "GET", URL: server.URL}, Options{Count: 3})

	require.NoError(t, err)
	assert.Equal(t, 3, summary.Count)
	assert.Equal(t, 3, summary.Errors)
}

func TestRun_ConfigErrorAborts(t *testing.T) {
	_, err := Run(context.Background(), &params.Spec{Method: "GET"}, Options{Count: 3})

	require.Error(t, err)
	var configErr *params.ConfigError
	assert.ErrorAs(t, err, &configErr)
}

func TestRun_DefaultsCountToOne(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	summary, err := Run(context.Background(), &params.Spec{Method: "GET", URL: server.URL}, Options{})

	require.NoError(t, err)
	assert.Equal(t, 1, summary.Count)
}
