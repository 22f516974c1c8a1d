// internal/common/httpclient/client_test.go
package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "postgen/internal/common/errors"
)

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"openapi":"3.0.0"}`))
	}))
	defer srv.Close()

	client := NewClient(5 * time.Second)
	data, err := client.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.JSONEq(t, `{"openapi":"3.0.0"}`, string(data))
}

func TestFetchNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := NewClient(5 * time.Second)
	_, err := client.Fetch(context.Background(), srv.URL)
	require.Error(t, err)

	stdErr, ok := stderrors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, stderrors.ErrCodeSpecDownloadFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}

func TestFetchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewClient(20 * time.Millisecond)
	_, err := client.Fetch(context.Background(), srv.URL)
	require.Error(t, err)

	stdErr, ok := stderrors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, stderrors.ErrCodeSpecDownloadTimeout, stdErr.Code)
}

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("https://example.com/openapi.yaml"))
	assert.True(t, IsURL("http://localhost:8080/spec"))
	assert.False(t, IsURL("./specs/petstore.yaml"))
	assert.False(t, IsURL("/abs/path/petstore.json"))
}
