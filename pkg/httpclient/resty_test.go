package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestyClient_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ping", r.URL.Path)
		assert.Equal(t, "7", r.URL.Query().Get("timeRange"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, "")
	var result struct {
		OK bool `json:"ok"`
	}
	resp, err := client.Get(context.Background(), "/ping", map[string]string{"timeRange": "7"}, nil, &result)
	require.NoError(t, err)
	assert.True(t, resp.IsSuccess())
	assert.True(t, result.OK)
	assert.JSONEq(t, `{"ok":true}`, string(resp.Body))
}

func TestRestyClient_GetWithoutResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`missing`))
	}))
	defer srv.Close()

	resp, err := New(srv.URL, time.Second, "").Get(context.Background(), "/x", nil, nil, nil)
	require.NoError(t, err)
	assert.False(t, resp.IsSuccess())
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "missing", string(resp.Body))
}

func TestRestyClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	resp, err := New(url, time.Second, "").Get(context.Background(), "/x", nil, nil, nil)
	assert.Error(t, err)
	require.NotNil(t, resp)
	assert.False(t, resp.IsSuccess())
}
