package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClient_GetJSON(t *testing.T) {
	var gotAuth, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"cats","count":3}`))
	}))
	defer srv.Close()

	client := NewClient(WithHeader("Authorization", "secret"), WithUserAgent("test-agent"))

	var out struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	require.NoError(t, client.GetJSON(context.Background(), srv.URL, &out))
	require.Equal(t, "cats", out.Name)
	require.Equal(t, 3, out.Count)
	require.Equal(t, "secret", gotAuth)
	require.Equal(t, "test-agent", gotUA)
}

func TestClient_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"rate limited"}`))
	}))
	defer srv.Close()

	_, err := NewClient().Get(context.Background(), srv.URL)
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
	require.Contains(t, string(statusErr.Body), "rate limited")
}

func TestClient_GetJSON_Malformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	var out map[string]any
	err := NewClient().GetJSON(context.Background(), srv.URL, &out)
	require.ErrorContains(t, err, "decode response")
}

func TestClient_Cancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient().Get(ctx, srv.URL)
	require.ErrorIs(t, err, context.Canceled)
}

func TestClient_DownloadFile(t *testing.T) {
	payload := []byte("0123456789abcdef")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "photo.jpg")

	var lastWritten int64
	err := NewClient().DownloadFile(context.Background(), srv.URL, dest, func(written, total int64) {
		lastWritten = written
	})
	require.NoError(t, err)
	require.Equal(t, int64(len(payload)), lastWritten)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, payload, data)
}

func TestProgressWriter(t *testing.T) {
	var sink []byte
	w := writerFunc(func(p []byte) (int, error) {
		sink = append(sink, p...)
		return len(p), nil
	})

	var updates int
	pw := &ProgressWriter{Writer: w, Total: 10, OnUpdate: func(written, total int64) { updates++ }}
	pw.Write([]byte("abcd"))
	pw.Write([]byte("efg"))

	require.Equal(t, int64(7), pw.Written)
	require.Equal(t, 2, updates)
	require.Equal(t, "abcdefg", string(sink))
}

type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }
