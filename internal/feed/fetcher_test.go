package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcherAddsCacheBuster(t *testing.T) {
	var tokens []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokens = append(tokens, r.URL.Query().Get("cb"))
		w.Write([]byte("header\np1,Taho,25,img,ok,3\n"))
	}))
	defer srv.Close()

	f := NewFetcher(srv.URL+"?gid=123&output=csv", 5*time.Second)
	// Distinct timestamps so consecutive fetches carry distinct tokens.
	fakeNow := time.Unix(0, 1)
	f.now = func() time.Time {
		fakeNow = fakeNow.Add(time.Nanosecond)
		return fakeNow
	}

	body1, fp1, err := f.Fetch(context.Background())
	require.NoError(t, err)
	_, fp2, err := f.Fetch(context.Background())
	require.NoError(t, err)

	assert.Contains(t, body1, "Taho")
	assert.Equal(t, fp1, fp2, "same body must fingerprint identically")
	require.Len(t, tokens, 2)
	assert.NotEmpty(t, tokens[0])
	assert.NotEqual(t, tokens[0], tokens[1])
}

func TestFetcherFingerprintTracksBody(t *testing.T) {
	body := "header\np1,Taho,25,img,ok,3\n"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()

	f := NewFetcher(srv.URL, 5*time.Second)

	_, fp1, err := f.Fetch(context.Background())
	require.NoError(t, err)

	body = "header\np1,Taho,25,img,ok,2\n"
	_, fp2, err := f.Fetch(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, fp1, fp2)
}

func TestFetcherErrors(t *testing.T) {
	t.Run("non-200 status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		_, _, err := NewFetcher(srv.URL, time.Second).Fetch(context.Background())
		assert.Error(t, err)
	})

	t.Run("unreachable host", func(t *testing.T) {
		_, _, err := NewFetcher("http://127.0.0.1:1", time.Second).Fetch(context.Background())
		assert.Error(t, err)
	})
}
