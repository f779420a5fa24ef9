package schemas

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLAllowed(t *testing.T) {
	assert.True(t, URLAllowed("https://schemas.openresume.org/resume/1.0.0/schema.json"))
	assert.True(t, URLAllowed("https://cdn.openresume.org/schemas/resume/2.0.0/schema.json"))
	assert.False(t, URLAllowed("https://evil.example.com/schema.json"))
	assert.False(t, URLAllowed("http://schemas.openresume.org/resume/1.0.0/schema.json"))
	assert.False(t, URLAllowed(""))
}

// allowHost temporarily adds a test server to the allow-list.
func allowHost(t *testing.T, prefix string) {
	t.Helper()
	saved := TrustedSchemaHosts
	TrustedSchemaHosts = append(append([]string{}, saved...), prefix)
	t.Cleanup(func() { TrustedSchemaHosts = saved })
}

func TestFetch_RejectsBeforeNetwork(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	f := NewFetcher(0)
	_, err := f.Fetch(context.Background(), srv.URL+"/schema.json")
	require.Error(t, err)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, fetchErr.Message, "allow-list")
	assert.Equal(t, int32(0), hits.Load(), "disallowed URLs must never reach the network")
}

func TestFetch_CachesByURL(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"type":"object"}`))
	}))
	defer srv.Close()
	allowHost(t, srv.URL)

	f := NewFetcher(time.Hour)
	url := srv.URL + "/schema.json"

	doc, err := f.Fetch(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, "object", doc["type"])

	_, err = f.Fetch(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load(), "second fetch should come from cache")

	f.Invalidate(url)
	_, err = f.Fetch(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestFetch_RetriesOnceWithinBudget(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"type":"object"}`))
	}))
	defer srv.Close()
	allowHost(t, srv.URL)

	f := NewFetcher(0)
	doc, err := f.Fetch(context.Background(), srv.URL+"/schema.json")
	require.NoError(t, err)
	assert.Equal(t, "object", doc["type"])
	assert.Equal(t, int32(2), hits.Load())
}

func TestFetch_BadStatusAndBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing.json":
			w.WriteHeader(http.StatusNotFound)
		default:
			_, _ = w.Write([]byte("not json"))
		}
	}))
	defer srv.Close()
	allowHost(t, srv.URL)

	f := NewFetcher(0)

	_, err := f.Fetch(context.Background(), srv.URL+"/missing.json")
	assert.Error(t, err)

	_, err = f.Fetch(context.Background(), srv.URL+"/garbage.json")
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, fetchErr.Message, "JSON")
}

func TestFetch_TimeoutFallsOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()
	allowHost(t, srv.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	f := NewFetcher(0)
	_, err := f.Fetch(ctx, srv.URL+"/slow.json")
	assert.Error(t, err)
}
