package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCountingServer(t *testing.T, body string) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestFetch_CachesByPath(t *testing.T) {
	srv, hits := newCountingServer(t, `[{"id":"1"}]`)
	c := NewClient(srv.URL)

	first, err := c.Fetch(context.Background(), "/api/paintings")
	require.NoError(t, err)
	second, err := c.Fetch(context.Background(), "/api/paintings")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, hits.Load(), "second fetch must come from cache")
}

func TestFetch_InvalidateForcesRefetch(t *testing.T) {
	srv, hits := newCountingServer(t, `[]`)
	c := NewClient(srv.URL)

	_, err := c.Fetch(context.Background(), "/api/paintings")
	require.NoError(t, err)

	c.Invalidate("/api/paintings")

	_, err = c.Fetch(context.Background(), "/api/paintings")
	require.NoError(t, err)
	assert.EqualValues(t, 2, hits.Load())
}

func TestInvalidate_Idempotent(t *testing.T) {
	srv, hits := newCountingServer(t, `[]`)
	c := NewClient(srv.URL)

	_, err := c.Fetch(context.Background(), "/api/paintings")
	require.NoError(t, err)

	// twice in succession must behave exactly like once
	c.Invalidate("/api/paintings")
	c.Invalidate("/api/paintings")

	_, err = c.Fetch(context.Background(), "/api/paintings")
	require.NoError(t, err)
	assert.EqualValues(t, 2, hits.Load())
}

func TestInvalidate_UnknownPathIsNoop(t *testing.T) {
	c := NewClient("http://example.invalid")
	c.Invalidate("/never/fetched")
}

func TestFetch_ConcurrentCallsCollapse(t *testing.T) {
	var hits atomic.Int64
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Fetch(context.Background(), "/api/paintings")
			assert.NoError(t, err)
		}()
	}

	// let both goroutines reach the client before releasing the server
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, hits.Load(), "near-simultaneous fetches must share one request")
}

func TestFetch_InvalidateDuringFlightForcesRefetch(t *testing.T) {
	var hits atomic.Int64
	entered := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			close(entered)
			<-release
			_, _ = w.Write([]byte(`["old"]`))
			return
		}
		_, _ = w.Write([]byte(`["new"]`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := c.Fetch(context.Background(), "/api/paintings")
		assert.NoError(t, err)
	}()

	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("first fetch never reached the server")
	}

	// the upload finished while the list fetch was still in flight
	c.Invalidate("/api/paintings")
	close(release)
	<-done

	body, err := c.Fetch(context.Background(), "/api/paintings")
	require.NoError(t, err)
	assert.Equal(t, `["new"]`, string(body), "fetch after invalidation must re-issue the request")
	assert.EqualValues(t, 2, hits.Load())

	// the pre-invalidation body must not have re-entered the cache
	body, err = c.Fetch(context.Background(), "/api/paintings")
	require.NoError(t, err)
	assert.Equal(t, `["new"]`, string(body))
	assert.EqualValues(t, 2, hits.Load())
}

func TestFetch_DisabledProducesNoTraffic(t *testing.T) {
	srv, hits := newCountingServer(t, `[]`)
	c := NewClient(srv.URL)
	c.SetEnabled(func() bool { return false })

	_, err := c.Fetch(context.Background(), "/api/admin/messages")
	assert.ErrorIs(t, err, ErrFetchDisabled)
	assert.EqualValues(t, 0, hits.Load())
}

func TestFetch_EnabledGateReevaluated(t *testing.T) {
	srv, hits := newCountingServer(t, `[]`)
	c := NewClient(srv.URL)

	enabled := false
	c.SetEnabled(func() bool { return enabled })

	_, err := c.Fetch(context.Background(), "/api/paintings")
	require.ErrorIs(t, err, ErrFetchDisabled)

	enabled = true
	_, err = c.Fetch(context.Background(), "/api/paintings")
	require.NoError(t, err)
	assert.EqualValues(t, 1, hits.Load())
}

func TestMutate_ReturnsServerMessageOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Year must be between 1900 and 2030"}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL)
	_, err := c.Mutate(context.Background(), http.MethodPost, "/api/admin/paintings", "application/json", nil)

	var ue *UploadError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, http.StatusBadRequest, ue.StatusCode)
	assert.Equal(t, "Year must be between 1900 and 2030", ue.Message)
	assert.Equal(t, "Year must be between 1900 and 2030", ue.Error())
}

func TestMutate_GenericMessageWhenBodyUnparsable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL)
	_, err := c.Mutate(context.Background(), http.MethodPost, "/x", "", nil)

	var ue *UploadError
	require.ErrorAs(t, err, &ue)
	assert.Empty(t, ue.Message)
	assert.Contains(t, ue.Error(), "500")
}

func TestMutate_SuccessReturnsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"abc"}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL)
	body, err := c.Mutate(context.Background(), http.MethodPost, "/api/admin/paintings", "application/json", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"abc"}`, string(body))
}

func TestFetch_ErrorNotCached(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL)

	_, err := c.Fetch(context.Background(), "/api/paintings")
	require.Error(t, err)

	body, err := c.Fetch(context.Background(), "/api/paintings")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(body))
}
