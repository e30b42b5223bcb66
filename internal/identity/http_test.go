package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPDirectoryLookupActor(t *testing.T) {
	known := uuid.New()
	broken := uuid.New()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users/" + known.String():
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"handle":"alice","display_name":"Alice Nguyen"}`))
		case "/users/" + broken.String():
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	directory := NewHTTPDirectory(srv.URL, time.Second)
	defer directory.Close()

	t.Run("Found", func(t *testing.T) {
		actor, found, err := directory.LookupActor(context.Background(), known)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, Actor{ID: known, Handle: "alice", DisplayName: "Alice Nguyen"}, actor)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, found, err := directory.LookupActor(context.Background(), uuid.New())
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("UpstreamError", func(t *testing.T) {
		_, found, err := directory.LookupActor(context.Background(), broken)
		require.Error(t, err)
		assert.False(t, found)
	})
}

func TestHTTPDirectoryUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	directory := NewHTTPDirectory(url, time.Second)
	defer directory.Close()

	_, found, err := directory.LookupActor(context.Background(), uuid.New())
	require.Error(t, err)
	assert.False(t, found)
}
