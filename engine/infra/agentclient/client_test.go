package agentclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/orca-network/orca/engine/core"
	"github.com/orca-network/orca/engine/execution"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPayload() *execution.PreparePayload {
	return &execution.PreparePayload{
		ExecutionID:  "9c8b7a6d-5e4f-4321-8fed-cba987654303",
		Goal:         "summarize report",
		JobInput:     core.Map{"doc_id": core.String("42")},
		JobInputHash: "abc123",
	}
}

func TestClient_Prepare(t *testing.T) {
	ctx := context.Background()

	t.Run("Should post the payload as JSON and return the body", func(t *testing.T) {
		var received map[string]any
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/prepare", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.Equal(t, "orca-test", r.Header.Get("User-Agent"))
			body, _ := io.ReadAll(r.Body)
			assert.NoError(t, json.Unmarshal(body, &received))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"ready": true}`))
		}))
		defer srv.Close()

		resp, err := New(Config{UserAgent: "orca-test"}).Prepare(ctx, srv.URL+"/prepare", testPayload())
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, `{"ready": true}`, string(resp.Body))
		assert.Equal(t, "summarize report", received["goal"])
		assert.Equal(t, "abc123", received["job_input_hash"])
		assert.Equal(t, map[string]any{"doc_id": "42"}, received["job_input"])
	})

	t.Run("Should return a rejection carrying status and body", func(t *testing.T) {
		calls := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls++
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("agent exploded"))
		}))
		defer srv.Close()

		_, err := New(Config{}).Prepare(ctx, srv.URL+"/prepare", testPayload())
		var rejected *core.RemoteRejectedError
		require.ErrorAs(t, err, &rejected)
		assert.Equal(t, http.StatusInternalServerError, rejected.StatusCode)
		assert.Equal(t, "agent exploded", rejected.Body)
		assert.ErrorIs(t, err, core.ErrRemoteRejected)
		assert.Equal(t, 1, calls)
	})

	t.Run("Should report unreachable agents", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := New(Config{}).Prepare(ctx, url+"/prepare", testPayload())
		assert.ErrorIs(t, err, core.ErrRemoteUnreachable)
		assert.NotErrorIs(t, err, core.ErrRemoteRejected)
	})

	t.Run("Should time out slow agents", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			<-release
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()
		defer close(release)

		_, err := New(Config{Timeout: 50 * time.Millisecond}).Prepare(ctx, srv.URL+"/prepare", testPayload())
		assert.ErrorIs(t, err, core.ErrRemoteUnreachable)
	})
}
