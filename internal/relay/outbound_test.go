package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDeliver_Success(t *testing.T) {
	var (
		gotAuth  string
		gotType  string
		gotBody  Payload
		gotCalls int
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCalls++
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	res := NewClient(time.Second).Deliver(context.Background(),
		Target{URL: server.URL + "/hook", Token: "t1"},
		NewMessage("c1", "reply"))

	require.True(t, res.Delivered)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, ReasonNone, res.Reason)
	require.Equal(t, 1, gotCalls)
	require.Equal(t, "Bearer t1", gotAuth)
	require.Equal(t, "application/json", gotType)
	require.Equal(t, Payload{EventType: "new_message", ChatID: "c1", Text: "reply"}, gotBody)
}

func TestDeliver_AcceptedStatuses(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusCreated, http.StatusAccepted} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
		}))
		res := NewClient(time.Second).Deliver(context.Background(), Target{URL: server.URL}, NewMessage("c", "t"))
		server.Close()
		require.True(t, res.Delivered, "status %d", status)
	}
}

func TestDeliver_RejectedStatuses(t *testing.T) {
	for _, status := range []int{http.StatusNoContent, http.StatusBadRequest, http.StatusUnauthorized, http.StatusInternalServerError} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte("nope"))
		}))
		res := NewClient(time.Second).Deliver(context.Background(), Target{URL: server.URL}, NewMessage("c", "t"))
		server.Close()
		require.False(t, res.Delivered, "status %d", status)
		require.Equal(t, ReasonStatus, res.Reason)
		require.Equal(t, status, res.StatusCode)
	}
}

func TestDeliver_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	res := NewClient(50*time.Millisecond).Deliver(context.Background(), Target{URL: server.URL}, NewMessage("c", "t"))
	require.False(t, res.Delivered)
	require.Equal(t, ReasonTimeout, res.Reason)
}

func TestDeliver_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	res := NewClient(time.Second).Deliver(context.Background(), Target{URL: url}, NewMessage("c", "t"))
	require.False(t, res.Delivered)
	require.Equal(t, ReasonTransport, res.Reason)
}

func TestDeliver_BadURL(t *testing.T) {
	res := NewClient(time.Second).Deliver(context.Background(), Target{URL: "://bad"}, NewMessage("c", "t"))
	require.False(t, res.Delivered)
	require.Equal(t, ReasonRequest, res.Reason)
}

func TestDeliver_Unencodable(t *testing.T) {
	res := NewClient(time.Second).Deliver(context.Background(), Target{URL: "http://localhost"}, make(chan int))
	require.False(t, res.Delivered)
	require.Equal(t, ReasonEncode, res.Reason)
}

func TestNewClient_DefaultTimeout(t *testing.T) {
	require.Equal(t, DefaultTimeout, NewClient(0).client.Timeout)
}
