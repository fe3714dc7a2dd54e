package whttp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendHTTPRequest(t *testing.T) {
	var gotUA, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("<html><head><title>\n Program page \n</title></head><body>Hello</body></html>"))
	}))
	defer server.Close()

	res, err := SendHTTPRequest(context.Background(), &WHTTPReq{
		Method:  "GET",
		URL:     server.URL,
		Headers: []WHTTPHeader{{Name: "Accept", Value: "text/html"}},
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "Program page", res.HTTPTitle)
	assert.Contains(t, res.BodyString, "Hello")
	assert.Equal(t, len(res.BodyString), res.ResponseLength)
	assert.Equal(t, DefaultUserAgent, gotUA)
	assert.Equal(t, "text/html", gotAccept)
}

func TestSendHTTPRequestReturnsClientErrorStatus(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	res, err := SendHTTPRequest(context.Background(), &WHTTPReq{Method: "GET", URL: server.URL}, newClient(3, time.Second))

	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, 1, hits, "4xx responses must not be retried")
}

func TestSendHTTPRequestRetriesServerErrors(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := newClient(1, time.Second)
	client.RetryWaitMin = time.Millisecond
	client.RetryWaitMax = time.Millisecond

	res, err := SendHTTPRequest(context.Background(), &WHTTPReq{Method: "GET", URL: server.URL}, client)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, 2, hits)
}

func TestSendHTTPRequestConnectionError(t *testing.T) {
	client := newClient(0, time.Second)
	_, err := SendHTTPRequest(context.Background(), &WHTTPReq{Method: "GET", URL: "http://127.0.0.1:1"}, client)
	assert.Error(t, err)
}

func TestSetupProxyRejectsGarbage(t *testing.T) {
	assert.Error(t, SetupProxy("not a proxy"))
}
