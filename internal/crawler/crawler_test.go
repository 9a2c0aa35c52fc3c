
package crawler

import (
	"bufio"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchHTML(t *testing.T) {
	var gotUA, gotAccept string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(200)
		_, _ = w.Write([]byte("<html><title>x</title></html>"))
	}))
	defer ts.Close()

	client := NewHTTPClient(5*time.Second, 2*time.Second, 1024)
	resp, err := client.Fetch(context.Background(), ts.URL, AcceptHTML)
	require.NoError(t, err)
	assert.Equal(t, "<html><title>x</title></html>", string(resp.Body))
	assert.NotEmpty(t, resp.FinalURL)
	assert.Equal(t, "text/html", resp.ContentType)
	assert.Equal(t, DefaultUserAgent, gotUA)
	assert.Equal(t, acceptHTML, gotAccept)
}

func TestFetchJSONAccepted(t *testing.T) {
	var gotAccept string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("{}"))
	}))
	defer ts.Close()

	client := NewHTTPClient(5*time.Second, 2*time.Second, 1024)
	resp, err := client.Fetch(context.Background(), ts.URL, AcceptJSON)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(resp.Body))
	assert.Equal(t, "application/json, text/plain, */*", gotAccept)
}

func TestFetchStatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer ts.Close()

	client := NewHTTPClient(5*time.Second, 2*time.Second, 1024)
	_, err := client.Fetch(context.Background(), ts.URL, AcceptHTML)
	require.Error(t, err)

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, KindStatus, fe.Kind)
	assert.Equal(t, "HTTP 404: Not Found", err.Error())
}

// statusLineServer answers every request with the given raw status line.
func statusLineServer(t *testing.T, statusLine string) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			if _, err := http.ReadRequest(bufio.NewReader(conn)); err == nil {
				_, _ = io.WriteString(conn, statusLine+"\r\nContent-Length: 0\r\nConnection: close\r\n\r\n")
			}
			conn.Close()
		}
	}()
	return "http://" + ln.Addr().String() + "/"
}

func TestFetchStatusErrorKeepsServerReason(t *testing.T) {
	client := NewHTTPClient(5*time.Second, 2*time.Second, 1024)

	_, err := client.Fetch(context.Background(), statusLineServer(t, "HTTP/1.1 599 Upstream Melted"), AcceptHTML)
	require.Error(t, err)
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 599, fe.StatusCode)
	assert.Equal(t, "HTTP 599: Upstream Melted", err.Error())

	_, err = client.Fetch(context.Background(), statusLineServer(t, "HTTP/1.1 404 Nothing Here"), AcceptHTML)
	require.Error(t, err)
	assert.Equal(t, "HTTP 404: Nothing Here", err.Error())
}

func TestReasonPhrase(t *testing.T) {
	assert.Equal(t, "Not Found", ReasonPhrase("404 Not Found", 404))
	assert.Equal(t, "", ReasonPhrase("599", 599))
}

func TestFetchGzipAndSizeCap(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		_, _ = gz.Write([]byte("0123456789abcdef"))
		_ = gz.Close()
	}))
	defer ts.Close()

	client := NewHTTPClient(5*time.Second, 2*time.Second, 10)
	resp, err := client.Fetch(context.Background(), ts.URL, AcceptHTML)
	require.NoError(t, err)
	assert.Equal(t, "0123456789", string(resp.Body))
}

func TestFetchNetworkError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := ts.URL
	ts.Close()

	client := NewHTTPClient(time.Second, time.Second, 1024)
	_, err := client.Fetch(context.Background(), addr, AcceptHTML)
	require.Error(t, err)

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, KindNetwork, fe.Kind)
}

func TestFetchInvalidURL(t *testing.T) {
	client := NewHTTPClient(time.Second, time.Second, 1024)
	_, err := client.Fetch(context.Background(), "not a url", AcceptHTML)
	require.Error(t, err)
}
