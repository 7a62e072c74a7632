package gzippedhttp

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gzipped(t *testing.T, s string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	return buf.Bytes()
}

func ungzipped(t *testing.T, b []byte) string {
	t.Helper()

	zr, err := gzip.NewReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer zr.Close()
	plain, err := io.ReadAll(zr)
	require.NoError(t, err)

	return string(plain)
}

func handlerWriting(status int, contentType, body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
}

func TestGzipResponse(t *testing.T) {
	tests := []struct {
		name           string
		acceptEncoding string
		status         int
		contentType    string
		wantGzip       bool
	}{
		{name: "json", acceptEncoding: "gzip, deflate", status: http.StatusOK, contentType: "application/json", wantGzip: true},
		{name: "csv", acceptEncoding: "gzip", status: http.StatusOK, contentType: "text/csv; charset=utf-8", wantGzip: true},
		{name: "client without gzip", acceptEncoding: "", status: http.StatusOK, contentType: "application/json"},
		{name: "error response", acceptEncoding: "gzip", status: http.StatusNotFound, contentType: "application/json"},
		{name: "plain text", acceptEncoding: "gzip", status: http.StatusOK, contentType: "text/plain"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			const body = `{"id":"1","title":"Algebra"}`

			request := httptest.NewRequest(http.MethodGet, "/resource/get/1", nil)
			if tt.acceptEncoding != "" {
				request.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}
			recorder := httptest.NewRecorder()

			GzipResponse(handlerWriting(tt.status, tt.contentType, body)).ServeHTTP(recorder, request)

			assert.Equal(t, tt.status, recorder.Code)
			assert.Equal(t, tt.contentType, recorder.Header().Get("Content-Type"))
			if !tt.wantGzip {
				assert.Empty(t, recorder.Header().Get("Content-Encoding"))
				assert.Equal(t, body, recorder.Body.String())
				return
			}
			assert.Equal(t, "gzip", recorder.Header().Get("Content-Encoding"))
			assert.Equal(t, body, ungzipped(t, recorder.Body.Bytes()))
		})
	}
}

func TestGzipResponseImplicitStatus(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Accept-Encoding", "gzip")
	recorder := httptest.NewRecorder()

	GzipResponse(handler).ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, `[]`, ungzipped(t, recorder.Body.Bytes()))
}

func TestUngzipRequest(t *testing.T) {
	var received string
	echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		received = string(b)
		w.WriteHeader(http.StatusOK)
	})

	request := httptest.NewRequest(http.MethodPut, "/resource/update", bytes.NewReader(gzipped(t, `{"id":"2"}`)))
	request.Header.Set("Content-Encoding", "gzip")
	recorder := httptest.NewRecorder()

	UngzipRequest(echo).ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, `{"id":"2"}`, received)
}

func TestUngzipRequestRejectsMalformedBody(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true })

	request := httptest.NewRequest(http.MethodPut, "/resource/update", strings.NewReader(`{"id":"2"}`))
	request.Header.Set("Content-Encoding", "gzip")
	recorder := httptest.NewRecorder()

	UngzipRequest(next).ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.False(t, called)
}
