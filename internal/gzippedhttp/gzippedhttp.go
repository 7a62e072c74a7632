// Package gzippedhttp provides middlewares that gzip the stub responses
// and unpack gzip-encoded request bodies.
package gzippedhttp

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/patric-chuzhbe/materials/internal/logger"
)

// compressibleTypes are the response content types worth compressing.
var compressibleTypes = []string{
	"application/json",
	"text/csv",
}

var gzipWriterPool = sync.Pool{
	New: func() interface{} {
		w, _ := gzip.NewWriterLevel(nil, gzip.BestSpeed)
		return w
	},
}

// compressingWriter decides on the first WriteHeader whether the body is
// compressed. Error responses and unknown content types pass through.
type compressingWriter struct {
	http.ResponseWriter
	zw          *gzip.Writer
	wroteHeader bool
}

func (c *compressingWriter) WriteHeader(statusCode int) {
	if c.wroteHeader {
		return
	}
	c.wroteHeader = true

	if statusCode < http.StatusMultipleChoices && isCompressible(c.Header().Get("Content-Type")) {
		c.Header().Set("Content-Encoding", "gzip")
		c.Header().Del("Content-Length")
		c.Header().Add("Vary", "Accept-Encoding")

		c.zw = gzipWriterPool.Get().(*gzip.Writer)
		c.zw.Reset(c.ResponseWriter)
	}

	c.ResponseWriter.WriteHeader(statusCode)
}

func (c *compressingWriter) Write(p []byte) (int, error) {
	if !c.wroteHeader {
		c.WriteHeader(http.StatusOK)
	}
	if c.zw == nil {
		return c.ResponseWriter.Write(p)
	}

	return c.zw.Write(p)
}

func (c *compressingWriter) close() error {
	if c.zw == nil {
		return nil
	}
	defer gzipWriterPool.Put(c.zw)

	return c.zw.Close()
}

func isCompressible(contentType string) bool {
	for _, t := range compressibleTypes {
		if strings.HasPrefix(contentType, t) {
			return true
		}
	}
	return false
}

// GzipResponse compresses JSON and CSV responses for clients that accept gzip.
func GzipResponse(h http.Handler) http.Handler {
	middleware := func(response http.ResponseWriter, request *http.Request) {
		if !strings.Contains(request.Header.Get("Accept-Encoding"), "gzip") {
			h.ServeHTTP(response, request)
			return
		}

		cw := &compressingWriter{ResponseWriter: response}
		defer func() {
			if err := cw.close(); err != nil {
				logger.Log.Debugln("Error closing the gzip writer: ", zap.Error(err))
			}
		}()

		h.ServeHTTP(cw, request)
	}

	return http.HandlerFunc(middleware)
}

type gzipBody struct {
	io.ReadCloser
	zr *gzip.Reader
}

func (b *gzipBody) Read(p []byte) (int, error) {
	return b.zr.Read(p)
}

func (b *gzipBody) Close() error {
	zErr := b.zr.Close()
	if err := b.ReadCloser.Close(); err != nil {
		return err
	}
	return zErr
}

// UngzipRequest unpacks request bodies sent with Content-Encoding: gzip.
// A body that is not valid gzip is answered with 400.
func UngzipRequest(h http.Handler) http.Handler {
	middleware := func(response http.ResponseWriter, request *http.Request) {
		if !strings.Contains(request.Header.Get("Content-Encoding"), "gzip") {
			h.ServeHTTP(response, request)
			return
		}

		zr, err := gzip.NewReader(request.Body)
		if err != nil {
			logger.Log.Debugln("Error calling the `gzip.NewReader()`: ", zap.Error(err))
			http.Error(response, "malformed gzip body", http.StatusBadRequest)
			return
		}
		request.Body = &gzipBody{ReadCloser: request.Body, zr: zr}
		request.Header.Del("Content-Encoding")
		request.ContentLength = -1

		h.ServeHTTP(response, request)
	}

	return http.HandlerFunc(middleware)
}
