package api

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fulldump/apitest"
	"github.com/fulldump/biff"
	"github.com/fulldump/box"
	"github.com/klauspost/compress/gzip"
	"golang.org/x/time/rate"
)

func TestFormatRemoteAddr(t *testing.T) {

	r := httptest.NewRequest(http.MethodGet, "/", nil)

	r.RemoteAddr = "10.0.0.1:5555"
	biff.AssertEqual(formatRemoteAddr(r), "10.0.0.1")

	r.Header.Set("X-Forwarded-For", " 192.168.1.7, 10.0.0.1")
	biff.AssertEqual(formatRemoteAddr(r), "192.168.1.7")

	r.Header.Del("X-Forwarded-For")
	r.RemoteAddr = "pipe"
	biff.AssertEqual(formatRemoteAddr(r), "pipe")
}

func TestRateLimit(t *testing.T) {

	b := box.NewBox()
	b.Resource("/ping").WithActions(box.Get(func() string { return "pong" }))
	b.WithInterceptors(
		PrettyErrorInterceptor,
		RateLimit(rate.NewLimiter(rate.Every(time.Hour), 2)),
	)

	api := apitest.NewWithHandler(b)

	biff.AssertEqual(api.Request("GET", "/ping").Do().StatusCode, http.StatusOK)
	biff.AssertEqual(api.Request("GET", "/ping").Do().StatusCode, http.StatusOK)

	resp := api.Request("GET", "/ping").Do()
	biff.AssertEqual(resp.StatusCode, http.StatusTooManyRequests)
	biff.AssertEqualJson(resp.BodyJson(), map[string]any{
		"error": map[string]any{
			"message":     "too many requests",
			"description": "slow down",
		},
	})
}

func TestCompression(t *testing.T) {

	b := box.NewBox()
	b.Resource("/ping").WithActions(box.Get(func() string { return "pong" }))
	b.WithInterceptors(Compression)

	api := apitest.NewWithHandler(b)

	resp := api.Request("GET", "/ping").WithHeader("Accept-Encoding", "gzip").Do()
	biff.AssertEqual(resp.Header.Get("Content-Encoding"), "gzip")

	gz, err := gzip.NewReader(bytes.NewReader(resp.BodyBytes()))
	biff.AssertNil(err)
	body, err := io.ReadAll(gz)
	biff.AssertNil(err)
	biff.AssertEqual(strings.TrimSpace(string(body)), `"pong"`)

	resp = api.Request("GET", "/ping").Do()
	biff.AssertEqual(resp.Header.Get("Content-Encoding"), "")
	biff.AssertEqual(strings.TrimSpace(resp.BodyString()), `"pong"`)
}
