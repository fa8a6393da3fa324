package httpclient

import (
	"compress/gzip"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
)

// decodingTransport advertises brotli and gzip and unwraps the response body.
// Setting Accept-Encoding ourselves turns off net/http's built-in gzip handling,
// so both encodings are handled here.
type decodingTransport struct {
	base http.RoundTripper
}

func (t *decodingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("Accept-Encoding") == "" && req.Header.Get("Range") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("Accept-Encoding", "br, gzip")
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "br":
		resp.Body = &decodedBody{Reader: brotli.NewReader(resp.Body), raw: resp.Body}
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			if errors.Is(err, io.EOF) {
				resp.Body.Close()
				resp.Body = http.NoBody
				break
			}
			resp.Body.Close()
			return nil, err
		}
		resp.Body = &decodedBody{Reader: gz, raw: resp.Body, extra: gz}
	default:
		return resp, nil
	}

	resp.Header.Del("Content-Encoding")
	resp.Header.Del("Content-Length")
	resp.ContentLength = -1
	resp.Uncompressed = true
	return resp, nil
}

type decodedBody struct {
	io.Reader
	raw   io.Closer
	extra io.Closer
}

func (b *decodedBody) Close() error {
	if b.extra != nil {
		_ = b.extra.Close()
	}
	return b.raw.Close()
}
