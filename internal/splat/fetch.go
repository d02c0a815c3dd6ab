package splat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// DefaultMaxBytes caps an asset when the caller sets no limit.
const DefaultMaxBytes int64 = 256 << 20

// ErrTooLarge means the asset is bigger than the fetch limit.
var ErrTooLarge = errors.New("splat: asset too large")

// Fetch loads an asset from an http(s) URL, a file:// URL or a local path,
// reading at most maxBytes (DefaultMaxBytes when maxBytes <= 0).
// progress, when set, receives the fraction read so far if the size is known.
func Fetch(ctx context.Context, client *http.Client, locator string, maxBytes int64, progress func(float64)) (*Cloud, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	body, size, err := open(ctx, client, locator)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	if size > maxBytes {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit %d", ErrTooLarge, locator, size, maxBytes)
	}

	var r io.Reader = body
	if progress != nil && size > 0 {
		r = &countingReader{r: body, total: size, report: progress}
	}
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("splat: read %s: %w", locator, err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, locator, maxBytes)
	}
	cloud, err := DecodeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", locator, err)
	}
	if progress != nil {
		progress(1)
	}
	return cloud, nil
}

func open(ctx context.Context, client *http.Client, locator string) (io.ReadCloser, int64, error) {
	if strings.HasPrefix(locator, "http://") || strings.HasPrefix(locator, "https://") {
		if client == nil {
			client = http.DefaultClient
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
		if err != nil {
			return nil, 0, fmt.Errorf("build request: %w", err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, 0, fmt.Errorf("get %s: %w", locator, err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, 0, fmt.Errorf("get %s: unexpected status %s", locator, resp.Status)
		}
		return resp.Body, resp.ContentLength, nil
	}

	path := locator
	if strings.HasPrefix(locator, "file://") {
		u, err := url.Parse(locator)
		if err != nil {
			return nil, 0, fmt.Errorf("parse %s: %w", locator, err)
		}
		path = u.Path
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open asset: %w", err)
	}
	var size int64
	if st, err := f.Stat(); err == nil {
		size = st.Size()
	}
	return ctxReadCloser{ctx: ctx, ReadCloser: f}, size, nil
}

type countingReader struct {
	r      io.Reader
	read   int64
	total  int64
	report func(float64)
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.read += int64(n)
	if n > 0 {
		c.report(float64(c.read) / float64(c.total))
	}
	return n, err
}

// ctxReadCloser stops local reads once ctx is cancelled.
type ctxReadCloser struct {
	ctx context.Context
	io.ReadCloser
}

func (c ctxReadCloser) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.ReadCloser.Read(p)
}
