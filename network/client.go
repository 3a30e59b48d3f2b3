// Package network provides the shared HTTP client used to fetch remote catalogs and subtitles.
package network

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cinelane/cinelane/constant"
)

// Client is shared across the application.
var Client = &http.Client{
	Timeout:   time.Minute,
	Transport: newTransport(),
}

func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 20
	t.MaxIdleConnsPerHost = 10
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	return t
}

// MaxBody bounds how much of a response body Fetch reads.
const MaxBody = 16 << 20

// Fetch performs a GET request and returns the body. Non-2xx statuses are errors.
func Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", constant.UserAgent)

	res, err := Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s: unexpected status %s", url, res.Status)
	}

	return io.ReadAll(io.LimitReader(res.Body, MaxBody))
}
