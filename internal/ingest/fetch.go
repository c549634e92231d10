package ingest

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Fetcher opens a CSV source, which is either a local path or an http(s) URL
// (the source datasets are published as shared download links).
type Fetcher struct {
	client *resty.Client
	logger *zap.Logger
}

func NewFetcher(logger *zap.Logger) *Fetcher {
	client := resty.New().
		SetTimeout(5 * time.Minute). // the status file runs to millions of rows
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second)

	return &Fetcher{client: client, logger: logger}
}

// Open returns a reader over the source contents. The caller closes it.
func (f *Fetcher) Open(source string) (io.ReadCloser, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return f.download(source)
	}
	file, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", source, err)
	}
	return file, nil
}

func (f *Fetcher) download(url string) (io.ReadCloser, error) {
	f.logger.Info("downloading source file", zap.String("url", url))

	resp, err := f.client.R().
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", url, err)
	}
	if resp.StatusCode() != 200 {
		resp.RawBody().Close()
		return nil, fmt.Errorf("download %s: unexpected status %d", url, resp.StatusCode())
	}
	return resp.RawBody(), nil
}
