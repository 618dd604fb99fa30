package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/ds124wfegd/image-converter/config"
	"github.com/ds124wfegd/image-converter/internal/entity"
	"github.com/ds124wfegd/image-converter/internal/pkg/logger"
	"github.com/gabriel-vasile/mimetype"
)

type Fetcher interface {
	Fetch(ctx context.Context, url string) (*entity.Download, error)
}

type httpFetcher struct {
	client       *http.Client
	userAgent    string
	maxBodyBytes int64
}

func NewHTTPFetcher(cfg config.FetcherConfig) Fetcher {
	return &httpFetcher{
		client:       &http.Client{Timeout: cfg.Timeout},
		userAgent:    cfg.UserAgent,
		maxBodyBytes: cfg.MaxBodyBytes,
	}
}

// Fetch returns the body of a 2xx response. Every failure is a *entity.DownloadError.
func (f *httpFetcher) Fetch(ctx context.Context, url string) (*entity.Download, error) {
	body, contentType, err := f.get(ctx, url)
	if err != nil {
		logger.FromContext(ctx).WithError(err).WithField("url", url).Error("download failed")
		return nil, &entity.DownloadError{URL: url, Err: err}
	}

	if contentType == "" {
		contentType = mimetype.Detect(body).String()
	}

	return &entity.Download{
		URL:         url,
		ContentType: contentType,
		Body:        body,
	}, nil
}

func (f *httpFetcher) get(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("error creating request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	res, err := f.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, "", fmt.Errorf("%d %s for url: %s", res.StatusCode, http.StatusText(res.StatusCode), url)
	}

	var reader io.Reader = res.Body
	if f.maxBodyBytes > 0 {
		if res.ContentLength > f.maxBodyBytes {
			return nil, "", fmt.Errorf("%w: %d bytes", entity.ErrBodyTooLarge, res.ContentLength)
		}
		reader = io.LimitReader(res.Body, f.maxBodyBytes+1)
	}

	buf, err := io.ReadAll(reader)
	if err != nil {
		return nil, "", fmt.Errorf("error reading response: %w", err)
	}
	if f.maxBodyBytes > 0 && int64(len(buf)) > f.maxBodyBytes {
		return nil, "", fmt.Errorf("%w: more than %d bytes", entity.ErrBodyTooLarge, f.maxBodyBytes)
	}

	return buf, res.Header.Get("Content-Type"), nil
}
