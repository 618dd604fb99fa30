package resolver

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/ds124wfegd/image-converter/internal/entity"
	"github.com/ds124wfegd/image-converter/internal/pkg/logger"
)

type pinterestRequest struct {
	URL string `json:"url"`
}

// videoUrl carries the image URL when contentType is "image".
type pinterestResponse struct {
	ContentType string `json:"contentType"`
	OriginalURL string `json:"originalUrl"`
	VideoURL    string `json:"videoUrl"`
}

func (r *sourceResolver) resolvePinterest(ctx context.Context, pinURL string) (string, error) {
	direct, err := r.postPinterest(ctx, pinURL)
	if err != nil {
		return "", &entity.ResolveError{Platform: PlatformPinterest, Err: err}
	}
	return direct, nil
}

func (r *sourceResolver) postPinterest(ctx context.Context, pinURL string) (string, error) {
	log := logger.FromContext(ctx)

	payload, err := json.Marshal(pinterestRequest{URL: pinURL})
	if err != nil {
		return "", fmt.Errorf("error encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.PinterestEndpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", r.cfg.UserAgent)
	}

	log.WithField("endpoint", r.cfg.PinterestEndpoint).Debug("requesting pin image")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("error reading response: %w", err)
	}

	var result pinterestResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("error parsing response: %w", err)
	}

	if result.ContentType != "image" || result.VideoURL == "" {
		log.WithField("content_type", result.ContentType).Warn("unexpected pin response")
		return "", fmt.Errorf("%w: contentType=%q", entity.ErrUnexpectedPayload, result.ContentType)
	}

	return result.VideoURL, nil
}
