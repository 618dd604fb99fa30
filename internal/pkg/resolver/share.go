package resolver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/ds124wfegd/image-converter/internal/entity"
	"github.com/ds124wfegd/image-converter/internal/pkg/logger"
	"github.com/sirupsen/logrus"
)

const imageParam = "imgurl"

// resolveShare walks the Location chain until a hop carries an imgurl query parameter.
func (r *sourceResolver) resolveShare(ctx context.Context, shareURL string) (string, error) {
	log := logger.FromContext(ctx)
	current := shareURL

	for hop := 1; hop <= r.cfg.MaxHops; hop++ {
		location, err := r.nextLocation(ctx, current)
		if err != nil {
			return "", &entity.ResolveError{Platform: PlatformShare, Err: err}
		}
		if location == nil {
			return "", &entity.ResolveError{Platform: PlatformShare, Err: entity.ErrNoImageParam}
		}

		log.WithFields(logrus.Fields{"hop": hop, "location": location.String()}).Debug("share redirect")

		if img := location.Query().Get(imageParam); img != "" {
			return img, nil
		}
		current = location.String()
	}

	return "", &entity.ResolveError{
		Platform: PlatformShare,
		Err:      fmt.Errorf("%w: more than %d hops", entity.ErrTooManyRedirects, r.cfg.MaxHops),
	}
}

// nextLocation returns nil when the response carries no Location header.
func (r *sourceResolver) nextLocation(ctx context.Context, target string) (*url.URL, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	if r.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", r.cfg.UserAgent)
	}

	resp, err := r.shareClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error executing request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	loc := resp.Header.Get("Location")
	if loc == "" {
		return nil, nil
	}

	next, err := resp.Request.URL.Parse(loc)
	if err != nil {
		return nil, fmt.Errorf("invalid Location %q: %w", loc, err)
	}
	return next, nil
}
