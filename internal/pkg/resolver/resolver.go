// Package resolver unwraps share and pin links into direct image URLs.
package resolver

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/ds124wfegd/image-converter/config"
	jsoniter "github.com/json-iterator/go"
)

const (
	PlatformShare     = "Google share"
	PlatformPinterest = "Pinterest"
)

// DefaultMaxHops applies when resolver.max_hops is not positive.
const DefaultMaxHops = 10

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Resolver interface {
	Resolve(ctx context.Context, rawURL string) (*Resolution, error)
}

// Resolution is the direct image URL. Platform is empty when the input was already direct.
type Resolution struct {
	URL      string
	Platform string
}

type sourceResolver struct {
	cfg config.ResolverConfig

	// never follows redirects, the share chain is walked by hand
	shareClient *http.Client
	client      *http.Client
}

func NewSourceResolver(cfg config.ResolverConfig) Resolver {
	if cfg.MaxHops <= 0 {
		cfg.MaxHops = DefaultMaxHops
	}
	return &sourceResolver{
		cfg: cfg,
		shareClient: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (r *sourceResolver) Resolve(ctx context.Context, rawURL string) (*Resolution, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		// left for the fetcher to reject
		return &Resolution{URL: rawURL}, nil
	}
	host := strings.ToLower(u.Host)

	switch {
	case hostMatches(host, r.cfg.ShareHosts):
		direct, err := r.resolveShare(ctx, rawURL)
		if err != nil {
			return nil, err
		}
		return &Resolution{URL: direct, Platform: PlatformShare}, nil
	case hostMatches(host, r.cfg.PinterestHosts):
		direct, err := r.resolvePinterest(ctx, rawURL)
		if err != nil {
			return nil, err
		}
		return &Resolution{URL: direct, Platform: PlatformPinterest}, nil
	default:
		return &Resolution{URL: rawURL}, nil
	}
}

func hostMatches(host string, markers []string) bool {
	for _, m := range markers {
		if m != "" && strings.Contains(host, strings.ToLower(m)) {
			return true
		}
	}
	return false
}
