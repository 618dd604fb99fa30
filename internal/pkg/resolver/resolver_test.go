package resolver

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ds124wfegd/image-converter/config"
	"github.com/ds124wfegd/image-converter/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.ResolverConfig {
	return config.ResolverConfig{
		ShareHosts:     []string{"share.google"},
		PinterestHosts: []string{"pinterest.com", "pin.it"},
		Timeout:        5 * time.Second,
		MaxHops:        10,
		UserAgent:      "test-agent",
	}
}

func TestResolveDirectURL(t *testing.T) {
	r := NewSourceResolver(testConfig())

	res, err := r.Resolve(t.Context(), "https://example.com/photo.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/photo.jpg", res.URL)
	assert.Empty(t, res.Platform)
}

func TestResolveShare(t *testing.T) {
	direct := "https://cdn.example.com/a b.png?x=1&y=2"

	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
		wantErr error
	}{
		{
			name: "imgurl first parameter",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Location", "https://www.google.com/imgres?imgurl="+url.QueryEscape(direct)+"&imgrefurl=x")
				w.WriteHeader(http.StatusFound)
			},
			want: direct,
		},
		{
			name: "imgurl later parameter after relative hops",
			handler: func(w http.ResponseWriter, r *http.Request) {
				switch r.URL.Path {
				case "/start":
					w.Header().Set("Location", "/middle")
				case "/middle":
					w.Header().Set("Location", "/imgres?tbnid=1&imgurl="+url.QueryEscape(direct)+"&docid=2")
				}
				w.WriteHeader(http.StatusMovedPermanently)
			},
			want: direct,
		},
		{
			name: "chain ends without imgurl",
			handler: func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/start" {
					w.Header().Set("Location", "/landing?q=cats")
					w.WriteHeader(http.StatusFound)
					return
				}
				w.WriteHeader(http.StatusOK)
			},
			wantErr: entity.ErrNoImageParam,
		},
		{
			name: "endless chain is capped",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Location", "/start")
				w.WriteHeader(http.StatusFound)
			},
			wantErr: entity.ErrTooManyRedirects,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			cfg := testConfig()
			cfg.ShareHosts = []string{"127.0.0.1"}
			r := NewSourceResolver(cfg)

			res, err := r.Resolve(t.Context(), srv.URL+"/start")
			if tc.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tc.wantErr)
				var re *entity.ResolveError
				require.True(t, errors.As(err, &re))
				assert.Equal(t, PlatformShare, re.Platform)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, res.URL)
			assert.Equal(t, PlatformShare, res.Platform)
		})
	}
}

func TestResolveShareHopLimit(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Header().Set("Location", "/again")
		w.WriteHeader(http.StatusFound)
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.ShareHosts = []string{"127.0.0.1"}
	cfg.MaxHops = 3

	_, err := NewSourceResolver(cfg).Resolve(t.Context(), srv.URL)
	require.ErrorIs(t, err, entity.ErrTooManyRedirects)
	assert.Equal(t, int32(3), hits.Load())
}

func TestResolvePinterest(t *testing.T) {
	tests := []struct {
		name           string
		responseStatus int
		responseBody   string
		want           string
		wantErr        bool
	}{
		{
			name:           "success",
			responseStatus: http.StatusOK,
			responseBody:   `{"contentType":"image","originalUrl":"https://pin.it/abc","videoUrl":"https://i.pinimg.com/originals/a.jpg"}`,
			want:           "https://i.pinimg.com/originals/a.jpg",
		},
		{
			name:           "video content",
			responseStatus: http.StatusOK,
			responseBody:   `{"contentType":"video","videoUrl":"https://v.pinimg.com/a.mp4"}`,
			wantErr:        true,
		},
		{
			name:           "missing videoUrl",
			responseStatus: http.StatusOK,
			responseBody:   `{"contentType":"image"}`,
			wantErr:        true,
		},
		{
			name:           "api error",
			responseStatus: http.StatusBadGateway,
			responseBody:   `{"contentType":"image","videoUrl":"https://i.pinimg.com/a.jpg"}`,
			wantErr:        true,
		},
		{
			name:           "malformed JSON",
			responseStatus: http.StatusOK,
			responseBody:   `{not_json}`,
			wantErr:        true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))

				body, err := io.ReadAll(r.Body)
				assert.NoError(t, err)
				assert.JSONEq(t, `{"url":"https://www.pinterest.com/pin/123/"}`, string(body))

				w.WriteHeader(tc.responseStatus)
				_, _ = w.Write([]byte(tc.responseBody))
			}))
			defer srv.Close()

			cfg := testConfig()
			cfg.PinterestEndpoint = srv.URL
			r := NewSourceResolver(cfg)

			res, err := r.Resolve(t.Context(), "https://www.pinterest.com/pin/123/")
			if tc.wantErr {
				require.Error(t, err)
				var re *entity.ResolveError
				require.True(t, errors.As(err, &re))
				assert.Equal(t, PlatformPinterest, re.Platform)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, res.URL)
			assert.Equal(t, PlatformPinterest, res.Platform)
		})
	}
}

func TestHostMatches(t *testing.T) {
	markers := []string{"pinterest.com", "pin.it"}

	assert.True(t, hostMatches("www.pinterest.com", markers))
	assert.True(t, hostMatches("pin.it", markers))
	assert.True(t, hostMatches("uk.pinterest.com", markers))
	assert.False(t, hostMatches("example.com", markers))
	assert.False(t, hostMatches("example.com", []string{""}))
}
