package appServer

import (
	"testing"
	"time"

	"github.com/ds124wfegd/image-converter/config"
	"github.com/stretchr/testify/assert"
)

func TestWriteTimeout(t *testing.T) {
	tests := []struct {
		name     string
		server   time.Duration
		hops     int
		resolver time.Duration
		fetcher  time.Duration
		want     time.Duration
	}{
		{
			name:     "defaults cover the slowest share chain",
			server:   90 * time.Second,
			hops:     10,
			resolver: 30 * time.Second,
			fetcher:  30 * time.Second,
			want:     360 * time.Second,
		},
		{
			name:     "unset hops use the resolver default",
			server:   time.Second,
			hops:     0,
			resolver: time.Second,
			fetcher:  time.Second,
			want:     41 * time.Second,
		},
		{
			name:     "larger configured timeout wins",
			server:   10 * time.Minute,
			hops:     2,
			resolver: time.Second,
			fetcher:  time.Second,
			want:     10 * time.Minute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{
				Server:   config.ServerConfig{Timeout: tt.server},
				Resolver: config.ResolverConfig{MaxHops: tt.hops, Timeout: tt.resolver},
				Fetcher:  config.FetcherConfig{Timeout: tt.fetcher},
			}
			assert.Equal(t, tt.want, writeTimeout(cfg))
		})
	}
}
