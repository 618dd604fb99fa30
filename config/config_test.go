package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	// tests run inside config/, so ./config/config.yaml is absent here
	t.Setenv("PORT", "")

	v, err := LoadConfig()
	require.NoError(t, err)
	cfg, err := ParseConfig(v)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 90*time.Second, cfg.Server.Timeout)
	assert.Equal(t, int64(1<<20), cfg.Server.MaxBodyBytes)
	assert.Equal(t, "info", cfg.Log.Level)

	assert.Equal(t, []string{"share.google"}, cfg.Resolver.ShareHosts)
	assert.Equal(t, []string{"pinterest.com", "pin.it"}, cfg.Resolver.PinterestHosts)
	assert.Equal(t, "https://pintools.app/get-video", cfg.Resolver.PinterestEndpoint)
	assert.Equal(t, 10, cfg.Resolver.MaxHops)
	assert.Equal(t, 30*time.Second, cfg.Resolver.Timeout)
	assert.Contains(t, cfg.Fetcher.UserAgent, "Mozilla/5.0")
	assert.Equal(t, int64(50<<20), cfg.Fetcher.MaxBodyBytes)

	assert.Equal(t, int64(178956970), cfg.Processor.MaxPixels)
	assert.Equal(t, "triples", cfg.App.PixelLayout)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, "image-conversions", cfg.Kafka.Topic)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("CONVERTER_SERVER_PORT", "9999")
	t.Setenv("CONVERTER_RESOLVER_MAX_HOPS", "3")
	t.Setenv("CONVERTER_RESOLVER_SHARE_HOSTS", "share.google,share.example")
	t.Setenv("CONVERTER_APP_PIXEL_LAYOUT", "flat")
	t.Setenv("CONVERTER_KAFKA_ENABLED", "true")

	v, err := LoadConfig()
	require.NoError(t, err)
	cfg, err := ParseConfig(v)
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, 3, cfg.Resolver.MaxHops)
	assert.Equal(t, []string{"share.google", "share.example"}, cfg.Resolver.ShareHosts)
	assert.Equal(t, "flat", cfg.App.PixelLayout)
	assert.True(t, cfg.Kafka.Enabled)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want logrus.Level
	}{
		{in: "debug", want: logrus.DebugLevel},
		{in: "WARN", want: logrus.WarnLevel},
		{in: "error", want: logrus.ErrorLevel},
		{in: "", want: logrus.InfoLevel},
		{in: "chatty", want: logrus.InfoLevel},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, ParseLogLevel(tc.in), tc.in)
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("CONVERTER_TEST_VALUE", "set")
	assert.Equal(t, "set", GetEnv("CONVERTER_TEST_VALUE", "fallback"))
	assert.Equal(t, "fallback", GetEnv("CONVERTER_TEST_MISSING", "fallback"))
}

func TestWatchLogLevel(t *testing.T) {
	prev := logrus.GetLevel()
	t.Cleanup(func() { logrus.SetLevel(prev) })
	logrus.SetLevel(logrus.InfoLevel)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: info\n"), 0o644))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	WatchLogLevel(v)

	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o644))

	assert.Eventually(t, func() bool {
		return logrus.GetLevel() == logrus.DebugLevel
	}, 5*time.Second, 20*time.Millisecond)
}
