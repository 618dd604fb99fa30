// Ininicializing common application configuration
package config

import (
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const envPrefix = "CONVERTER"

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Resolver  ResolverConfig  `mapstructure:"resolver"`
	Fetcher   FetcherConfig   `mapstructure:"fetcher"`
	Processor ProcessorConfig `mapstructure:"processor"`
	App       AppConfig       `mapstructure:"app"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
}

type ServerConfig struct {
	AppVersion   string        `mapstructure:"app_version"`
	Host         string        `mapstructure:"host"`
	Port         string        `mapstructure:"port"`
	Timeout      time.Duration `mapstructure:"timeout"`
	Idle_timeout time.Duration `mapstructure:"idle_timeout"`
	Env          string        `mapstructure:"environment"`
	Mode         string        `mapstructure:"mode"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type ResolverConfig struct {
	ShareHosts        []string      `mapstructure:"share_hosts"`
	PinterestHosts    []string      `mapstructure:"pinterest_hosts"`
	PinterestEndpoint string        `mapstructure:"pinterest_endpoint"`
	Timeout           time.Duration `mapstructure:"timeout"`
	MaxHops           int           `mapstructure:"max_hops"`
	UserAgent         string        `mapstructure:"user_agent"`
}

type FetcherConfig struct {
	Timeout      time.Duration `mapstructure:"timeout"`
	UserAgent    string        `mapstructure:"user_agent"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
}

type ProcessorConfig struct {
	// decoded images with more pixels are rejected before allocation
	MaxPixels int64 `mapstructure:"max_pixels"`
}

type AppConfig struct {
	// "triples" or "flat"
	PixelLayout string `mapstructure:"pixel_layout"`
}

type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

func LoadConfig() (*viper.Viper, error) {

	// .env is optional, real environment wins over it
	_ = godotenv.Load()

	viperInstance := viper.New()
	setDefaults(viperInstance)

	viperInstance.AddConfigPath("./config")
	viperInstance.SetConfigName("config")
	viperInstance.SetConfigType("yaml")

	viperInstance.SetEnvPrefix(envPrefix)
	viperInstance.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viperInstance.AutomaticEnv()

	err := viperInstance.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		logrus.Warn("config file not found, using defaults and environment")
	}
	return viperInstance, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {

	var c Config

	err := v.Unmarshal(&c)
	if err != nil {
		logrus.Errorf("unable to decode config into struct, %v", err)
		return nil, err
	}
	return &c, nil
}

// WatchLogLevel re-applies log.level whenever the config file changes.
func WatchLogLevel(v *viper.Viper) {
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		level := ParseLogLevel(v.GetString("log.level"))
		logrus.SetLevel(level)
		logrus.WithFields(logrus.Fields{
			"file":  e.Name,
			"level": level.String(),
		}).Info("config reloaded")
	})
	v.WatchConfig()
}

func ParseLogLevel(s string) logrus.Level {
	level, err := logrus.ParseLevel(s)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.app_version", "1.0.0")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", GetEnv("PORT", "8080"))
	v.SetDefault("server.timeout", 90*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.max_body_bytes", 1<<20)

	v.SetDefault("log.level", "info")

	// Resolver defaults
	v.SetDefault("resolver.share_hosts", []string{"share.google"})
	v.SetDefault("resolver.pinterest_hosts", []string{"pinterest.com", "pin.it"})
	v.SetDefault("resolver.pinterest_endpoint", "https://pintools.app/get-video")
	v.SetDefault("resolver.timeout", 30*time.Second)
	v.SetDefault("resolver.max_hops", 10)
	v.SetDefault("resolver.user_agent", browserUserAgent)

	// Fetcher defaults
	v.SetDefault("fetcher.timeout", 30*time.Second)
	v.SetDefault("fetcher.user_agent", browserUserAgent)
	v.SetDefault("fetcher.max_body_bytes", 50<<20)

	v.SetDefault("processor.max_pixels", 178956970)

	v.SetDefault("app.pixel_layout", "triples")

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9094"})
	v.SetDefault("kafka.topic", "image-conversions")
}
