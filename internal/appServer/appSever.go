// launching the server, resolver, fetcher, kafka
package appServer

import (
	"context"
	"crypto/tls"
	"log"

	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ds124wfegd/image-converter/config"
	"github.com/ds124wfegd/image-converter/internal/pkg/encoder"
	"github.com/ds124wfegd/image-converter/internal/pkg/fetcher"
	"github.com/ds124wfegd/image-converter/internal/pkg/kafka"
	"github.com/ds124wfegd/image-converter/internal/pkg/metrics"
	"github.com/ds124wfegd/image-converter/internal/pkg/processor"
	"github.com/ds124wfegd/image-converter/internal/pkg/resolver"
	"github.com/ds124wfegd/image-converter/internal/service"
	"github.com/ds124wfegd/image-converter/internal/transport"
	"github.com/gin-gonic/gin"

	"github.com/sirupsen/logrus"
)

const (
	shutdownTimeout = 15 * time.Second
	// headroom for decoding, resizing and writing the body
	processingSlack = 30 * time.Second
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      writeTimeout(cfg),
		IdleTimeout:       cfg.Server.Idle_timeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
		ErrorLog:          log.New(os.Stderr, "SERVER ERROR: ", log.LstdFlags),
	}
	return s.httpServer.ListenAndServe()
}

// writeTimeout never cuts a request that is still inside the resolver and fetcher limits.
func writeTimeout(cfg *config.Config) time.Duration {
	hops := cfg.Resolver.MaxHops
	if hops <= 0 {
		hops = resolver.DefaultMaxHops
	}
	worstCase := time.Duration(hops)*cfg.Resolver.Timeout + cfg.Fetcher.Timeout + processingSlack
	return max(cfg.Server.Timeout, worstCase)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func NewServer(cfg *config.Config) {

	logrus.SetFormatter(new(logrus.JSONFormatter))
	logrus.SetLevel(config.ParseLogLevel(cfg.Log.Level))

	layout, err := encoder.ParseLayout(cfg.App.PixelLayout)
	if err != nil {
		logrus.Fatalf("invalid pixel layout: %s", err.Error())
	}

	kafkaProducer := kafka.NewProducer(cfg.Kafka)
	defer func() {
		if err := kafkaProducer.Close(); err != nil {
			logrus.Errorf("error occured on kafka producer closing: %s", err.Error())
		}
	}()

	appMetrics := metrics.New()
	convertService := service.NewConvertService(
		resolver.NewSourceResolver(cfg.Resolver),
		fetcher.NewHTTPFetcher(cfg.Fetcher),
		processor.NewImageProcessor(cfg.Processor),
		kafkaProducer,
		appMetrics,
	)
	convertHandler := transport.NewConvertHandler(convertService, encoder.New(layout), cfg.Server.MaxBodyBytes)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := new(Server)
	go func() {
		if err := srv.Run(cfg, transport.InitRoutes(convertHandler, appMetrics)); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.WithFields(logrus.Fields{
		"addr":         cfg.Server.Host + ":" + cfg.Server.Port,
		"pixel_layout": layout,
		"kafka":        cfg.Kafka.Enabled,
	}).Info("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}

}
