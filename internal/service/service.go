package service

import (
	"context"

	"github.com/ds124wfegd/image-converter/internal/entity"
	"github.com/ds124wfegd/image-converter/internal/pkg/fetcher"
	"github.com/ds124wfegd/image-converter/internal/pkg/kafka"
	"github.com/ds124wfegd/image-converter/internal/pkg/metrics"
	"github.com/ds124wfegd/image-converter/internal/pkg/processor"
	"github.com/ds124wfegd/image-converter/internal/pkg/resolver"
)

type ConvertService interface {
	Convert(ctx context.Context, req entity.ConvertRequest) (*entity.ConvertResponse, error)
}

type convertService struct {
	resolver  resolver.Resolver
	fetcher   fetcher.Fetcher
	processor processor.ImageProcessor
	producer  kafka.Producer
	metrics   *metrics.Metrics
}

func NewConvertService(
	resolver resolver.Resolver,
	fetcher fetcher.Fetcher,
	processor processor.ImageProcessor,
	producer kafka.Producer,
	metrics *metrics.Metrics,
) ConvertService {
	return &convertService{
		resolver:  resolver,
		fetcher:   fetcher,
		processor: processor,
		producer:  producer,
		metrics:   metrics,
	}
}
