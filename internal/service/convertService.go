package service

import (
	"context"
	"errors"
	"time"

	"github.com/ds124wfegd/image-converter/internal/entity"
	"github.com/ds124wfegd/image-converter/internal/pkg/logger"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const publishTimeout = 10 * time.Second

func (s *convertService) Convert(ctx context.Context, req entity.ConvertRequest) (*entity.ConvertResponse, error) {
	start := time.Now()
	warp := req.Warp()

	event := entity.ConversionEvent{
		ID:        uuid.New().String(),
		RequestID: req.RequestID,
		ClientIP:  req.ClientIP,
		Key:       req.KeyString(),
		ImageURL:  req.ImageURL,
		Warped:    warp,
	}

	resp, err := s.convert(ctx, req.ImageURL, warp, &event)

	event.Duration = time.Since(start)
	event.Time = time.Now()
	event.Outcome = Outcome(err)
	if err != nil {
		event.Error = err.Error()
	}

	s.metrics.ObserveConversion(event.Outcome, warp, event.Duration)
	s.publish(event)

	return resp, err
}

func (s *convertService) convert(ctx context.Context, imageURL string, warp bool, event *entity.ConversionEvent) (*entity.ConvertResponse, error) {
	if imageURL == "" {
		return nil, entity.ErrMissingImageURL
	}

	log := logger.FromContext(ctx)

	// Разворачиваем ссылки Pinterest и Google
	resolved, err := s.resolver.Resolve(ctx, imageURL)
	if err != nil {
		var re *entity.ResolveError
		if errors.As(err, &re) {
			s.metrics.ObserveResolution(re.Platform, err)
		}
		log.WithError(err).Error("url resolution failed")
		return nil, err
	}
	if resolved.Platform != "" {
		s.metrics.ObserveResolution(resolved.Platform, nil)
		log.WithFields(logrus.Fields{
			"platform":     resolved.Platform,
			"resolved_url": resolved.URL,
		}).Info("resolved platform link")
	}
	event.ResolvedURL = resolved.URL

	log.WithField("url", resolved.URL).Info("processing image url")

	download, err := s.fetcher.Fetch(ctx, resolved.URL)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveDownload(len(download.Body))

	img, err := s.processor.Process(download.Body, warp)
	if err != nil {
		log.WithError(err).WithField("content_type", download.ContentType).Error("image processing failed")
		return nil, err
	}
	event.OriginalWidth = img.OriginalWidth
	event.OriginalHeight = img.OriginalHeight

	log.WithFields(logrus.Fields{
		"original_width":  img.OriginalWidth,
		"original_height": img.OriginalHeight,
		"pixels":          img.Width * img.Height,
	}).Info("successfully processed image")

	return entity.NewConvertResponse(img), nil
}

// publish never blocks the response path.
func (s *convertService) publish(event entity.ConversionEvent) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := s.producer.SendMessage(ctx, event.RequestID, event); err != nil {
			logrus.WithError(err).WithField("event_id", event.ID).Warn("conversion event not published")
		}
	}()
}

// Outcome classifies a conversion error for metrics and events.
func Outcome(err error) string {
	var (
		re *entity.ResolveError
		de *entity.DownloadError
	)
	switch {
	case err == nil:
		return entity.OutcomeSuccess
	case errors.Is(err, entity.ErrMissingImageURL):
		return entity.OutcomeInvalid
	case errors.As(err, &re):
		return entity.OutcomeResolveFailed
	case errors.As(err, &de):
		return entity.OutcomeDownloadFailed
	default:
		return entity.OutcomeProcessFailed
	}
}
