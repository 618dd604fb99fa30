package transport

import (
	"github.com/ds124wfegd/image-converter/internal/pkg/encoder"
	"github.com/ds124wfegd/image-converter/internal/service"
)

type ConvertHandler struct {
	service      service.ConvertService
	encoder      *encoder.Encoder
	maxBodyBytes int64
}

func NewConvertHandler(service service.ConvertService, encoder *encoder.Encoder, maxBodyBytes int64) *ConvertHandler {
	return &ConvertHandler{
		service:      service,
		encoder:      encoder,
		maxBodyBytes: maxBodyBytes,
	}
}
