package transport

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ds124wfegd/image-converter/internal/entity"
	"github.com/ds124wfegd/image-converter/internal/pkg/logger"
	"github.com/ds124wfegd/image-converter/internal/transport/middleware"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

const (
	msgMissingImageURL = "Missing 'imageUrl' in request body"
	msgDownloadFailed  = "Failed to download image"
	msgProcessFailed   = "Failed to process image"
)

func (h *ConvertHandler) Convert(c *gin.Context) {
	if h.maxBodyBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes)
	}

	var req entity.ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		status, message := bindErrorResponse(err)
		logger.FromContext(c.Request.Context()).WithError(err).Warn("invalid convert request")
		h.writeError(c, status, message)
		return
	}
	req.RequestID = middleware.RequestID(c)
	req.ClientIP = c.ClientIP()

	entry := logger.FromContext(c.Request.Context()).WithFields(logrus.Fields{
		"key":  req.KeyString(),
		"warp": req.Warp(),
		"url":  req.ImageURL,
	})
	entry.Info("convert request")
	ctx := logger.WithEntry(c.Request.Context(), entry)

	resp, err := h.service.Convert(ctx, req)
	if err != nil {
		status, message := errorResponse(err)
		entry.WithError(err).WithField("status", status).Error(message)
		h.writeError(c, status, message)
		return
	}

	body, err := h.encoder.EncodeConvert(resp)
	if err != nil {
		entry.WithError(err).Error("response encoding failed")
		h.writeError(c, http.StatusInternalServerError, fmt.Sprintf("%s: %v", msgProcessFailed, err))
		return
	}

	c.Data(http.StatusOK, "application/json", body)
}

// Recover turns a panic into the generic processing error body.
func (h *ConvertHandler) Recover(c *gin.Context, recovered any) {
	logger.FromContext(c.Request.Context()).WithField("panic", recovered).Error("handler panic")
	h.writeError(c, http.StatusInternalServerError, fmt.Sprintf("%s: internal error", msgProcessFailed))
}

func (h *ConvertHandler) writeError(c *gin.Context, status int, message string) {
	c.Data(status, "application/json", h.encoder.EncodeError(message))
	c.Abort()
}

// Malformed bodies stay a 500, only a missing imageUrl is the caller's fault.
func bindErrorResponse(err error) (int, string) {
	var (
		verrs   validator.ValidationErrors
		tooLong *http.MaxBytesError
	)
	switch {
	case errors.As(err, &verrs):
		return http.StatusBadRequest, msgMissingImageURL
	case errors.As(err, &tooLong):
		return http.StatusRequestEntityTooLarge, fmt.Sprintf("Request body exceeds %d bytes", tooLong.Limit)
	default:
		return http.StatusInternalServerError, fmt.Sprintf("%s: %v", msgProcessFailed, err)
	}
}

func errorResponse(err error) (int, string) {
	var (
		re *entity.ResolveError
		de *entity.DownloadError
		pe *entity.ProcessingError
	)
	switch {
	case errors.Is(err, entity.ErrMissingImageURL):
		return http.StatusBadRequest, msgMissingImageURL
	case errors.As(err, &re):
		return http.StatusBadRequest, fmt.Sprintf("Failed to extract image from %s URL", re.Platform)
	case errors.As(err, &de):
		return http.StatusBadRequest, fmt.Sprintf("%s: %v", msgDownloadFailed, de.Err)
	case errors.As(err, &pe):
		return http.StatusInternalServerError, fmt.Sprintf("%s: %v", msgProcessFailed, pe.Err)
	default:
		return http.StatusInternalServerError, fmt.Sprintf("%s: %v", msgProcessFailed, err)
	}
}
