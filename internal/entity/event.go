package entity

import "time"

const (
	OutcomeSuccess        = "success"
	OutcomeInvalid        = "invalid_request"
	OutcomeResolveFailed  = "resolve_failed"
	OutcomeDownloadFailed = "download_failed"
	OutcomeProcessFailed  = "process_failed"
)

// ConversionEvent is published once per finished conversion.
type ConversionEvent struct {
	ID             string        `json:"id"`
	RequestID      string        `json:"request_id"`
	ClientIP       string        `json:"client_ip"`
	Key            string        `json:"key,omitempty"`
	ImageURL       string        `json:"image_url"`
	ResolvedURL    string        `json:"resolved_url,omitempty"`
	Warped         bool          `json:"warped"`
	OriginalWidth  int           `json:"original_width,omitempty"`
	OriginalHeight int           `json:"original_height,omitempty"`
	Outcome        string        `json:"outcome"`
	Error          string        `json:"error,omitempty"`
	Duration       time.Duration `json:"duration"`
	Time           time.Time     `json:"time"`
}
