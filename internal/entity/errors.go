package entity

import (
	"errors"
	"fmt"
)

var (
	ErrMissingImageURL = errors.New("missing 'imageUrl' in request body")

	// Resolver errors
	ErrNoImageParam      = errors.New("redirect chain has no imgurl parameter")
	ErrTooManyRedirects  = errors.New("too many redirects")
	ErrUnexpectedPayload = errors.New("unexpected response format")

	// Fetcher errors
	ErrBodyTooLarge = errors.New("image exceeds size limit")

	// Processor errors
	ErrEmptyImage    = errors.New("decoded image has no pixels")
	ErrImageTooLarge = errors.New("image exceeds pixel limit")
)

// ResolveError reports that a platform link could not be unwrapped to a direct image URL.
type ResolveError struct {
	Platform string
	Err      error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("failed to extract image from %s URL: %v", e.Platform, e.Err)
}

func (e *ResolveError) Unwrap() error { return e.Err }

type DownloadError struct {
	URL string
	Err error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("failed to download image: %v", e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

type ProcessingError struct {
	Err error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("failed to process image: %v", e.Err)
}

func (e *ProcessingError) Unwrap() error { return e.Err }
