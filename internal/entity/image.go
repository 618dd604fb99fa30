package entity

import (
	"encoding/json"

	jsoniter "github.com/json-iterator/go"
)

// CanvasSize is the fixed width and height of every converted image.
const CanvasSize = 1024

type ConvertRequest struct {
	ImageURL string `json:"imageUrl" binding:"required"`
	// any JSON value, only logged
	Key json.RawMessage `json:"key"`
	// absent means warp; otherwise any JSON value, judged by truthiness
	WarpToFill json.RawMessage `json:"warpToFill"`

	RequestID string `json:"-"`
	ClientIP  string `json:"-"`
}

// KeyString returns a string key unquoted and any other value as its JSON text.
func (r ConvertRequest) KeyString() string {
	if len(r.Key) == 0 {
		return ""
	}
	var s string
	if err := jsoniter.Unmarshal(r.Key, &s); err == nil {
		return s
	}
	return string(r.Key)
}

// Warp reports false for false, null, 0, "", [] and {}.
func (r ConvertRequest) Warp() bool {
	if len(r.WarpToFill) == 0 {
		return true
	}
	var v interface{}
	if err := jsoniter.Unmarshal(r.WarpToFill, &v); err != nil {
		return true
	}
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case float64:
		return val != 0
	case string:
		return val != ""
	case []interface{}:
		return len(val) > 0
	case map[string]interface{}:
		return len(val) > 0
	default:
		return true
	}
}

// Download is the raw body of a fetched image.
type Download struct {
	URL         string
	ContentType string
	Body        []byte
}

// NormalizedImage holds Width*Height pixels as packed R, G, B bytes in row-major order.
type NormalizedImage struct {
	Width          int
	Height         int
	Pix            []uint8
	OriginalWidth  int
	OriginalHeight int
	Warped         bool
}

// ConvertResponse is serialized by the encoder package; field order is the wire order.
type ConvertResponse struct {
	Height         int     `json:"Height"`
	Width          int     `json:"Width"`
	Pixels         []uint8 `json:"Pixels"`
	OriginalHeight int     `json:"OriginalHeight"`
	OriginalWidth  int     `json:"OriginalWidth"`
	Warped         bool    `json:"Warped"`
}

func NewConvertResponse(img *NormalizedImage) *ConvertResponse {
	return &ConvertResponse{
		Height:         img.Height,
		Width:          img.Width,
		Pixels:         img.Pix,
		OriginalHeight: img.OriginalHeight,
		OriginalWidth:  img.OriginalWidth,
		Warped:         img.Warped,
	}
}

type ErrorResponse struct {
	Error string `json:"error"`
}
