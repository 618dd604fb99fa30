// Package encoder writes response bodies as compact JSON with a fixed key order.
package encoder

import (
	"fmt"

	"github.com/ds124wfegd/image-converter/internal/entity"
	jsoniter "github.com/json-iterator/go"
)

type Layout string

const (
	// LayoutTriples encodes Pixels as [[R,G,B],...], one entry per pixel.
	LayoutTriples Layout = "triples"
	// LayoutFlat encodes Pixels as [R,G,B,R,G,B,...].
	LayoutFlat Layout = "flat"
)

func ParseLayout(s string) (Layout, error) {
	switch Layout(s) {
	case LayoutTriples, "":
		return LayoutTriples, nil
	case LayoutFlat:
		return LayoutFlat, nil
	default:
		return "", fmt.Errorf("unknown pixel layout %q", s)
	}
}

type Encoder struct {
	api    jsoniter.API
	layout Layout
}

func New(layout Layout) *Encoder {
	return &Encoder{
		api:    jsoniter.Config{EscapeHTML: false}.Froze(),
		layout: layout,
	}
}

func (e *Encoder) EncodeConvert(resp *entity.ConvertResponse) ([]byte, error) {
	// up to "255," per channel plus brackets per triple
	stream := jsoniter.NewStream(e.api, nil, len(resp.Pixels)*5+128)

	stream.WriteObjectStart()
	stream.WriteObjectField("Height")
	stream.WriteInt(resp.Height)
	stream.WriteMore()
	stream.WriteObjectField("Width")
	stream.WriteInt(resp.Width)
	stream.WriteMore()
	stream.WriteObjectField("Pixels")
	e.writePixels(stream, resp.Pixels)
	stream.WriteMore()
	stream.WriteObjectField("OriginalHeight")
	stream.WriteInt(resp.OriginalHeight)
	stream.WriteMore()
	stream.WriteObjectField("OriginalWidth")
	stream.WriteInt(resp.OriginalWidth)
	stream.WriteMore()
	stream.WriteObjectField("Warped")
	stream.WriteBool(resp.Warped)
	stream.WriteObjectEnd()

	if stream.Error != nil {
		return nil, stream.Error
	}
	return stream.Buffer(), nil
}

func (e *Encoder) writePixels(stream *jsoniter.Stream, pix []uint8) {
	stream.WriteArrayStart()
	if e.layout == LayoutFlat {
		for i, v := range pix {
			if i > 0 {
				stream.WriteMore()
			}
			stream.WriteUint8(v)
		}
	} else {
		for i := 0; i+2 < len(pix); i += 3 {
			if i > 0 {
				stream.WriteMore()
			}
			stream.WriteArrayStart()
			stream.WriteUint8(pix[i])
			stream.WriteMore()
			stream.WriteUint8(pix[i+1])
			stream.WriteMore()
			stream.WriteUint8(pix[i+2])
			stream.WriteArrayEnd()
		}
	}
	stream.WriteArrayEnd()
}

func (e *Encoder) EncodeError(message string) []byte {
	stream := jsoniter.NewStream(e.api, nil, len(message)+16)
	stream.WriteObjectStart()
	stream.WriteObjectField("error")
	stream.WriteString(message)
	stream.WriteObjectEnd()
	return stream.Buffer()
}
