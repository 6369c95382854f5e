package model

import "fmt"

// Codec is the output video encoder.
type Codec string

const (
	CodecH264  Codec = "libx264"
	CodecH265  Codec = "libx265"
	CodecMPEG4 Codec = "mpeg4"
)

// Codecs lists supported encoders.
var Codecs = []Codec{CodecH264, CodecH265, CodecMPEG4}

// Valid reports whether c is a supported encoder.
func (c Codec) Valid() bool {
	return c == CodecH264 || c == CodecH265 || c == CodecMPEG4
}

// Next returns the codec after c in Codecs, wrapping around.
func (c Codec) Next() Codec {
	for i, x := range Codecs {
		if x == c {
			return Codecs[(i+1)%len(Codecs)]
		}
	}
	return CodecH264
}

// ParseCodec converts a string into a Codec.
func ParseCodec(s string) (Codec, error) {
	c := Codec(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown codec %q (want libx264, libx265 or mpeg4)", s)
	}
	return c, nil
}

// Default encode settings.
const (
	DefaultCodec   = CodecH264
	DefaultBitrate = "1000k"
)

// VideoParams are the shared encode parameters of a combine job.
type VideoParams struct {
	FrameRate string `json:"frameRate"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Codec     Codec  `json:"codec"`
	Bitrate   string `json:"bitrate"`
}

// DefaultVideoParams returns params with only the defaults set.
func DefaultVideoParams() VideoParams {
	return VideoParams{Codec: DefaultCodec, Bitrate: DefaultBitrate}
}

// VideoParamsPatch is a partial update. Nil fields are left untouched.
type VideoParamsPatch struct {
	FrameRate *string
	Width     *int
	Height    *int
	Codec     *Codec
	Bitrate   *string
}

// IsEmpty reports whether the patch changes nothing.
func (p VideoParamsPatch) IsEmpty() bool {
	return p.FrameRate == nil && p.Width == nil && p.Height == nil &&
		p.Codec == nil && p.Bitrate == nil
}

// Merge applies p on top of v field by field.
func (v VideoParams) Merge(p VideoParamsPatch) VideoParams {
	if p.FrameRate != nil {
		v.FrameRate = *p.FrameRate
	}
	if p.Width != nil {
		v.Width = *p.Width
	}
	if p.Height != nil {
		v.Height = *p.Height
	}
	if p.Codec != nil {
		v.Codec = *p.Codec
	}
	if p.Bitrate != nil {
		v.Bitrate = *p.Bitrate
	}
	return v
}

// Ptr returns a pointer to v. Handy for building patches.
func Ptr[T any](v T) *T {
	return &v
}
