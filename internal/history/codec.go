package history

import (
	"bytes"
	"compress/flate"
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"
)

// Codec is the storage encoding for snapshots. Decode must reproduce the
// encoded pixels exactly.
type Codec interface {
	Name() string
	Encode(img *image.RGBA) ([]byte, error)
	Decode(data []byte, dst *image.RGBA) error
}

// PNGCodec stores each snapshot as a PNG image.
//
// The surface bytes are wrapped as NRGBA before encoding so the file holds
// the premultiplied values verbatim. Converting them through the colour model
// would lose precision on translucent pixels and break pixel-exact redo.
type PNGCodec struct {
	Level png.CompressionLevel
}

func (PNGCodec) Name() string { return "png" }

func (c PNGCodec) Encode(img *image.RGBA) ([]byte, error) {
	raw := &image.NRGBA{Pix: img.Pix, Stride: img.Stride, Rect: img.Rect}
	enc := png.Encoder{CompressionLevel: c.Level}
	if enc.CompressionLevel == png.DefaultCompression {
		enc.CompressionLevel = png.BestSpeed
	}
	var buf bytes.Buffer
	if err := enc.Encode(&buf, raw); err != nil {
		return nil, fmt.Errorf("encode png snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

func (PNGCodec) Decode(data []byte, dst *image.RGBA) error {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode png snapshot: %w", err)
	}
	var pix []uint8
	var stride int
	switch src := img.(type) {
	case *image.NRGBA:
		pix, stride = src.Pix, src.Stride
	case *image.RGBA:
		pix, stride = src.Pix, src.Stride
	default:
		return fmt.Errorf("decode png snapshot: unexpected image type %T", img)
	}
	if img.Bounds().Size() != dst.Rect.Size() {
		return fmt.Errorf("decode png snapshot: size %v does not match surface %v", img.Bounds().Size(), dst.Rect.Size())
	}
	row := dst.Rect.Dx() * 4
	for y := 0; y < dst.Rect.Dy(); y++ {
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+row], pix[y*stride:y*stride+row])
	}
	return nil
}

// FlateCodec stores the raw surface bytes compressed with DEFLATE. It is
// faster than PNG for large surfaces at the cost of slightly larger entries.
type FlateCodec struct {
	Level int
}

func (FlateCodec) Name() string { return "flate" }

func (c FlateCodec) Encode(img *image.RGBA) ([]byte, error) {
	level := c.Level
	if level == 0 {
		level = flate.BestSpeed
	}
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, level)
	if err != nil {
		return nil, fmt.Errorf("flate snapshot: %w", err)
	}
	row := img.Rect.Dx() * 4
	for y := 0; y < img.Rect.Dy(); y++ {
		if _, err := w.Write(img.Pix[y*img.Stride : y*img.Stride+row]); err != nil {
			return nil, fmt.Errorf("flate snapshot: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("flate snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

func (FlateCodec) Decode(data []byte, dst *image.RGBA) error {
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()
	row := dst.Rect.Dx() * 4
	for y := 0; y < dst.Rect.Dy(); y++ {
		if _, err := io.ReadFull(r, dst.Pix[y*dst.Stride:y*dst.Stride+row]); err != nil {
			return fmt.Errorf("inflate snapshot: %w", err)
		}
	}
	return nil
}

// CodecByName returns the codec registered under name. An empty name selects
// PNG.
func CodecByName(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "png":
		return PNGCodec{}, nil
	case "flate", "deflate":
		return FlateCodec{}, nil
	}
	return nil, fmt.Errorf("unknown history codec %q", name)
}
