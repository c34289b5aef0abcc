// Package imageio decodes arbitrary JPEG/PNG/WebP bytes into 8-bit RGB, and
// encodes RGB back out in a format matching the original's extension,
// without the rest of the codec depending on any particular concrete
// image.Image type.
package imageio

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"github.com/deepteams/webp"
)

// Format identifies one of the three image codecs this system round-trips.
type Format int

const (
	FormatJPEG Format = iota
	FormatPNG
	FormatWebP
)

// DetectFormat guesses the format from a file extension (including the
// leading dot, case-insensitive).
func DetectFormat(ext string) (Format, error) {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return FormatJPEG, nil
	case ".png":
		return FormatPNG, nil
	case ".webp":
		return FormatWebP, nil
	default:
		return 0, fmt.Errorf("imageio: unsupported extension %q", ext)
	}
}

// Decoded is a raster normalized to 8-bit RGB, stored interleaved for the
// color transform to split into planes.
type Decoded struct {
	Height, Width int
	RGB           []uint8 // interleaved, height*width*3
}

// Decode reads JPEG, PNG, or WebP bytes into an 8-bit RGB raster. It
// returns UnsupportedImage-class errors (via the returned error, mapped by
// the caller) when the bytes cannot be decoded as any of the three.
func Decode(data []byte) (*Decoded, error) {
	r := bytes.NewReader(data)
	var img image.Image
	var err error

	if looksLikeWebP(data) {
		img, err = webp.Decode(r)
	} else if looksLikeJPEG(data) {
		img, err = jpeg.Decode(r)
	} else if looksLikePNG(data) {
		img, err = png.Decode(r)
	} else {
		return nil, fmt.Errorf("imageio: unrecognized image format")
	}
	if err != nil {
		return nil, fmt.Errorf("imageio: decode: %w", err)
	}
	return fromImage(img), nil
}

func fromImage(img image.Image) *Decoded {
	b := img.Bounds()
	h, w := b.Dy(), b.Dx()
	rgb := make([]uint8, h*w*3)
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			rgb[i] = uint8(r >> 8)
			rgb[i+1] = uint8(g >> 8)
			rgb[i+2] = uint8(bl >> 8)
			i += 3
		}
	}
	return &Decoded{Height: h, Width: w, RGB: rgb}
}

// ToImage converts an interleaved RGB raster into a stdlib image.Image for
// encoding.
func (d *Decoded) ToImage() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, d.Width, d.Height))
	i := 0
	for y := 0; y < d.Height; y++ {
		for x := 0; x < d.Width; x++ {
			off := out.PixOffset(x, y)
			out.Pix[off] = d.RGB[i]
			out.Pix[off+1] = d.RGB[i+1]
			out.Pix[off+2] = d.RGB[i+2]
			out.Pix[off+3] = 0xff
			i += 3
		}
	}
	return out
}

// EncodeLike writes img in the format implied by ext, at quality 100 for
// lossy formats (JPEG/WebP) so the watermark bits aren't degraded further
// by re-compression.
func EncodeLike(w io.Writer, img image.Image, ext string) error {
	format, err := DetectFormat(ext)
	if err != nil {
		return err
	}
	switch format {
	case FormatJPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 100})
	case FormatPNG:
		return png.Encode(w, img)
	case FormatWebP:
		opts := webp.DefaultOptions()
		opts.Quality = 100
		return webp.Encode(w, img, opts)
	default:
		return fmt.Errorf("imageio: unsupported format")
	}
}

func looksLikeJPEG(b []byte) bool {
	return len(b) >= 2 && b[0] == 0xFF && b[1] == 0xD8
}

func looksLikePNG(b []byte) bool {
	sig := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	if len(b) < len(sig) {
		return false
	}
	for i, s := range sig {
		if b[i] != s {
			return false
		}
	}
	return true
}

func looksLikeWebP(b []byte) bool {
	return len(b) >= 12 && string(b[0:4]) == "RIFF" && string(b[8:12]) == "WEBP"
}
