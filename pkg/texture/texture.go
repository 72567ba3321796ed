// Package texture decodes the image files referenced by materials into raw
// pixel buffers.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"  // BMP decoder registration
	_ "golang.org/x/image/tiff" // TIFF decoder registration
	_ "golang.org/x/image/webp" // WebP decoder registration
)

// ErrUnsupportedFormat is returned for image data no decoder recognises.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Image is a decoded texture: tightly packed 8-bit rows with Channels
// components per pixel.
type Image struct {
	Width    int
	Height   int
	Channels int // 1 gray, 3 RGB, 4 RGBA
	Pixels   []byte
}

// DecodeFunc maps a file path to a decoded image.
type DecodeFunc func(path string) (*Image, error)

// Options controls decoding.
type Options struct {
	// FlipVertical stores the bottom row first, the order GL texture uploads expect.
	FlipVertical bool
}

// DefaultOptions returns the options used by the loader.
func DefaultOptions() Options {
	return Options{FlipVertical: true}
}

// NewDecoder returns a DecodeFunc reading files from disk with opts.
func NewDecoder(opts Options) DecodeFunc {
	return func(path string) (*Image, error) {
		return DecodeFile(path, opts)
	}
}

// DecodeFile reads and decodes an image file.
func DecodeFile(path string, opts Options) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading texture: %w", err)
	}
	img, err := Decode(data, filepath.Ext(path), opts)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}

// Decode decodes image bytes. ext selects the TGA decoder, which has no
// magic number; every other format is sniffed from the data.
func Decode(data []byte, ext string, opts Options) (*Image, error) {
	var img *Image
	if strings.EqualFold(ext, ".tga") {
		var err error
		if img, err = DecodeTGA(data); err != nil {
			return nil, err
		}
	} else {
		src, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			if errors.Is(err, image.ErrFormat) {
				return nil, ErrUnsupportedFormat
			}
			return nil, err
		}
		img = fromImage(src)
	}

	if opts.FlipVertical {
		img.FlipVertical()
	}
	return img, nil
}

// FlipVertical reverses the row order in place.
func (img *Image) FlipVertical() {
	stride := img.Width * img.Channels
	row := make([]byte, stride)
	for top, bottom := 0, img.Height-1; top < bottom; top, bottom = top+1, bottom-1 {
		a := img.Pixels[top*stride : (top+1)*stride]
		b := img.Pixels[bottom*stride : (bottom+1)*stride]
		copy(row, a)
		copy(a, b)
		copy(b, row)
	}
}

// fromImage packs any image.Image into 8-bit rows, keeping gray images
// single-channel and opaque photographic formats RGB.
func fromImage(src image.Image) *Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	channels := 4
	switch src.(type) {
	case *image.Gray, *image.Gray16:
		channels = 1
	case *image.YCbCr, *image.CMYK:
		channels = 3
	}

	img := &Image{Width: w, Height: h, Channels: channels, Pixels: make([]byte, w*h*channels)}
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			// Non-premultiplied, so partially transparent texels keep their color.
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			switch channels {
			case 1:
				img.Pixels[i] = c.R
			case 3:
				img.Pixels[i] = c.R
				img.Pixels[i+1] = c.G
				img.Pixels[i+2] = c.B
			default:
				img.Pixels[i] = c.R
				img.Pixels[i+1] = c.G
				img.Pixels[i+2] = c.B
				img.Pixels[i+3] = c.A
			}
			i += channels
		}
	}
	return img
}
