package texture

import (
	"fmt"
)

// TGA image type constants.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeRLE          = 10 // RLE compressed true-color
)

// DecodeTGA decodes a TGA image file into top-to-bottom rows.
// Supports uncompressed true-color (type 2) and RLE compressed (type 10) TGA
// files at 24 or 32 bits per pixel; 24-bit images decode to 3 channels.
func DecodeTGA(data []byte) (*Image, error) {
	if len(data) < 18 {
		return nil, fmt.Errorf("TGA data too short")
	}

	// TGA header
	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	// colorMapSpec: bytes 3-7, imageSpec origin: bytes 8-11
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	descriptor := data[17]

	if colorMapType != 0 {
		return nil, fmt.Errorf("%w: color-mapped TGA", ErrUnsupportedFormat)
	}
	if imageType != TGATypeUncompressed && imageType != TGATypeRLE {
		return nil, fmt.Errorf("%w: TGA type %d", ErrUnsupportedFormat, imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("%w: TGA bit depth %d", ErrUnsupportedFormat, bpp)
	}

	// Skip ID field
	offset := 18 + idLength
	if offset > len(data) {
		return nil, fmt.Errorf("TGA data truncated")
	}
	pixelData := data[offset:]

	bytesPerPixel := bpp / 8
	pixelCount := width * height

	// Reject headers the payload cannot fill before allocating for them.
	// An RLE packet is at least 1+bytesPerPixel bytes and yields at most 128 pixels.
	if imageType == TGATypeUncompressed {
		if len(pixelData) < pixelCount*bytesPerPixel {
			return nil, fmt.Errorf("TGA pixel data truncated: %dx%d needs %d bytes, have %d",
				width, height, pixelCount*bytesPerPixel, len(pixelData))
		}
	} else if maxPixels := (len(pixelData) + bytesPerPixel) / (1 + bytesPerPixel) * 128; pixelCount > maxPixels {
		return nil, fmt.Errorf("TGA RLE data truncated: %dx%d from %d bytes", width, height, len(pixelData))
	}

	img := &Image{
		Width:    width,
		Height:   height,
		Channels: bytesPerPixel,
		Pixels:   make([]byte, pixelCount*bytesPerPixel),
	}

	// Bit 5 of the descriptor set means rows are stored top-to-bottom.
	topToBottom := (descriptor & 0x20) != 0

	if imageType == TGATypeUncompressed {
		for i := 0; i < pixelCount; i++ {
			img.setBGR(i, pixelData[i*bytesPerPixel:], topToBottom)
		}
		return img, nil
	}

	decodeTGARLE(img, pixelData, topToBottom)
	return img, nil
}

// decodeTGARLE decodes RLE-compressed pixel data. Truncated input leaves the
// remaining pixels zero.
func decodeTGARLE(img *Image, pixelData []byte, topToBottom bool) {
	bytesPerPixel := img.Channels
	pixelCount := img.Width * img.Height
	pixelIdx := 0
	dataIdx := 0

	for pixelIdx < pixelCount && dataIdx < len(pixelData) {
		packet := pixelData[dataIdx]
		dataIdx++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			// RLE packet - repeat single pixel
			if dataIdx+bytesPerPixel > len(pixelData) {
				return
			}
			src := pixelData[dataIdx:]
			dataIdx += bytesPerPixel
			for i := 0; i < count && pixelIdx < pixelCount; i++ {
				img.setBGR(pixelIdx, src, topToBottom)
				pixelIdx++
			}
			continue
		}

		// Raw packet - read count pixels
		for i := 0; i < count && pixelIdx < pixelCount; i++ {
			if dataIdx+bytesPerPixel > len(pixelData) {
				return
			}
			img.setBGR(pixelIdx, pixelData[dataIdx:], topToBottom)
			dataIdx += bytesPerPixel
			pixelIdx++
		}
	}
}

// setBGR stores the BGR(A) pixel at src as RGB(A) for file pixel index i.
func (img *Image) setBGR(i int, src []byte, topToBottom bool) {
	x := i % img.Width
	y := i / img.Width
	if !topToBottom {
		y = img.Height - 1 - y
	}
	dst := img.Pixels[(y*img.Width+x)*img.Channels:]
	dst[0] = src[2]
	dst[1] = src[1]
	dst[2] = src[0]
	if img.Channels == 4 {
		dst[3] = src[3]
	}
}
