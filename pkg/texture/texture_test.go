package texture

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// makeTGA builds an uncompressed bottom-to-top TGA from RGBA rows listed top first.
func makeTGA(width, height int, bpp int, rowsTopFirst [][]color.RGBA) []byte {
	buf := new(bytes.Buffer)
	header := make([]byte, 18)
	header[2] = TGATypeUncompressed
	header[12] = byte(width)
	header[13] = byte(width >> 8)
	header[14] = byte(height)
	header[15] = byte(height >> 8)
	header[16] = byte(bpp)
	buf.Write(header)

	for y := height - 1; y >= 0; y-- {
		for _, c := range rowsTopFirst[y] {
			buf.WriteByte(c.B)
			buf.WriteByte(c.G)
			buf.WriteByte(c.R)
			if bpp == 32 {
				buf.WriteByte(c.A)
			}
		}
	}
	return buf.Bytes()
}

func tgaHeader(imageType byte, width, height int, bpp byte) []byte {
	h := make([]byte, 18)
	h[2] = imageType
	h[12], h[13] = byte(width), byte(width>>8)
	h[14], h[15] = byte(height), byte(height>>8)
	h[16] = bpp
	return h
}

var (
	red  = color.RGBA{R: 255, A: 255}
	blue = color.RGBA{B: 255, A: 128}
)

func TestDecodeTGA_Uncompressed(t *testing.T) {
	data := makeTGA(1, 2, 32, [][]color.RGBA{{red}, {blue}})

	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatalf("DecodeTGA failed: %v", err)
	}
	if img.Width != 1 || img.Height != 2 || img.Channels != 4 {
		t.Fatalf("unexpected shape %dx%dx%d", img.Width, img.Height, img.Channels)
	}

	want := []byte{255, 0, 0, 255, 0, 0, 255, 128}
	if !bytes.Equal(img.Pixels, want) {
		t.Errorf("pixels = %v, want %v", img.Pixels, want)
	}
}

func TestDecodeTGA_RLE(t *testing.T) {
	header := make([]byte, 18)
	header[2] = TGATypeRLE
	header[12] = 3
	header[14] = 1
	header[16] = 24
	header[17] = 0x20 // top-to-bottom

	// One run packet of 3 green pixels.
	data := append(header, 0x82, 0, 255, 0)

	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatalf("DecodeTGA failed: %v", err)
	}
	if img.Channels != 3 {
		t.Fatalf("expected 3 channels, got %d", img.Channels)
	}
	want := []byte{0, 255, 0, 0, 255, 0, 0, 255, 0}
	if !bytes.Equal(img.Pixels, want) {
		t.Errorf("pixels = %v, want %v", img.Pixels, want)
	}
}

func TestDecodeTGA_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"too short", []byte{0, 0, 2}},
		{"color mapped", func() []byte { h := make([]byte, 18); h[1] = 1; h[2] = 2; h[16] = 24; return h }()},
		{"bad depth", func() []byte { h := make([]byte, 18); h[2] = 2; h[16] = 16; return h }()},
		{"truncated pixels", func() []byte { h := make([]byte, 18); h[2] = 2; h[12] = 4; h[14] = 4; h[16] = 24; return h }()},
		// 65535x65535 at 32 bpp must be rejected before any pixel buffer is sized.
		{"oversized uncompressed", append(tgaHeader(TGATypeUncompressed, 0xFFFF, 0xFFFF, 32), 1, 2, 3, 4)},
		{"oversized RLE", append(tgaHeader(TGATypeRLE, 0xFFFF, 0xFFFF, 32), 0xFF, 1, 2, 3, 4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeTGA(tt.data); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		t.Fatalf("png.Encode failed: %v", err)
	}
	return buf.Bytes()
}

func TestDecode_PNGFlip(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 1, 2))
	src.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	src.SetNRGBA(0, 1, color.NRGBA{B: 255, A: 64})
	data := encodePNG(t, src)

	img, err := Decode(data, ".png", Options{})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if img.Channels != 4 {
		t.Fatalf("expected 4 channels, got %d", img.Channels)
	}
	want := []byte{255, 0, 0, 255, 0, 0, 255, 64}
	if !bytes.Equal(img.Pixels, want) {
		t.Errorf("pixels = %v, want %v", img.Pixels, want)
	}

	flipped, err := Decode(data, ".png", Options{FlipVertical: true})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	want = []byte{0, 0, 255, 64, 255, 0, 0, 255}
	if !bytes.Equal(flipped.Pixels, want) {
		t.Errorf("flipped pixels = %v, want %v", flipped.Pixels, want)
	}
}

func TestDecode_GrayIsSingleChannel(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 2, 1))
	src.SetGray(0, 0, color.Gray{Y: 10})
	src.SetGray(1, 0, color.Gray{Y: 200})

	img, err := Decode(encodePNG(t, src), ".png", Options{})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if img.Channels != 1 || !bytes.Equal(img.Pixels, []byte{10, 200}) {
		t.Errorf("got channels=%d pixels=%v", img.Channels, img.Pixels)
	}
}

func TestDecode_Unsupported(t *testing.T) {
	_, err := Decode([]byte("not an image"), ".png", Options{})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestDecodeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pixel.tga")
	if err := os.WriteFile(path, makeTGA(1, 1, 24, [][]color.RGBA{{red}}), 0644); err != nil {
		t.Fatalf("failed to write texture: %v", err)
	}

	img, err := DecodeFile(path, DefaultOptions())
	if err != nil {
		t.Fatalf("DecodeFile failed: %v", err)
	}
	if !bytes.Equal(img.Pixels, []byte{255, 0, 0}) {
		t.Errorf("pixels = %v", img.Pixels)
	}

	if _, err := DecodeFile(filepath.Join(dir, "missing.png"), DefaultOptions()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}
