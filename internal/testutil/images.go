package testutil

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
)

// PNG returns a small valid png image.
func PNG() []byte {
	var buf bytes.Buffer
	_ = png.Encode(&buf, sample())
	return buf.Bytes()
}

// JPEG returns a small valid jpeg image.
func JPEG() []byte {
	var buf bytes.Buffer
	_ = jpeg.Encode(&buf, sample(), nil)
	return buf.Bytes()
}

// WEBP returns the header of a lossless webp, enough for content sniffing.
func WEBP() []byte {
	b := []byte("RIFF\x1a\x00\x00\x00WEBPVP8L\x0d\x00\x00\x00\x2f\x00\x00\x00\x10\x07\x10\x11\x11\x88\x88\xfe\x07\x00")
	return b
}

func sample() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 60), G: uint8(y * 60), B: 120, A: 255})
		}
	}
	return img
}
