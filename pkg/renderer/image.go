package renderer

import (
	"image"
	"image/color"
)

// BytesPerPixel is the size of one RGB pixel in Image.Pix
const BytesPerPixel = 3

// Image is a row-major 8-bit RGB pixel buffer.
// It implements image.Image so it can be handed directly to an encoder.
type Image struct {
	Width  int
	Height int
	Pix    []uint8 // R, G, B for each pixel, rows top to bottom
}

// NewImage allocates a black image of the given size
func NewImage(width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*BytesPerPixel),
	}
}

// Stride returns the number of bytes in one row
func (img *Image) Stride() int {
	return img.Width * BytesPerPixel
}

// Rows returns the sub-slice of Pix covering rows [y0, y1)
func (img *Image) Rows(y0, y1 int) []uint8 {
	return img.Pix[y0*img.Stride() : y1*img.Stride()]
}

// RGBAt returns the 8-bit color of pixel (x, y)
func (img *Image) RGBAt(x, y int) (r, g, b uint8) {
	offset := y*img.Stride() + x*BytesPerPixel
	return img.Pix[offset], img.Pix[offset+1], img.Pix[offset+2]
}

// ColorModel implements image.Image
func (img *Image) ColorModel() color.Model {
	return color.RGBAModel
}

// Bounds implements image.Image
func (img *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, img.Width, img.Height)
}

// At implements image.Image
func (img *Image) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}.In(img.Bounds())) {
		return color.RGBA{}
	}
	r, g, b := img.RGBAt(x, y)
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
