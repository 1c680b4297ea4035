package imagecache

import (
	"fmt"
	"image"
	"image/draw"
)

// Pixels is a decoded, non-premultiplied RGBA8 image
type Pixels struct {
	Width  int
	Height int
	RGBA   []byte // len == Width*Height*4, row-major
}

// NewPixels validates dimensions against the buffer length
func NewPixels(width, height int, rgba []byte) (Pixels, error) {
	if width <= 0 || height <= 0 {
		return Pixels{}, fmt.Errorf("invalid dimensions %dx%d", width, height)
	}
	if len(rgba) != width*height*4 {
		return Pixels{}, fmt.Errorf("pixel buffer is %d bytes, expected %d for %dx%d",
			len(rgba), width*height*4, width, height)
	}
	return Pixels{Width: width, Height: height, RGBA: rgba}, nil
}

// FromImage converts any decoded image to non-premultiplied RGBA8
func FromImage(img image.Image) Pixels {
	b := img.Bounds()
	nrgba, ok := img.(*image.NRGBA)
	if !ok || nrgba.Stride != b.Dx()*4 || b.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)
	}
	return Pixels{Width: b.Dx(), Height: b.Dy(), RGBA: nrgba.Pix}
}

// Image wraps the pixel buffer as an *image.NRGBA without copying
func (p Pixels) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    p.RGBA,
		Stride: p.Width * 4,
		Rect:   image.Rect(0, 0, p.Width, p.Height),
	}
}

// IsZero reports whether no pixel data is present
func (p Pixels) IsZero() bool {
	return p.Width == 0 || p.Height == 0 || len(p.RGBA) == 0
}
