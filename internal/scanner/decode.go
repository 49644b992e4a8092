package scanner

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// DecodeImage reads a QR code from the central region of img.
// A zero region decodes the whole image. It returns an error wrapping
// ErrNoCode when nothing readable is found.
func DecodeImage(img image.Image, region Region) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(CropCenter(img, region))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoCode, err)
	}

	result, err := qrcode.NewQRCodeReader().Decode(bmp, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoCode, err)
	}
	return result.GetText(), nil
}

// CropCenter copies the centred region of img into a new image anchored at
// the origin. The region is clamped to the image bounds.
func CropCenter(img image.Image, region Region) image.Image {
	b := img.Bounds()
	w, h := region.Width, region.Height
	if w <= 0 || w > b.Dx() {
		w = b.Dx()
	}
	if h <= 0 || h > b.Dy() {
		h = b.Dy()
	}

	x0 := b.Min.X + (b.Dx()-w)/2
	y0 := b.Min.Y + (b.Dy()-h)/2

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), img, image.Pt(x0, y0), draw.Src)
	return dst
}
