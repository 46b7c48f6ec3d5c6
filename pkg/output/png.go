package output

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/nfnt/resize"
)

// EncodePNG writes the image as PNG
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("output: encoding png: %w", err)
	}
	return nil
}

// PNGBytes encodes the image into an in-memory PNG
func PNGBytes(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Thumbnail scales the image down to fit in a maxSize square, keeping the
// aspect ratio. Images that already fit are returned unchanged.
func Thumbnail(img image.Image, maxSize uint) image.Image {
	if maxSize == 0 {
		return img
	}
	return resize.Thumbnail(maxSize, maxSize, img, resize.Bilinear)
}
