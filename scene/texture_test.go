package scene

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestDecodeImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(2, 3, 4, 5))
	src.Set(2, 3, color.NRGBA{R: 255, A: 255})

	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatalf("encode: %v", err)
	}

	img, err := DecodeImage(&buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "min", img.Rect.Min, image.Point{})
	testutil.AssertEqual(t, "width", img.Rect.Dx(), 2)
	testutil.AssertEqual(t, "red", img.RGBAAt(0, 0).R, uint8(255))
}

func TestDecodeImage_Garbage(t *testing.T) {
	_, err := DecodeImage(bytes.NewReader([]byte("not an image")))
	testutil.AssertErrorContains(t, err, "decode")
}

func TestLoadImage_Missing(t *testing.T) {
	_, err := LoadImage("/nonexistent/texture.png")
	testutil.AssertErrorContains(t, err, "open texture")
}
