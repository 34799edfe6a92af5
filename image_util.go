package assetkit

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"

	"github.com/chai2010/tiff"
	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

func decodeImageFile(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	_, ft, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return readImage(bytes.NewReader(data), ft)
}

func readImage(rd io.Reader, ft string) (image.Image, error) {
	switch ft {
	case "jpeg", "jpg":
		return jpeg.Decode(rd)
	case "png":
		return png.Decode(rd)
	case "gif":
		return gif.Decode(rd)
	case "bmp":
		return bmp.Decode(rd)
	case "webp":
		return webp.Decode(rd)
	case "tif", "tiff":
		return tiff.Decode(rd)
	default:
		return nil, errors.Errorf("unknown image format %q", ft)
	}
}

// newCanvas returns an opaque black RGB-only canvas.
func newCanvas(width, height int) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	return canvas
}

// resizeIcon scales img to exactly dim x dim with a bilinear filter.
func resizeIcon(img image.Image, dim int) *image.NRGBA {
	return imaging.Resize(img, dim, dim, imaging.Linear)
}

// pasteOpaque copies the straight RGB channels of src onto dst at (x, y).
// Alpha is dropped, not blended.
func pasteOpaque(dst *image.RGBA, src *image.NRGBA, x, y int) {
	sb := src.Bounds()
	for sy := 0; sy < sb.Dy(); sy++ {
		dy := y + sy
		if dy < dst.Rect.Min.Y || dy >= dst.Rect.Max.Y {
			continue
		}
		for sx := 0; sx < sb.Dx(); sx++ {
			dx := x + sx
			if dx < dst.Rect.Min.X || dx >= dst.Rect.Max.X {
				continue
			}
			si := src.PixOffset(sb.Min.X+sx, sb.Min.Y+sy)
			di := dst.PixOffset(dx, dy)
			dst.Pix[di+0] = src.Pix[si+0]
			dst.Pix[di+1] = src.Pix[si+1]
			dst.Pix[di+2] = src.Pix[si+2]
			dst.Pix[di+3] = 0xff
		}
	}
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
