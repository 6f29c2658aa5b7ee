package crop

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/chaos-io/cropserver/util"
)

var ErrTooManyPixels = errors.New("image exceeds pixel limit")

// Decode 先读图片头检查像素数，再解码并统一转换为 NRGBA。maxPixels<=0 不限制
func Decode(data []byte, maxPixels int) (*image.NRGBA, string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	if maxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return nil, format, fmt.Errorf("%w: %dx%d > %d pixels", ErrTooManyPixels, cfg.Width, cfg.Height, maxPixels)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return util.ToNRGBA(img), format, nil
}
