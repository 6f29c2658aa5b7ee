package crop

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
)

func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodePNGBase64 PNG 编码后再做标准 base64
func EncodePNGBase64(img image.Image) (string, error) {
	data, err := EncodePNG(img)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
