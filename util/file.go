package util

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	nhttp "github.com/chaos-io/cropserver/util/http"
)

// Download 下载得到的原始内容
type Download struct {
	Data        []byte
	ContentType string
}

// DownloadImage 下载图片，非 2xx 或超过 maxBytes（>0 时）视为失败
func DownloadImage(ctx context.Context, cli nhttp.IClient, url string, timeout time.Duration, maxBytes int64) (*Download, error) {
	var data []byte
	reqParam := &nhttp.RequestParam{
		RequestURI: url,
		Method:     http.MethodGet,
		Response:   &data,
		Timeout:    timeout,
		MaxBytes:   maxBytes,
	}
	if err := cli.DoHTTPRequest(ctx, reqParam); err != nil {
		return nil, fmt.Errorf("download %s: %w", url, err)
	}
	if len(data) == 0 {
		return nil, errors.New("download " + url + ": empty body")
	}

	return &Download{Data: data, ContentType: reqParam.ContentType}, nil
}
