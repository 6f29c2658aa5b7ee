package rembg

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	nhttp "github.com/chaos-io/cropserver/util/http"
)

const removePath = "/api/remove"

// Remote 调用 rembg HTTP 服务（rembg s）做推理
type Remote struct {
	baseURL string
	model   string
	timeout time.Duration
	cli     nhttp.IClient
}

func NewRemote(baseURL, model string, timeout time.Duration, cli nhttp.IClient) *Remote {
	return &Remote{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		timeout: timeout,
		cli:     cli,
	}
}

/*
	curl -X POST "$BASE_URL/api/remove?model=u2net" \
	  -F "file=@my_image.png" -o out.png
*/
func (r *Remote) Remove(ctx context.Context, img image.Image) (image.Image, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "image.png")
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if err := png.Encode(part, img); err != nil {
		return nil, fmt.Errorf("encode form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	var out []byte
	reqParam := &nhttp.RequestParam{
		RequestURI: r.removeURL(),
		Method:     http.MethodPost,
		Header:     map[string]string{"Content-Type": writer.FormDataContentType()},
		Body:       body,
		Response:   &out,
		Timeout:    r.timeout,
	}
	if err := r.cli.DoHTTPRequest(ctx, reqParam); err != nil {
		return nil, fmt.Errorf("rembg request: %w", err)
	}

	res, _, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("decode rembg output: %w", err)
	}
	return res, nil
}

// Ping 探测服务是否可达，任何 HTTP 响应（包括 404）都算可达
func (r *Remote) Ping(ctx context.Context) error {
	reqParam := &nhttp.RequestParam{
		RequestURI: r.baseURL + "/",
		Method:     http.MethodGet,
		Timeout:    5 * time.Second,
	}
	err := r.cli.DoHTTPRequest(ctx, reqParam)
	if err != nil && reqParam.StatusCode == 0 {
		return fmt.Errorf("rembg unreachable: %w", err)
	}
	return nil
}

func (r *Remote) removeURL() string {
	if r.model == "" {
		return r.baseURL + removePath
	}
	return r.baseURL + removePath + "?" + url.Values{"model": {r.model}}.Encode()
}
