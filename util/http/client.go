package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultTimeout = 30 * time.Second
	// 错误信息里最多保留的响应体长度
	maxErrorBody = 512
)

var ErrBodyTooLarge = errors.New("response body too large")

type HTTPClient struct {
	client *http.Client
}

func NewHTTPClient() IClient {
	return &HTTPClient{
		client: &http.Client{Timeout: defaultTimeout},
	}
}

func (c *HTTPClient) DoHTTPRequest(ctx context.Context, requestParam *RequestParam) error {
	if requestParam == nil {
		return errors.New("request param is nil")
	}

	if requestParam.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, requestParam.Timeout)
		defer cancel()
	}

	var body io.Reader
	switch b := requestParam.Body.(type) {
	case nil:
	case io.Reader:
		body = b
	case []byte:
		body = bytes.NewReader(b)
	default:
		return fmt.Errorf("unsupported body type %T", requestParam.Body)
	}

	method := requestParam.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, requestParam.RequestURI, body)
	if err != nil {
		return err
	}
	for k, v := range requestParam.Header {
		req.Header.Set(k, v)
	}
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/octet-stream")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	requestParam.StatusCode = resp.StatusCode
	requestParam.ContentType = resp.Header.Get("Content-Type")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("HTTP request failed with status %d: %s", resp.StatusCode, string(msg))
	}

	data, err := readLimited(resp.Body, requestParam.MaxBytes)
	if err != nil {
		return err
	}
	if requestParam.Response != nil {
		*requestParam.Response = data
	}
	return nil
}

// readLimited 读取响应体，limit>0 时多读 1 字节用来判断是否超限
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read response body: %w", err)
		}
		return data, nil
	}

	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, limit)
	}
	return data, nil
}
