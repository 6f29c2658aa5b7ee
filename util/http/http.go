package http

import (
	"context"
	"time"
)

//go:generate mockgen -destination=mocks/http.go -package=mocks . IClient
type IClient interface {
	DoHTTPRequest(ctx context.Context, requestParam *RequestParam) error
}

// RequestParam 一次 HTTP 调用的参数
//
//	Body:     nil / io.Reader / []byte，原样发送
//	Response: nil / *[]byte，接收原始响应体
//	Timeout:  >0 时覆盖客户端默认超时
//	MaxBytes: >0 时响应体超过该大小直接报错
//
// 调用结束后 StatusCode 与 ContentType 会被回填
type RequestParam struct {
	RequestURI string
	Method     string
	Header     map[string]string
	Body       interface{}
	Response   *[]byte

	Timeout  time.Duration
	MaxBytes int64

	StatusCode  int
	ContentType string
}
