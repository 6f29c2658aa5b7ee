// Package rembg 背景移除。默认委托给外部 rembg 服务，matte 为不依赖网络的本地实现
package rembg

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/chaos-io/cropserver/config"
	nhttp "github.com/chaos-io/cropserver/util/http"
)

const (
	BackendRemote = "remote"
	BackendMatte  = "matte"
)

var ErrUnknownBackend = errors.New("unknown rembg backend")

// Remover 返回与输入同尺寸、背景像素透明的图片
type Remover interface {
	Remove(ctx context.Context, img image.Image) (image.Image, error)
}

// New 根据配置选择后端
func New(cfg config.RemBGConfig, cli nhttp.IClient) (Remover, error) {
	switch cfg.Backend {
	case BackendRemote:
		return NewRemote(cfg.URL, cfg.Model, cfg.Timeout, cli), nil
	case BackendMatte:
		return NewMatte(cfg.Tolerance), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

