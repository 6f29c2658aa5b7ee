package crop

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/chaos-io/cropserver/rembg"
	"github.com/chaos-io/cropserver/util"
)

var ErrNoForeground = errors.New("no foreground detected")

// Options 单次请求的可选处理
type Options struct {
	// Trim 裁到主体的 alpha bounding box
	Trim bool
	// Square 以主体为中心裁成正方形，隐含 Trim
	Square bool
}

type Processor struct {
	RemBG rembg.Remover
	// 最长边上限，0 不缩放
	MaxSide int
	// alpha > AlphaThreshold*255 的像素算作主体
	AlphaThreshold float64
}

func NewProcessor(remover rembg.Remover, maxSide int, alphaThreshold float64) *Processor {
	return &Processor{
		RemBG:          remover,
		MaxSide:        maxSide,
		AlphaThreshold: alphaThreshold,
	}
}

// Process 把输入图片变成：
//
//	尺寸 ≤ MaxSide（若设置）
//	背景透明
//	可选：裁到主体 / 主体居中的正方形
func (p *Processor) Process(ctx context.Context, input image.Image, opts Options) (*image.NRGBA, error) {
	src := util.ToNRGBA(input)

	if p.MaxSide > 0 {
		src = resizeWithinMax(src, p.MaxSide)
	}

	removed, err := p.RemBG.Remove(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("remove background: %w", err)
	}
	output := util.ToNRGBA(removed)

	if !opts.Trim && !opts.Square {
		return output, nil
	}

	bbox, err := alphaBBox(output, p.AlphaThreshold)
	if err != nil {
		return nil, err
	}

	if opts.Square {
		return cropSquare(output, bbox), nil
	}
	return cropRect(output, bbox), nil
}
