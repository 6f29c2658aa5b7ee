package rembg

import (
	"context"
	"errors"
	"image"
	"math"
	"slices"

	"github.com/chaos-io/cropserver/util"
)

// 每处理这么多像素检查一次 ctx
const cancelCheckInterval = 1 << 14

// Matte 本地抠图：用图片边框估计背景色，从边框开始按颜色距离做洪水填充，
// 连通到边框且颜色接近背景的像素置为透明
type Matte struct {
	// 颜色距离容差，0~1，相对于 RGB 空间最大距离
	tolerance float64
}

func NewMatte(tolerance float64) *Matte {
	return &Matte{tolerance: tolerance}
}

func (m *Matte) Remove(ctx context.Context, img image.Image) (image.Image, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil, errors.New("empty image")
	}

	// 复制一份，不修改调用方的图片
	src := util.ToNRGBA(img)
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		copy(out.Pix[y*out.Stride:y*out.Stride+w*4], src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):])
	}

	bg := borderColor(out)
	limit := m.tolerance * math.Sqrt(3) * 255
	limit2 := limit * limit

	isBackground := func(i int) bool {
		p := out.Pix[i*4 : i*4+4 : i*4+4]
		if p[3] == 0 {
			return true
		}
		dr := float64(p[0]) - bg[0]
		dg := float64(p[1]) - bg[1]
		db := float64(p[2]) - bg[2]
		return dr*dr+dg*dg+db*db <= limit2
	}

	mask := make([]bool, w*h)
	queue := make([]int, 0, 2*(w+h))
	push := func(x, y int) {
		i := y*w + x
		if mask[i] || !isBackground(i) {
			return
		}
		mask[i] = true
		queue = append(queue, i)
	}

	for x := 0; x < w; x++ {
		push(x, 0)
		push(x, h-1)
	}
	for y := 0; y < h; y++ {
		push(0, y)
		push(w-1, y)
	}

	for n := 0; len(queue) > 0; n++ {
		if n%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		i := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		x, y := i%w, i/w
		if x > 0 {
			push(x-1, y)
		}
		if x < w-1 {
			push(x+1, y)
		}
		if y > 0 {
			push(x, y-1)
		}
		if y < h-1 {
			push(x, y+1)
		}
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			a := &out.Pix[i*4+3]
			switch {
			case mask[i]:
				*a = 0
			case touchesMask(mask, w, h, x, y):
				// 一像素软边
				*a = uint8(uint16(*a) * 3 / 4)
			}
		}
	}

	return out, nil
}

func touchesMask(mask []bool, w, h, x, y int) bool {
	return (x > 0 && mask[y*w+x-1]) ||
		(x < w-1 && mask[y*w+x+1]) ||
		(y > 0 && mask[(y-1)*w+x]) ||
		(y < h-1 && mask[(y+1)*w+x])
}

// borderColor 边框像素逐通道取中位数
func borderColor(img *image.NRGBA) [3]float64 {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	var ch [3][]uint8
	add := func(x, y int) {
		o := img.PixOffset(x, y)
		for c := 0; c < 3; c++ {
			ch[c] = append(ch[c], img.Pix[o+c])
		}
	}
	for x := 0; x < w; x++ {
		add(x, 0)
		if h > 1 {
			add(x, h-1)
		}
	}
	for y := 1; y < h-1; y++ {
		add(0, y)
		if w > 1 {
			add(w-1, y)
		}
	}

	var res [3]float64
	for c := range ch {
		slices.Sort(ch[c])
		res[c] = float64(ch[c][len(ch[c])/2])
	}
	return res
}
