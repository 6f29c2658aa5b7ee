package crop

import (
	"image"

	"github.com/nfnt/resize"
	"golang.org/x/image/draw"

	"github.com/chaos-io/cropserver/util"
)

// resizeWithinMax 缩放（最长边 <= maxSize）
func resizeWithinMax(img *image.NRGBA, maxSize int) *image.NRGBA {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	longest := max(w, h)

	if longest <= maxSize {
		return img
	}

	scale := float64(maxSize) / float64(longest)
	newW := max(1, int(float64(w)*scale))
	newH := max(1, int(float64(h)*scale))

	resized := resize.Resize(uint(newW), uint(newH), img, resize.Lanczos3)
	return util.ToNRGBA(resized)
}

// alphaBBox 从 alpha 通道计算主体 bounding box
// 把 alpha > threshold * 255 的像素当作“主体”
func alphaBBox(img *image.NRGBA, threshold float64) (image.Rectangle, error) {
	b := img.Bounds()
	th := uint8(threshold * 255)

	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1

	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.Pix[row+(x-b.Min.X)*4+3] <= th {
				continue
			}
			minX = min(minX, x)
			minY = min(minY, y)
			maxX = max(maxX, x)
			maxY = max(maxY, y)
		}
	}

	if maxX < minX {
		return image.Rectangle{}, ErrNoForeground
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), nil
}

// cropRect 复制 rect 区域到以 (0,0) 为原点的新图
func cropRect(img *image.NRGBA, rect image.Rectangle) *image.NRGBA {
	rect = rect.Intersect(img.Bounds())
	dst := image.NewNRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), img, rect.Min, draw.Src)
	return dst
}

// cropSquare 以主体中心、最长边为边长的正方形。
// 超出原图的部分保持透明，保证输出一定是正方形
func cropSquare(img *image.NRGBA, bbox image.Rectangle) *image.NRGBA {
	size := max(bbox.Dx(), bbox.Dy())
	cx := bbox.Min.X + bbox.Dx()/2
	cy := bbox.Min.Y + bbox.Dy()/2

	square := image.Rect(cx-size/2, cy-size/2, cx-size/2+size, cy-size/2+size)
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))

	src := square.Intersect(img.Bounds())
	offset := src.Min.Sub(square.Min)
	draw.Draw(dst, src.Sub(src.Min).Add(offset), img, src.Min, draw.Src)
	return dst
}
