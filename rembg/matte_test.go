package rembg

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatte_Remove(t *testing.T) {
	src := subjectOnWhite(40, 30, 10)
	m := NewMatte(0.12)

	got, err := m.Remove(context.Background(), src)
	require.NoError(t, err)

	out, ok := got.(*image.NRGBA)
	require.True(t, ok)
	assert.Equal(t, src.Bounds(), out.Bounds())

	// 背景透明
	assert.Equal(t, uint8(0), out.NRGBAAt(0, 0).A)
	assert.Equal(t, uint8(0), out.NRGBAAt(39, 29).A)
	assert.Equal(t, uint8(0), out.NRGBAAt(5, 15).A)
	// 主体中心不透明且颜色不变
	assert.Equal(t, color.NRGBA{R: 200, G: 20, B: 20, A: 255}, out.NRGBAAt(20, 15))
	// 主体边缘半透明
	assert.Equal(t, uint8(191), out.NRGBAAt(15, 15).A)

	// 输入不被修改
	assert.Equal(t, uint8(255), src.NRGBAAt(0, 0).A)
}

func TestMatte_Remove_EnclosedHoleKept(t *testing.T) {
	// 红色圆环围住的白色区域与边框不连通，应保留
	img := subjectOnWhite(30, 30, 20)
	for y := 12; y < 18; y++ {
		for x := 12; x < 18; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}

	got, err := NewMatte(0.12).Remove(context.Background(), img)
	require.NoError(t, err)

	out := got.(*image.NRGBA)
	assert.Equal(t, uint8(0), out.NRGBAAt(1, 1).A)
	assert.Equal(t, uint8(255), out.NRGBAAt(15, 15).A)
}

func TestMatte_Remove_UniformImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = 255
	}

	got, err := NewMatte(0.05).Remove(context.Background(), img)
	require.NoError(t, err)

	out := got.(*image.NRGBA)
	for i := 3; i < len(out.Pix); i += 4 {
		require.Equal(t, uint8(0), out.Pix[i])
	}
}

func TestMatte_Remove_OffsetBounds(t *testing.T) {
	full := subjectOnWhite(40, 40, 10)
	sub := full.SubImage(image.Rect(10, 10, 30, 30))

	got, err := NewMatte(0.12).Remove(context.Background(), sub)
	require.NoError(t, err)
	assert.Equal(t, 20, got.Bounds().Dx())
	assert.Equal(t, 20, got.Bounds().Dy())
	assert.Equal(t, uint8(255), got.(*image.NRGBA).NRGBAAt(10, 10).A)
}

func TestMatte_Remove_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMatte(0.12).Remove(ctx, subjectOnWhite(20, 20, 5))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMatte_Remove_Empty(t *testing.T) {
	_, err := NewMatte(0.12).Remove(context.Background(), image.NewNRGBA(image.Rect(0, 0, 0, 0)))
	assert.Error(t, err)
}
