package ebitenvideo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/palvideo"
)

func TestNewRendererRejectsEmptyCanvas(t *testing.T) {
	_, err := NewRenderer(0, 480)
	assert.ErrorIs(t, err, palvideo.ErrResourceCreate)
}

func TestRendererSizes(t *testing.T) {
	r, err := NewRenderer(640, 480)
	require.NoError(t, err)
	w, h := r.LogicalSize()
	assert.Equal(t, [2]int{640, 480}, [2]int{w, h})
	w, h = r.OutputSize()
	assert.Equal(t, [2]int{640, 480}, [2]int{w, h}, "output defaults to logical size")

	r.SetOutputSize(1280, 960)
	w, h = r.OutputSize()
	assert.Equal(t, [2]int{1280, 960}, [2]int{w, h})
}

func TestCreateTextureLayouts(t *testing.T) {
	r, err := NewRenderer(64, 64)
	require.NoError(t, err)

	tests := []struct {
		format      palvideo.PixelFormat
		w, h        int
		pitch, size int
	}{
		{palvideo.PixelFormatARGB8888, 5, 3, 20, 60},
		{palvideo.PixelFormatYV12, 8, 4, 8, 48},
		{palvideo.PixelFormatYV12, 7, 4, 8, 48},
	}
	for _, tt := range tests {
		tex, err := r.CreateTexture(tt.format, tt.w, tt.h)
		require.NoError(t, err)
		pix, pitch, err := r.LockTexture(tex)
		require.NoError(t, err)
		assert.Equal(t, tt.pitch, pitch, "%s %dx%d pitch", tt.format, tt.w, tt.h)
		assert.Len(t, pix, tt.size)
		assert.Equal(t, tt.format, tex.Format())
		r.DestroyTexture(tex)
	}
}

func TestCreateTextureErrors(t *testing.T) {
	r, err := NewRenderer(64, 64)
	require.NoError(t, err)

	_, err = r.CreateTexture(palvideo.PixelFormatARGB8888, 0, 4)
	assert.ErrorIs(t, err, palvideo.ErrResourceCreate)
	_, err = r.CreateTexture(palvideo.PixelFormat(9), 4, 4)
	assert.ErrorIs(t, err, palvideo.ErrResourceCreate)
}

func TestLockTextureTwice(t *testing.T) {
	r, err := NewRenderer(64, 64)
	require.NoError(t, err)
	tex, err := r.CreateTexture(palvideo.PixelFormatARGB8888, 4, 4)
	require.NoError(t, err)

	_, _, err = r.LockTexture(tex)
	require.NoError(t, err)
	_, _, err = r.LockTexture(tex)
	assert.ErrorIs(t, err, palvideo.ErrLock)
}

type otherTexture struct{}

func (otherTexture) Format() palvideo.PixelFormat { return palvideo.PixelFormatARGB8888 }
func (otherTexture) Size() (int, int)             { return 1, 1 }

func TestForeignTexture(t *testing.T) {
	r, err := NewRenderer(64, 64)
	require.NoError(t, err)
	_, _, err = r.LockTexture(otherTexture{})
	assert.ErrorIs(t, err, palvideo.ErrLock)
	assert.Error(t, r.Copy(otherTexture{}, nil, nil))
}

func TestRectGeoM(t *testing.T) {
	m := rectGeoM(palvideo.Rect{X: 4, Y: 4, Width: 10, Height: 20}, palvideo.Rect{X: 100, Y: 50, Width: 40, Height: 10})
	x, y := m.Apply(0, 0)
	assert.Equal(t, [2]float64{100, 50}, [2]float64{x, y})
	x, y = m.Apply(10, 20)
	assert.Equal(t, [2]float64{140, 60}, [2]float64{x, y})
}

func TestPresentCounts(t *testing.T) {
	r, err := NewRenderer(4, 4)
	require.NoError(t, err)
	r.Present()
	r.Present()
	assert.Equal(t, 2, r.Presents())
}

func TestOverlayText(t *testing.T) {
	s := palvideo.NewFingerTrackingState()
	assert.Equal(t, "FPS: 60.0\nTPS: 60.0\nTouch: idle", overlayText(60, 60, s))

	s.First.FingerID = 4
	assert.Contains(t, overlayText(60, 60, s), "Touch: pending")
	s.Rotating = true
	assert.Contains(t, overlayText(60, 60, s), "Touch: rotating")
}
