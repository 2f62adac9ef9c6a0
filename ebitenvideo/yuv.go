package ebitenvideo

import (
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/phanxgames/palvideo"
)

// yv12Image wraps a locked YV12 buffer as a 4:2:0 image without copying.
func yv12Image(buf []byte, pitch, w, h int) *image.YCbCr {
	cpitch, rows := palvideo.YV12Chroma(pitch, h)
	ySize := pitch * h
	cSize := cpitch * rows
	return &image.YCbCr{
		Y:              buf[:ySize],
		Cb:             buf[ySize+cSize : ySize+2*cSize],
		Cr:             buf[ySize : ySize+cSize],
		YStride:        pitch,
		CStride:        cpitch,
		SubsampleRatio: image.YCbCrSubsampleRatio420,
		Rect:           image.Rect(0, 0, w, h),
	}
}

// yv12ToRGBA converts a locked YV12 buffer into tightly packed RGBA bytes.
func yv12ToRGBA(dst, buf []byte, pitch, w, h int) {
	out := &image.RGBA{Pix: dst, Stride: w * 4, Rect: image.Rect(0, 0, w, h)}
	xdraw.Draw(out, out.Rect, yv12Image(buf, pitch, w, h), image.Point{}, xdraw.Src)
}
