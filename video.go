package palvideo

import (
	"fmt"
)

// OutputSizer is implemented by renderers whose device resolution can differ
// from the logical size.
type OutputSizer interface {
	OutputSize() (w, h int)
}

// VideoPlaybackUploader streams decoded movie frames into a GPU texture and
// presents them with an optional subtitle strip.
type VideoPlaybackUploader struct {
	renderer Renderer
	texture  Texture

	subtitle       Rect // logical pixels
	deviceSubtitle Rect // device pixels
	subtitles      SubtitleRenderer
}

// NewVideoPlaybackUploader returns an uploader with no movie screen.
// InitMovieScreen must be called before showing frames.
func NewVideoPlaybackUploader(r Renderer) *VideoPlaybackUploader {
	return &VideoPlaybackUploader{renderer: r}
}

// SetSubtitles installs the renderer used for non-zero subtitle references.
func (v *VideoPlaybackUploader) SetSubtitles(s SubtitleRenderer) {
	v.subtitles = s
}

// InitMovieScreen clears the target and (re)creates the streaming texture.
// YUV movies get a YV12 texture of the requested size; everything else gets
// an ARGB8888 texture of the logical size. The returned size is always the
// logical size, which callers must use instead of the one they asked for.
func (v *VideoPlaybackUploader) InitMovieScreen(w, h int, yuv bool) (int, int, error) {
	v.renderer.SetDrawColor(Color{})
	v.renderer.Clear()

	winW, winH := v.renderer.LogicalSize()

	if v.texture != nil {
		v.renderer.DestroyTexture(v.texture)
		v.texture = nil
	}
	var (
		tex Texture
		err error
	)
	if yuv {
		tex, err = v.renderer.CreateTexture(PixelFormatYV12, w, h)
	} else {
		tex, err = v.renderer.CreateTexture(PixelFormatARGB8888, winW, winH)
	}
	if err != nil {
		Logger().Error("create movie texture", "yuv", yuv, "err", err)
		err = fmt.Errorf("%w: movie texture: %w", ErrResourceCreate, err)
	} else {
		v.texture = tex
	}

	v.subtitle = Rect{X: 0, Y: winH - winH/4, Width: winW, Height: winH / 4}
	v.deviceSubtitle = v.subtitle
	if sz, ok := v.renderer.(OutputSizer); ok {
		ow, oh := sz.OutputSize()
		if ow > 0 && oh > 0 && (ow != winW || oh != winH) {
			v.deviceSubtitle = Rect{
				X:      v.subtitle.X * ow / winW,
				Y:      v.subtitle.Y * oh / winH,
				Width:  v.subtitle.Width * ow / winW,
				Height: v.subtitle.Height * oh / winH,
			}
		}
	}
	if err == nil {
		Logger().Info("movie screen", "w", winW, "h", winH, "yuv", yuv,
			"subtitles", fmt.Sprintf("%+v", v.subtitle), "device", fmt.Sprintf("%+v", v.deviceSubtitle))
	}
	return winW, winH, err
}

// SubtitleRegion is the bottom quarter of the movie screen in logical pixels.
func (v *VideoPlaybackUploader) SubtitleRegion() Rect {
	return v.subtitle
}

// DeviceSubtitleRegion is SubtitleRegion in device pixels.
func (v *VideoPlaybackUploader) DeviceSubtitleRegion() Rect {
	return v.deviceSubtitle
}

func (v *VideoPlaybackUploader) requireTexture(format PixelFormat) error {
	if v.texture == nil {
		return fmt.Errorf("%w: no movie screen", ErrResourceCreate)
	}
	if v.texture.Format() != format {
		return fmt.Errorf("%w: movie screen is %s, frame is %s", ErrGeometry, v.texture.Format(), format)
	}
	return nil
}

// ShowFrame converts one RGB555 or paletted frame into the movie texture and
// presents it. bufW and bufH must equal src's size; on mismatch nothing is
// locked or presented. palette holds 256 RGB triplets of 6-bit components.
// A non-zero subtitleRef is drawn over the strip before presenting.
func (v *VideoPlaybackUploader) ShowFrame(buf []byte, bufW, bufH int, src, dst Rect, truecolor bool, palette []byte, subtitleRef uint32) error {
	if bufW != src.Width || bufH != src.Height {
		Logger().Warn("movie frame size mismatch",
			"buffer", fmt.Sprintf("%dx%d", bufW, bufH),
			"src", fmt.Sprintf("%dx%d", src.Width, src.Height))
		return fmt.Errorf("%w: buffer %dx%d, src rect %dx%d", ErrGeometry, bufW, bufH, src.Width, src.Height)
	}
	if err := v.requireTexture(PixelFormatARGB8888); err != nil {
		return err
	}
	tw, th := v.texture.Size()
	if bufW > tw || bufH > th {
		return fmt.Errorf("%w: frame %dx%d exceeds movie screen %dx%d", ErrGeometry, bufW, bufH, tw, th)
	}
	bpp := 1
	if truecolor {
		bpp = 2
	}
	if len(buf) < bufW*bufH*bpp {
		return fmt.Errorf("%w: %d bytes for %dx%d frame", ErrGeometry, len(buf), bufW, bufH)
	}
	if !truecolor && len(palette) < PaletteSize*3 {
		return fmt.Errorf("%w: palette has %d bytes", ErrGeometry, len(palette))
	}

	pixels, pitch, err := v.renderer.LockTexture(v.texture)
	if err != nil {
		Logger().Warn("lock movie texture", "err", err)
		return fmt.Errorf("%w: %w", ErrLock, err)
	}
	if truecolor {
		ConvertRGB555(pixels, pitch, buf, bufW, bufH)
	} else {
		pal := ExpandVideoPalette(palette, 3)
		ConvertPaletted(pixels, pitch, buf, bufW, bufH, &pal)
	}
	v.renderer.UnlockTexture(v.texture)

	sub := v.subtitle
	v.renderer.SetDrawColor(ColorBlack)
	if err := v.renderer.FillRect(&sub); err != nil {
		Logger().Warn("clear subtitle strip", "err", err)
	}
	if err := v.renderer.Copy(v.texture, &src, &Rect{X: dst.X, Y: dst.Y, Width: src.Width, Height: src.Height}); err != nil {
		Logger().Warn("copy movie frame", "err", err)
	}
	if subtitleRef > 0 && v.subtitles != nil {
		if err := v.subtitles.DrawSubtitle(v.renderer, subtitleRef, sub); err != nil {
			Logger().Warn("draw subtitle", "ref", subtitleRef, "err", err)
		}
	}
	v.renderer.Present()
	return nil
}

// ShowYUVFrame uploads a planar 4:2:0 frame (Y, U, V with independent
// strides) into the YV12 movie texture and presents it stretched to dst.
func (v *VideoPlaybackUploader) ShowYUVFrame(planes [3][]byte, strides [3]int, bufW, bufH int, dst Rect) error {
	if err := v.requireTexture(PixelFormatYV12); err != nil {
		return err
	}
	tw, th := v.texture.Size()
	if bufW != tw || bufH != th {
		Logger().Warn("movie frame size mismatch",
			"buffer", fmt.Sprintf("%dx%d", bufW, bufH),
			"texture", fmt.Sprintf("%dx%d", tw, th))
		return fmt.Errorf("%w: frame %dx%d, movie screen %dx%d", ErrGeometry, bufW, bufH, tw, th)
	}
	if err := checkYUVPlanes(planes, strides, bufW, bufH); err != nil {
		return err
	}

	pixels, pitch, err := v.renderer.LockTexture(v.texture)
	if err != nil {
		Logger().Warn("lock movie texture", "err", err)
		return fmt.Errorf("%w: %w", ErrLock, err)
	}
	CopyYUVPlanes(pixels, pitch, planes, strides, bufW, bufH)
	v.renderer.UnlockTexture(v.texture)

	if err := v.renderer.Copy(v.texture, nil, &dst); err != nil {
		Logger().Warn("copy movie frame", "err", err)
	}
	v.renderer.Present()
	return nil
}

// Close destroys the movie texture. Safe to call more than once.
func (v *VideoPlaybackUploader) Close() {
	if v.texture != nil {
		v.renderer.DestroyTexture(v.texture)
		v.texture = nil
	}
}
