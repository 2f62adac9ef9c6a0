package palvideo

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Screenshot queues a labeled capture of the backbuffer. The PNG is written
// to the screenshot directory during the next SwapBuffers.
func (c *FrameCompositor) Screenshot(label string) {
	c.screenshotQueue = append(c.screenshotQueue, label)
}

// SetScreenshotDir changes where queued screenshots are written.
func (c *FrameCompositor) SetScreenshotDir(dir string) {
	c.screenshotDir = dir
}

// flushScreenshots writes every queued capture. Failures are logged and the
// queue is cleared either way.
func (c *FrameCompositor) flushScreenshots() {
	if len(c.screenshotQueue) == 0 {
		return
	}
	defer func() { c.screenshotQueue = c.screenshotQueue[:0] }()

	if err := os.MkdirAll(c.screenshotDir, 0o755); err != nil {
		Logger().Warn("screenshot mkdir", "dir", c.screenshotDir, "err", err)
		return
	}

	img := SurfaceImage(c.back)
	stamp := time.Now().Format("20060102_150405")
	for _, label := range c.screenshotQueue {
		path := filepath.Join(c.screenshotDir, fmt.Sprintf("%s_%s.png", stamp, sanitizeLabel(label)))
		if err := writePNG(path, img); err != nil {
			Logger().Warn("screenshot", "err", err)
		}
	}
}

// SurfaceImage copies an ARGB8888 surface into a straight-alpha image.
func SurfaceImage(s *Surface) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, s.Width, s.Height))
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			v := s.ARGBAt(x, y)
			off := img.PixOffset(x, y)
			img.Pix[off] = uint8(v >> 16)
			img.Pix[off+1] = uint8(v >> 8)
			img.Pix[off+2] = uint8(v)
			img.Pix[off+3] = uint8(v >> 24)
		}
	}
	return img
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
