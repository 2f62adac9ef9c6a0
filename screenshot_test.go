package palvideo

import "testing"

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello", "hello"},
		{"after-fade", "after-fade"},
		{"frame.01", "frame.01"},
		{"has spaces", "has_spaces"},
		{"path/to/thing", "path_to_thing"},
		{"back\\slash", "back_slash"},
		{"special!@#$%", "special_____"},
		{"", "unlabeled"},
		{"   ", "unlabeled"},
		{"MixedCase123", "MixedCase123"},
	}
	for _, tt := range tests {
		got := sanitizeLabel(tt.in)
		if got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScreenshotQueueAppend(t *testing.T) {
	fc, _ := NewFrameCompositor(newFakeRenderer(2, 2))
	fc.Screenshot("a")
	fc.Screenshot("b")
	fc.Screenshot("c")
	if len(fc.screenshotQueue) != 3 {
		t.Fatalf("queue len = %d, want 3", len(fc.screenshotQueue))
	}
	if fc.screenshotQueue[0] != "a" || fc.screenshotQueue[1] != "b" || fc.screenshotQueue[2] != "c" {
		t.Errorf("queue = %v, want [a b c]", fc.screenshotQueue)
	}
}

func TestScreenshotDirDefault(t *testing.T) {
	fc, _ := NewFrameCompositor(newFakeRenderer(2, 2))
	if fc.screenshotDir != "screenshots" {
		t.Errorf("screenshotDir = %q, want %q", fc.screenshotDir, "screenshots")
	}
}

func TestSurfaceImage(t *testing.T) {
	s := NewSurface(2, 1)
	s.SetARGB(1, 0, 0x80102030)
	img := SurfaceImage(s)
	got := img.NRGBAAt(1, 0)
	if got.R != 0x10 || got.G != 0x20 || got.B != 0x30 || got.A != 0x80 {
		t.Errorf("pixel = %+v", got)
	}
}
