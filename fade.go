package palvideo

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// fadeTween animates the four fade color channels together.
type fadeTween struct {
	tweens [4]*gween.Tween
	done   bool
}

func newFadeTween(from, to Color, duration float32, fn ease.TweenFunc) *fadeTween {
	return &fadeTween{tweens: [4]*gween.Tween{
		gween.New(float32(from.R), float32(to.R), duration, fn),
		gween.New(float32(from.G), float32(to.G), duration, fn),
		gween.New(float32(from.B), float32(to.B), duration, fn),
		gween.New(float32(from.A), float32(to.A), duration, fn),
	}}
}

func (f *fadeTween) update(dt float32) Color {
	var v [4]uint8
	allDone := true
	for i, tw := range f.tweens {
		val, finished := tw.Update(dt)
		v[i] = clampByte(val)
		if !finished {
			allDone = false
		}
	}
	f.done = allDone
	return Color{v[0], v[1], v[2], v[3]}
}

func clampByte(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v + 0.5)
	}
}

// FadeTo animates the fade color from its current value to target over
// duration seconds. Call Update each tick to advance it.
func (c *FrameCompositor) FadeTo(target Color, duration float32, fn ease.TweenFunc) {
	if fn == nil {
		fn = ease.Linear
	}
	if duration <= 0 {
		c.SetFadeColor(target)
		return
	}
	c.fadeAnim = newFadeTween(c.fade, target, duration, fn)
}

// Fading reports whether a FadeTo animation is still running.
func (c *FrameCompositor) Fading() bool {
	return c.fadeAnim != nil
}

// Update advances the fade animation by dt seconds.
func (c *FrameCompositor) Update(dt float32) {
	if c.fadeAnim == nil {
		return
	}
	c.fade = c.fadeAnim.update(dt)
	if c.fadeAnim.done {
		c.fadeAnim = nil
	}
}
