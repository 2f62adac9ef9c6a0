package sdlvideo

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/phanxgames/palvideo"
)

// keyModifiers folds SDL's left/right modifier bits into palvideo's.
func keyModifiers(m sdl.Keymod) palvideo.KeyModifiers {
	var out palvideo.KeyModifiers
	if m&sdl.KMOD_SHIFT != 0 {
		out |= palvideo.ModShift
	}
	if m&sdl.KMOD_CTRL != 0 {
		out |= palvideo.ModCtrl
	}
	if m&sdl.KMOD_ALT != 0 {
		out |= palvideo.ModAlt
	}
	if m&sdl.KMOD_GUI != 0 {
		out |= palvideo.ModMeta
	}
	return out
}

// KeyboardSink forwards classified events to next and raises or hides the
// soft keyboard when the classifier asks for it.
func (d *Display) KeyboardSink(next palvideo.EventSink) palvideo.EventSink {
	return palvideo.EventSinkFunc(func(e palvideo.InputEvent) {
		switch e.Type {
		case palvideo.EventShowKeyboard:
			d.ShowSoftKeyboard()
		case palvideo.EventHideKeyboard:
			d.HideSoftKeyboard()
		}
		if next != nil {
			next.EmitEvent(e)
		}
	})
}
