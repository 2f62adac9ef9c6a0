// Package palvideo is the presentation and touch-input core of a video driver
// for palette-oriented 2D engines.
//
// It has two halves. The rendering half uploads the engine's CPU frames to
// the GPU and draws sprites through a small fixed set of shader programs;
// the input half turns raw multi-touch events into the mouse and keyboard
// events the engine understands.
//
// The package is backend-neutral. Concrete devices live in sub-packages:
// [github.com/phanxgames/palvideo/ebitenvideo] for Ebitengine and
// [github.com/phanxgames/palvideo/sdlvideo] for SDL2 with OpenGL.
//
// # Frames
//
// [FrameCompositor] owns the engine's ARGB backbuffer. Each
// [FrameCompositor.SwapBuffers] uploads it as a texture, copies it to the
// screen, blends the fade color over it and presents:
//
//	fc, err := palvideo.NewFrameCompositor(renderer)
//	// ... draw into fc.Backbuffer() ...
//	fc.FadeTo(palvideo.ColorBlack, 0.5, ease.InQuad)
//	fc.Update(dt)
//	err = fc.SwapBuffers()
//
// # Movies
//
// [VideoPlaybackUploader] streams decoded movie frames into a texture.
// RGB555 and paletted frames are converted to ARGB8888 while the texture is
// locked; planar YUV frames are copied into a YV12 texture:
//
//	w, h, err := up.InitMovieScreen(320, 240, false)
//	err = up.ShowFrame(buf, 320, 200, src, dst, true, nil, 0)
//
// # Sprites
//
// [ShaderSpriteRenderer] draws [Sprite] values through one of five
// programs. The program follows from the sprite kind and the grayscale or
// sepia blit flags; [ProgramCache] skips binds of the program already in
// use, so runs of similar sprites cost a single bind.
//
// # Touch
//
// [TouchGestureClassifier] holds a single-finger touch back until its
// meaning is clear. Moving it makes it a primary press, holding it for
// [Config.PromotionTicks] makes it a secondary press, and lifting it makes
// it a primary click. Multi-finger motion scrolls or toggles the soft
// keyboard depending on the configured finger counts; two fingers over the
// game view rotate the party formation.
//
//	clf, err := palvideo.NewTouchGestureClassifier(cfg, env, dispatcher)
//	for {
//		clf.Tick(ticks())
//		for _, e := range pollTouches() {
//			clf.HandleEvent(e)
//		}
//		// draw and present
//	}
//
// Classified events reach the engine through an [EventSink]. [Dispatcher]
// is a sink with per-event-type callbacks; the ecs sub-module publishes them
// to a Donburi world instead.
//
// [TouchInjector] and [GestureRunner] drive the classifier without a device,
// for tests and for replaying recorded gesture scripts.
package palvideo
