// Package ebitenvideo runs the palvideo driver on Ebitengine.
//
// [Renderer] implements palvideo.Renderer over an offscreen canvas that
// [Game] copies to the screen every frame. [Programs] implements
// palvideo.ProgramBackend with the five sprite programs written in Kage.
// [Game] polls touches, wheel and text input each tick and feeds them to a
// palvideo.TouchGestureClassifier.
//
//	g, err := ebitenvideo.NewGame(palvideo.DefaultConfig(), env, sink)
//	if err != nil {
//		log.Fatal(err)
//	}
//	g.OnUpdate = func() error {
//		drawFrame(g.Compositor().Backbuffer())
//		return g.Compositor().SwapBuffers()
//	}
//	g.OnDraw = func() {
//		g.Sprites().BlitSprite(hero, x, y, nil, 0, nil, nil)
//	}
//	if err := ebitenvideo.Run(g); err != nil {
//		log.Fatal(err)
//	}
package ebitenvideo
