// Package sdlvideo runs the palvideo driver on SDL2 with OpenGL sprite
// programs.
//
// [Open] creates the window and an SDL renderer with a logical size, so
// platforms that force a different window size still draw at the
// requested resolution. [Renderer] adapts the SDL renderer to
// palvideo.Renderer with streaming ARGB8888 and YV12 textures.
// [GLPrograms] implements palvideo.ProgramBackend in GLSL on the
// renderer's OpenGL context. [EventPump] drains SDL events into a
// palvideo.TouchGestureClassifier.
//
// Every call must happen on the thread that called Open; wrap the main
// loop in sdl.Main when the platform requires the main thread.
package sdlvideo
