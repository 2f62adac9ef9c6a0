package palvideo

import "errors"

var (
	// ErrResourceCreate reports a texture, program, window or surface that
	// could not be created. Fatal during initialization.
	ErrResourceCreate = errors.New("palvideo: resource creation failed")

	// ErrProgramBuild reports a shader program that failed to compile or link.
	ErrProgramBuild = errors.New("palvideo: shader program build failed")

	// ErrGeometry reports buffer dimensions that do not match the rect they
	// are drawn with. The operation is aborted; the process continues.
	ErrGeometry = errors.New("palvideo: geometry mismatch")

	// ErrLock reports a texture that could not be locked for writing. The
	// frame is skipped and the next tick retries.
	ErrLock = errors.New("palvideo: texture lock failed")

	// ErrInvalidFingerCount reports gesture finger thresholds that overlap
	// or fall outside [2, 4].
	ErrInvalidFingerCount = errors.New("palvideo: invalid finger count")
)
